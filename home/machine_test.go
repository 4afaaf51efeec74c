package home

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/recipes/internal/recipestest"
	"github.com/s0up4200/recipes/recipes"
)

func newTestMachine(t *testing.T, api recipes.API) *Machine {
	t.Helper()
	m := New(context.Background(), Dependencies{API: api, Logger: zerolog.Nop()})
	t.Cleanup(m.Close)
	return m
}

// pagedAPI serves a catalogue of total recipes in pages
func pagedAPI(total int) *recipestest.Fake {
	return &recipestest.Fake{
		List: func(_ context.Context, limit, skip int) (*recipes.RecipeModel, error) {
			n := min(limit, total-skip)
			return recipestest.Page(skip+1, max(n, 0), total), nil
		},
	}
}

func ids(rs []recipes.Recipe) []int {
	out := make([]int, 0, len(rs))
	for _, r := range rs {
		id, _ := r.GetID()
		out = append(out, id)
	}
	return out
}

func loadedMachine(t *testing.T, api *recipestest.Fake) *Machine {
	t.Helper()
	m := newTestMachine(t, api)
	m.Dispatch(RequestInitialLoad{})
	m.Wait()
	require.Equal(t, PhaseLoaded, m.State().Phase)
	return m
}

func TestMachine_InitialLoad(t *testing.T) {
	api := pagedAPI(50)
	m := newTestMachine(t, api)

	assert.Equal(t, PhaseIdle, m.State().Phase)

	m.Dispatch(RequestInitialLoad{})
	state := m.State()
	assert.Equal(t, PhaseLoadingFirstPage, state.Phase)
	assert.True(t, state.Loading())

	m.Wait()
	state = m.State()
	assert.Equal(t, PhaseLoaded, state.Phase)
	assert.False(t, state.Loading())
	assert.Equal(t, 10, state.LoadedCount())
	assert.True(t, state.HasMore())
	assert.Empty(t, state.Error)
	assert.False(t, state.ErrorVisible)
	assert.Equal(t, []int{0}, api.Skips())
}

func TestMachine_NextPage(t *testing.T) {
	api := pagedAPI(50)
	m := loadedMachine(t, api)

	m.Dispatch(RequestNextPage{VisibleIDs: []int{8, 9, 10}})
	assert.Equal(t, PhaseLoadingNextPage, m.State().Phase)
	assert.False(t, m.State().Loading(), "next page does not block the list")

	m.Wait()
	state := m.State()
	assert.Equal(t, PhaseLoaded, state.Phase)
	assert.Equal(t, []int{0, 10}, api.Skips())
	assert.Equal(t, 20, state.LoadedCount())
	assert.Equal(t, 50, *state.Recipes.Total)

	want := make([]int, 20)
	for i := range want {
		want[i] = i + 1
	}
	assert.Equal(t, want, ids(state.Visible()))
}

func TestMachine_NextPageIsSingleFlight(t *testing.T) {
	release := make(chan struct{})
	api := &recipestest.Fake{
		List: func(_ context.Context, limit, skip int) (*recipes.RecipeModel, error) {
			if skip > 0 {
				<-release
			}
			return recipestest.Page(skip+1, limit, 50), nil
		},
	}
	m := loadedMachine(t, api)

	m.Dispatch(RequestNextPage{VisibleIDs: []int{10}})
	m.Dispatch(RequestNextPage{VisibleIDs: []int{10}})
	assert.Equal(t, PhaseLoadingNextPage, m.State().Phase)

	close(release)
	m.Wait()

	assert.Equal(t, []int{0, 10}, api.Skips())
	assert.Equal(t, 20, m.State().LoadedCount())
}

func TestMachine_NextPageIgnored(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		prepare func(m *Machine)
		visible []int
	}{
		{
			name:    "last recipe not visible",
			total:   50,
			visible: []int{3, 4, 5},
		},
		{
			name:    "nothing visible",
			total:   50,
			visible: nil,
		},
		{
			name:    "catalogue exhausted",
			total:   10,
			visible: []int{10},
		},
		{
			name:  "search active",
			total: 50,
			prepare: func(m *Machine) {
				m.Dispatch(SetQuery{Query: "pasta"})
				m.Dispatch(SubmitSearch{})
				m.Wait()
			},
			visible: []int{10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := pagedAPI(tt.total)
			api.Search = func(context.Context, string) (*recipes.RecipeModel, error) {
				return recipestest.Page(1, 2, 2), nil
			}
			m := loadedMachine(t, api)
			if tt.prepare != nil {
				tt.prepare(m)
			}

			before := m.State()
			m.Dispatch(RequestNextPage{VisibleIDs: tt.visible})
			m.Wait()

			assert.Equal(t, before, m.State())
			assert.Equal(t, []int{0}, api.Skips())
		})
	}
}

func TestMachine_NextPageBeforeFirstLoad(t *testing.T) {
	api := pagedAPI(50)
	m := newTestMachine(t, api)

	m.Dispatch(RequestNextPage{VisibleIDs: []int{1}})
	m.Wait()

	assert.Equal(t, PhaseIdle, m.State().Phase)
	assert.Empty(t, api.Skips())
}

func TestMachine_AppendOnly(t *testing.T) {
	api := pagedAPI(35)
	m := loadedMachine(t, api)

	previous := ids(m.State().Visible())
	for m.State().HasMore() {
		last, _ := m.State().Recipes.Last().GetID()
		m.Dispatch(RequestNextPage{VisibleIDs: []int{last}})
		m.Wait()

		current := ids(m.State().Visible())
		require.GreaterOrEqual(t, len(current), len(previous))
		assert.Equal(t, previous, current[:len(previous)])
		previous = current
	}

	assert.Equal(t, 35, m.State().LoadedCount())
	assert.Equal(t, []int{0, 10, 20, 30}, api.Skips())
}

func TestMachine_FailureAndRetry(t *testing.T) {
	var calls atomic.Int32
	api := &recipestest.Fake{
		List: func(_ context.Context, limit, skip int) (*recipes.RecipeModel, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("failed to get recipes: request failed with status 500")
			}
			return recipestest.Page(skip+1, limit, 50), nil
		},
	}
	m := newTestMachine(t, api)

	m.Dispatch(RequestInitialLoad{})
	m.Wait()

	state := m.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.True(t, state.ErrorVisible)
	assert.Contains(t, state.Error, "status 500")
	assert.Nil(t, state.Recipes)

	m.Dispatch(Retry{})
	state = m.State()
	assert.Equal(t, PhaseLoadingFirstPage, state.Phase)
	assert.False(t, state.ErrorVisible)
	assert.Empty(t, state.Error)

	m.Wait()
	state = m.State()
	assert.Equal(t, PhaseLoaded, state.Phase)
	assert.Equal(t, 10, state.LoadedCount())
	assert.Equal(t, []int{0, 0}, api.Skips())
}

func TestMachine_NextPageFailureKeepsList(t *testing.T) {
	api := &recipestest.Fake{
		List: func(_ context.Context, limit, skip int) (*recipes.RecipeModel, error) {
			if skip > 0 {
				return nil, errors.New("failed to get recipes: timeout")
			}
			return recipestest.Page(1, limit, 50), nil
		},
	}
	m := loadedMachine(t, api)

	m.Dispatch(RequestNextPage{VisibleIDs: []int{10}})
	m.Wait()

	state := m.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.True(t, state.ErrorVisible)
	assert.Equal(t, 10, state.LoadedCount())
}

func TestMachine_DismissError(t *testing.T) {
	api := &recipestest.Fake{
		List: func(context.Context, int, int) (*recipes.RecipeModel, error) {
			return nil, errors.New("boom")
		},
	}
	m := newTestMachine(t, api)

	m.Dispatch(RequestInitialLoad{})
	m.Wait()
	require.True(t, m.State().ErrorVisible)

	m.Dispatch(DismissError{})
	m.Wait()

	state := m.State()
	assert.False(t, state.ErrorVisible)
	assert.Empty(t, state.Error)
	assert.Equal(t, []int{0}, api.Skips(), "dismiss does not retry")

	// Dismissing with no error is harmless.
	m.Dispatch(DismissError{})
	assert.False(t, m.State().ErrorVisible)
}

func TestMachine_SearchNoResults(t *testing.T) {
	zero := 0
	api := pagedAPI(50)
	api.Search = func(context.Context, string) (*recipes.RecipeModel, error) {
		return &recipes.RecipeModel{Recipes: []recipes.Recipe{}, Total: &zero}, nil
	}
	m := loadedMachine(t, api)

	m.Dispatch(SetQuery{Query: "xyz-no-match"})
	m.Dispatch(SubmitSearch{})
	assert.True(t, m.State().Searching)
	assert.True(t, m.State().Loading())

	m.Wait()
	state := m.State()
	assert.False(t, state.Loading())
	assert.True(t, state.SearchActive())
	assert.True(t, state.NoResults())
	assert.Empty(t, state.Visible())
	assert.Equal(t, []string{"xyz-no-match"}, api.Queries())
}

func TestMachine_SearchReplacesAndDismissRestores(t *testing.T) {
	api := pagedAPI(50)
	api.Search = func(context.Context, string) (*recipes.RecipeModel, error) {
		return recipestest.Page(100, 3, 3), nil
	}
	m := loadedMachine(t, api)

	m.Dispatch(SetQuery{Query: "pizza"})
	assert.False(t, m.State().SearchActive(), "query alone does not search")

	m.Dispatch(SubmitSearch{})
	m.Wait()
	assert.Equal(t, []int{100, 101, 102}, ids(m.State().Visible()))

	m.Dispatch(DismissSearch{})
	state := m.State()
	assert.False(t, state.SearchActive())
	assert.Equal(t, "pizza", state.Query)
	assert.Len(t, state.Visible(), 10)

	m.Dispatch(SubmitSearch{})
	m.Wait()
	require.True(t, m.State().SearchActive())

	m.Dispatch(SetQuery{Query: ""})
	state = m.State()
	assert.False(t, state.SearchActive())
	assert.Nil(t, state.SearchResults)
	assert.Len(t, state.Visible(), 10)
}

func TestMachine_RetryResubmitsFailedSearch(t *testing.T) {
	var calls atomic.Int32
	api := pagedAPI(50)
	api.Search = func(context.Context, string) (*recipes.RecipeModel, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("failed to search recipes: request failed with status 503")
		}
		return recipestest.Page(7, 1, 1), nil
	}
	m := loadedMachine(t, api)

	m.Dispatch(SetQuery{Query: "soup"})
	m.Dispatch(SubmitSearch{})
	m.Wait()

	state := m.State()
	assert.True(t, state.ErrorVisible)
	assert.Contains(t, state.Error, "503")
	assert.Equal(t, PhaseLoaded, state.Phase, "search failures leave the list alone")

	m.Dispatch(Retry{})
	m.Wait()

	state = m.State()
	assert.False(t, state.ErrorVisible)
	assert.Equal(t, []int{7}, ids(state.Visible()))
	assert.Equal(t, []string{"soup", "soup"}, api.Queries())
	assert.Equal(t, []int{0}, api.Skips())
}

func TestMachine_StaleSearchDiscarded(t *testing.T) {
	release := make(chan struct{})
	api := pagedAPI(50)
	api.Search = func(_ context.Context, query string) (*recipes.RecipeModel, error) {
		if query == "first" {
			<-release
			return recipestest.Page(1, 1, 1), nil
		}
		return recipestest.Page(200, 2, 2), nil
	}
	m := loadedMachine(t, api)

	m.Dispatch(SetQuery{Query: "first"})
	m.Dispatch(SubmitSearch{})
	m.Dispatch(SetQuery{Query: "second"})
	m.Dispatch(SubmitSearch{})

	require.Eventually(t, func() bool {
		return m.State().SearchActive()
	}, time.Second, 5*time.Millisecond)

	close(release)
	m.Wait()

	assert.Equal(t, []int{200, 201}, ids(m.State().Visible()))
}

func TestMachine_ReloadDiscardsPendingPage(t *testing.T) {
	release := make(chan struct{})
	api := &recipestest.Fake{
		List: func(_ context.Context, limit, skip int) (*recipes.RecipeModel, error) {
			if skip > 0 {
				<-release
			}
			return recipestest.Page(skip+1, limit, 50), nil
		},
	}
	m := loadedMachine(t, api)

	m.Dispatch(RequestNextPage{VisibleIDs: []int{10}})
	m.Dispatch(RequestInitialLoad{})

	require.Eventually(t, func() bool {
		return m.State().Phase == PhaseLoaded
	}, time.Second, 5*time.Millisecond)

	close(release)
	m.Wait()

	state := m.State()
	assert.Equal(t, PhaseLoaded, state.Phase)
	assert.Equal(t, 10, state.LoadedCount())
	assert.ElementsMatch(t, []int{0, 10, 0}, api.Skips())
}

func TestMachine_InitialLoadIgnoredWhileLoading(t *testing.T) {
	release := make(chan struct{})
	api := &recipestest.Fake{
		List: func(_ context.Context, limit, skip int) (*recipes.RecipeModel, error) {
			<-release
			return recipestest.Page(skip+1, limit, 50), nil
		},
	}
	m := newTestMachine(t, api)

	m.Dispatch(RequestInitialLoad{})
	m.Dispatch(RequestInitialLoad{})
	close(release)
	m.Wait()

	assert.Len(t, api.Skips(), 1)
	assert.Equal(t, PhaseLoaded, m.State().Phase)
}

func TestMachine_CloseCancelsFetch(t *testing.T) {
	api := &recipestest.Fake{
		List: func(ctx context.Context, _, _ int) (*recipes.RecipeModel, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	m := New(context.Background(), Dependencies{API: api, Logger: zerolog.Nop()})
	updates, unsubscribe := m.Subscribe()
	defer unsubscribe()

	m.Dispatch(RequestInitialLoad{})
	m.Close()

	state := m.State()
	assert.Empty(t, state.Error, "cancellation is not reported as a failure")
	assert.False(t, state.ErrorVisible)

	for range updates {
	}
}

func TestMachine_ParentCancelSettles(t *testing.T) {
	started := make(chan struct{}, 1)
	api := &recipestest.Fake{
		List: func(ctx context.Context, _, _ int) (*recipes.RecipeModel, error) {
			started <- struct{}{}
			<-ctx.Done()
			return nil, ctx.Err()
		},
		Search: func(ctx context.Context, _ string) (*recipes.RecipeModel, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := New(ctx, Dependencies{API: api, Logger: zerolog.Nop()})
	t.Cleanup(m.Close)

	m.Dispatch(RequestInitialLoad{})
	m.Dispatch(SetQuery{Query: "soup"})
	m.Dispatch(SubmitSearch{})
	<-started
	cancel()
	m.Wait()

	state := m.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.False(t, state.Loading())
	assert.False(t, state.Searching)
	assert.False(t, state.ErrorVisible)
	assert.Empty(t, state.Error)

	// The machine accepts new work and settles again.
	m.Dispatch(RequestInitialLoad{})
	m.Wait()

	assert.Equal(t, []int{0, 0}, api.Skips())
	assert.Equal(t, PhaseIdle, m.State().Phase)
}

func TestMachine_ParentCancelKeepsLoadedList(t *testing.T) {
	api := &recipestest.Fake{
		List: func(ctx context.Context, limit, skip int) (*recipes.RecipeModel, error) {
			if skip > 0 {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return recipestest.Page(1, limit, 50), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := New(ctx, Dependencies{API: api, Logger: zerolog.Nop()})
	t.Cleanup(m.Close)

	m.Dispatch(RequestInitialLoad{})
	m.Wait()
	m.Dispatch(RequestNextPage{VisibleIDs: []int{10}})
	cancel()
	m.Wait()

	state := m.State()
	assert.Equal(t, PhaseLoaded, state.Phase)
	assert.Equal(t, 10, state.LoadedCount())
	assert.False(t, state.ErrorVisible)
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseIdle, "IDLE"},
		{PhaseLoadingFirstPage, "LOADING_FIRST_PAGE"},
		{PhaseLoadingNextPage, "LOADING_NEXT_PAGE"},
		{PhaseLoaded, "LOADED"},
		{PhaseFailed, "FAILED"},
		{Phase(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.phase.String())
		})
	}
}
