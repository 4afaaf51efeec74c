// Package home drives the recipe list screen: first page, incremental
// pagination, search and error recovery.
//
// All mutations go through one store, so observers only ever see whole
// snapshots. Every fetch carries a generation token; a result whose token
// has been superseded by a reload, a new search or a dismiss is dropped, so
// only the newest list fetch can change the list.
package home

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/s0up4200/recipes/internal/store"
	"github.com/s0up4200/recipes/recipes"
)

// Dependencies are the collaborators a Machine is built with
type Dependencies struct {
	API    recipes.API
	Logger zerolog.Logger
	// PageSize defaults to PageSize when zero
	PageSize int
}

type failure int

const (
	failureNone failure = iota
	failureList
	failureSearch
)

// Machine owns the list screen state
type Machine struct {
	store    *store.Store[State]
	api      recipes.API
	logger   zerolog.Logger
	pageSize int

	// Only touched inside store callbacks, which hold the store lock.
	listGen      uint64
	searchGen    uint64
	cancelList   context.CancelFunc
	cancelSearch context.CancelFunc
	lastFailure  failure
}

// New creates a Machine. Fetches are bound to ctx and to Close.
func New(ctx context.Context, deps Dependencies) *Machine {
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = PageSize
	}

	return &Machine{
		store:    store.New(ctx, State{}),
		api:      deps.API,
		logger:   deps.Logger,
		pageSize: pageSize,
	}
}

// State returns the current snapshot
func (m *Machine) State() State {
	return m.store.State()
}

// Subscribe streams snapshots, starting with the current one
func (m *Machine) Subscribe() (<-chan State, func()) {
	return m.store.Subscribe()
}

// Wait blocks until every dispatched fetch has been applied or discarded
func (m *Machine) Wait() {
	m.store.Wait()
}

// Close cancels in-flight fetches and ends all subscriptions
func (m *Machine) Close() {
	m.store.Close()
}

// Dispatch applies an action. It never blocks on the network.
func (m *Machine) Dispatch(action Action) {
	m.logger.Debug().Str("action", fmt.Sprintf("%T", action)).Msg("Received action")

	switch a := action.(type) {
	case RequestInitialLoad:
		m.run(func(s *State) func() {
			return m.startFirstPage(s)
		})
	case RequestNextPage:
		m.run(func(s *State) func() {
			if !canLoadNextPage(*s, a.VisibleIDs) {
				return nil
			}
			return m.startNextPage(s)
		})
	case DismissError:
		m.store.Update(func(s *State) {
			s.Error = ""
			s.ErrorVisible = false
		})
	case Retry:
		m.retry()
	case SetQuery:
		m.store.Update(func(s *State) {
			s.Query = a.Query
			if a.Query == "" {
				m.clearSearch(s)
			}
		})
	case SubmitSearch:
		m.run(func(s *State) func() {
			return m.startSearch(s)
		})
	case DismissSearch:
		m.store.Update(func(s *State) {
			m.clearSearch(s)
		})
	}
}

// run mutates the state through start and launches the work it returns.
// A nil work func leaves the state untouched and unpublished.
func (m *Machine) run(start func(*State) func()) {
	var work func()
	m.store.UpdateIf(func(s *State) bool {
		work = start(s)
		return work != nil
	})
	if work != nil {
		m.store.Go(work)
	}
}

func (m *Machine) retry() {
	var work func()
	m.store.Update(func(s *State) {
		s.Error = ""
		s.ErrorVisible = false

		failed := m.lastFailure
		m.lastFailure = failureNone
		if failed == failureSearch {
			work = m.startSearch(s)
		} else {
			work = m.startFirstPage(s)
		}
	})
	if work != nil {
		m.store.Go(work)
	}
}

func canLoadNextPage(s State, visibleIDs []int) bool {
	if s.Phase == PhaseLoadingFirstPage || s.Phase == PhaseLoadingNextPage {
		return false
	}
	if s.SearchActive() {
		return false
	}

	last := s.Recipes.Last()
	if last == nil {
		return false
	}
	id, ok := last.GetID()
	if !ok || !slices.Contains(visibleIDs, id) {
		return false
	}

	return s.HasMore()
}

func (m *Machine) startFirstPage(s *State) func() {
	if s.Phase == PhaseLoadingFirstPage {
		m.logger.Debug().Msg("First page already loading")
		return nil
	}

	gen, ctx := m.beginList()
	s.Phase = PhaseLoadingFirstPage
	s.Error = ""
	s.ErrorVisible = false

	return func() { m.fetchPage(ctx, gen, 0) }
}

func (m *Machine) startNextPage(s *State) func() {
	gen, ctx := m.beginList()
	skip := s.LoadedCount()
	s.Phase = PhaseLoadingNextPage

	return func() { m.fetchPage(ctx, gen, skip) }
}

// beginList supersedes any in-flight list fetch
func (m *Machine) beginList() (uint64, context.Context) {
	if m.cancelList != nil {
		m.cancelList()
	}
	ctx, cancel := context.WithCancel(m.store.Context())
	m.listGen++
	m.cancelList = cancel
	return m.listGen, ctx
}

func (m *Machine) fetchPage(ctx context.Context, gen uint64, skip int) {
	page, err := m.api.ListRecipes(ctx, m.pageSize, skip)

	m.store.UpdateIf(func(s *State) bool {
		if gen != m.listGen {
			m.logger.Debug().
				Uint64("generation", gen).
				Int("skip", skip).
				Msg("Discarding stale recipe page")
			return false
		}
		m.cancelList()
		m.cancelList = nil

		if err != nil && ctx.Err() != nil {
			m.logger.Debug().Int("skip", skip).Msg("Recipe page cancelled")
			s.Phase = settledPhase(*s)
			return true
		}

		if err != nil {
			m.logger.Warn().Err(err).Int("skip", skip).Msg("Failed to load recipes")
			s.Phase = PhaseFailed
			s.Error = err.Error()
			s.ErrorVisible = true
			m.lastFailure = failureList
			return true
		}

		if skip == 0 {
			s.Recipes = page
		} else {
			s.Recipes = s.Recipes.Append(page)
		}
		s.Phase = PhaseLoaded
		return true
	})
}

// settledPhase is the phase a cancelled list fetch falls back to
func settledPhase(s State) Phase {
	if s.Recipes != nil {
		return PhaseLoaded
	}
	return PhaseIdle
}

func (m *Machine) startSearch(s *State) func() {
	if m.cancelSearch != nil {
		m.cancelSearch()
	}
	ctx, cancel := context.WithCancel(m.store.Context())
	m.searchGen++
	m.cancelSearch = cancel

	gen := m.searchGen
	query := s.Query
	s.Searching = true

	return func() { m.fetchSearch(ctx, gen, query) }
}

func (m *Machine) fetchSearch(ctx context.Context, gen uint64, query string) {
	results, err := m.api.SearchRecipes(ctx, query)

	m.store.UpdateIf(func(s *State) bool {
		if gen != m.searchGen {
			m.logger.Debug().
				Uint64("generation", gen).
				Str("query", query).
				Msg("Discarding stale search results")
			return false
		}
		m.cancelSearch()
		m.cancelSearch = nil
		s.Searching = false

		if err != nil && ctx.Err() != nil {
			m.logger.Debug().Str("query", query).Msg("Search cancelled")
			return true
		}

		if err != nil {
			m.logger.Warn().Err(err).Str("query", query).Msg("Failed to search recipes")
			s.Error = err.Error()
			s.ErrorVisible = true
			m.lastFailure = failureSearch
			return true
		}

		s.SearchResults = results
		return true
	})
}

// clearSearch drops results and supersedes any in-flight search
func (m *Machine) clearSearch(s *State) {
	if m.cancelSearch != nil {
		m.cancelSearch()
		m.cancelSearch = nil
	}
	m.searchGen++
	s.SearchResults = nil
	s.Searching = false
}
