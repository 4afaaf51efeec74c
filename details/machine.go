// Package details drives the single recipe screen.
package details

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s0up4200/recipes/internal/store"
	"github.com/s0up4200/recipes/recipes"
)

// Dependencies are the collaborators a Machine is built with
type Dependencies struct {
	API    recipes.API
	Logger zerolog.Logger
}

// Machine owns the detail screen state
type Machine struct {
	store  *store.Store[State]
	api    recipes.API
	logger zerolog.Logger

	// guarded by the store lock
	gen    uint64
	cancel context.CancelFunc
}

// New creates a Machine showing the seed recipe
func New(ctx context.Context, input Input, deps Dependencies) *Machine {
	return &Machine{
		store:  store.New(ctx, State{Recipe: input.Recipe}),
		api:    deps.API,
		logger: deps.Logger,
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

// Close cancels the in-flight fetch and ends all subscriptions
func (m *Machine) Close() {
	m.store.Close()
}

// Dispatch applies an action. It never blocks on the network.
func (m *Machine) Dispatch(action Action) {
	m.logger.Debug().Str("action", fmt.Sprintf("%T", action)).Msg("Received action")

	switch action.(type) {
	case RequestDetails:
		m.requestDetails()
	case DismissError:
		m.store.Update(func(s *State) {
			s.Error = ""
			s.ErrorVisible = false
		})
	}
}

func (m *Machine) requestDetails() {
	var work func()

	m.store.Update(func(s *State) {
		id, ok := s.Recipe.GetID()
		if !ok {
			m.logger.Warn().Msg("Cannot fetch details without a recipe id")
			s.Phase = PhaseFailed
			s.Error = ErrMissingID.Error()
			s.ErrorVisible = true
			return
		}

		if m.cancel != nil {
			m.cancel()
		}
		ctx, cancel := context.WithCancel(m.store.Context())
		m.gen++
		m.cancel = cancel
		gen := m.gen

		settled := PhaseIdle
		if s.Phase == PhaseLoaded {
			settled = PhaseLoaded
		}

		s.Phase = PhaseLoading
		s.Error = ""
		s.ErrorVisible = false

		work = func() { m.fetch(ctx, gen, id, settled) }
	})

	if work != nil {
		m.store.Go(work)
	}
}

// fetch applies the result of a detail request. A cancelled request falls
// back to settled, the phase before it started.
func (m *Machine) fetch(ctx context.Context, gen uint64, id int, settled Phase) {
	recipe, err := m.api.GetRecipe(ctx, id)

	m.store.UpdateIf(func(s *State) bool {
		if gen != m.gen {
			m.logger.Debug().Uint64("generation", gen).Int("id", id).Msg("Discarding stale recipe")
			return false
		}
		m.cancel()
		m.cancel = nil

		if err != nil && ctx.Err() != nil {
			m.logger.Debug().Int("id", id).Msg("Recipe request cancelled")
			s.Phase = settled
			return true
		}

		if err != nil {
			m.logger.Warn().Err(err).Int("id", id).Msg("Failed to load recipe")
			s.Phase = PhaseFailed
			s.Error = err.Error()
			s.ErrorVisible = true
			return true
		}

		s.Recipe = *recipe
		s.Phase = PhaseLoaded
		return true
	})
}
