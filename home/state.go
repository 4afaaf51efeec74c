package home

import (
	"github.com/s0up4200/recipes/recipes"
)

// PageSize is the number of recipes requested per page
const PageSize = 10

// Phase is the lifecycle of the paginated list
type Phase int

const (
	// PhaseIdle means nothing has been requested yet
	PhaseIdle Phase = iota
	// PhaseLoadingFirstPage means the first page is in flight
	PhaseLoadingFirstPage
	// PhaseLoadingNextPage means a follow-up page is in flight
	PhaseLoadingNextPage
	// PhaseLoaded means the last list fetch succeeded
	PhaseLoaded
	// PhaseFailed means the last list fetch failed
	PhaseFailed
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseLoadingFirstPage:
		return "LOADING_FIRST_PAGE"
	case PhaseLoadingNextPage:
		return "LOADING_NEXT_PAGE"
	case PhaseLoaded:
		return "LOADED"
	case PhaseFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// State is a snapshot of the list screen. Snapshots are values; the models
// they point to are never mutated after publication.
type State struct {
	Phase         Phase
	Recipes       *recipes.RecipeModel
	Error         string
	ErrorVisible  bool
	Query         string
	SearchResults *recipes.RecipeModel
	Searching     bool
}

// Loading reports whether a blocking load (first page or search) is in flight
func (s State) Loading() bool {
	return s.Phase == PhaseLoadingFirstPage || s.Searching
}

// SearchActive reports whether search results replace the list
func (s State) SearchActive() bool {
	return s.Query != "" && s.SearchResults != nil
}

// NoResults reports whether an active search came back empty
func (s State) NoResults() bool {
	return s.SearchActive() && s.SearchResults.Count() == 0
}

// LoadedCount returns how many list recipes have been loaded so far
func (s State) LoadedCount() int {
	return s.Recipes.Count()
}

// HasMore reports whether the server holds more list recipes than are loaded
func (s State) HasMore() bool {
	return s.Recipes.HasMore()
}

// Visible returns the recipes a view should render
func (s State) Visible() []recipes.Recipe {
	if s.SearchActive() {
		return s.SearchResults.Recipes
	}
	if s.Recipes == nil {
		return nil
	}
	return s.Recipes.Recipes
}
