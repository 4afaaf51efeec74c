// Package recipestest provides an in-memory recipes.API for state machine
// tests.
package recipestest

import (
	"context"
	"fmt"
	"sync"

	"github.com/s0up4200/recipes/recipes"
)

// Fake is a recipes.API whose behaviour is set per operation. Unset
// operations fail. Calls are recorded before the handler runs.
type Fake struct {
	List   func(ctx context.Context, limit, skip int) (*recipes.RecipeModel, error)
	Search func(ctx context.Context, query string) (*recipes.RecipeModel, error)
	Get    func(ctx context.Context, id int) (*recipes.Recipe, error)

	mu       sync.Mutex
	skips    []int
	queries  []string
	getCalls []int
}

var _ recipes.API = (*Fake)(nil)

// ListRecipes records skip and calls List
func (f *Fake) ListRecipes(ctx context.Context, limit, skip int) (*recipes.RecipeModel, error) {
	f.mu.Lock()
	f.skips = append(f.skips, skip)
	f.mu.Unlock()

	if f.List == nil {
		return nil, fmt.Errorf("unexpected ListRecipes(limit=%d, skip=%d)", limit, skip)
	}
	return f.List(ctx, limit, skip)
}

// SearchRecipes records query and calls Search
func (f *Fake) SearchRecipes(ctx context.Context, query string) (*recipes.RecipeModel, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.Search == nil {
		return nil, fmt.Errorf("unexpected SearchRecipes(%q)", query)
	}
	return f.Search(ctx, query)
}

// GetRecipe records id and calls Get
func (f *Fake) GetRecipe(ctx context.Context, id int) (*recipes.Recipe, error) {
	f.mu.Lock()
	f.getCalls = append(f.getCalls, id)
	f.mu.Unlock()

	if f.Get == nil {
		return nil, fmt.Errorf("unexpected GetRecipe(%d)", id)
	}
	return f.Get(ctx, id)
}

// Skips returns the skip of every ListRecipes call so far
func (f *Fake) Skips() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.skips...)
}

// Queries returns the query of every SearchRecipes call so far
func (f *Fake) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// GetCalls returns the id of every GetRecipe call so far
func (f *Fake) GetCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.getCalls...)
}

// Page builds a model of n recipes with ids from first onwards and the
// given server total.
func Page(first, n, total int) *recipes.RecipeModel {
	items := make([]recipes.Recipe, n)
	for i := range items {
		items[i] = Recipe(first + i)
	}
	skip := first - 1
	return &recipes.RecipeModel{
		Recipes: items,
		Total:   &total,
		Skip:    &skip,
		Limit:   &n,
	}
}

// Recipe builds a minimal recipe with the given id
func Recipe(id int) recipes.Recipe {
	name := fmt.Sprintf("Recipe %d", id)
	return recipes.Recipe{ID: &id, Name: &name}
}
