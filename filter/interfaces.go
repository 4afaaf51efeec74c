// Package filter narrows recipe listings with boolean expressions such as
//
//	Cuisine == "Italian" and TotalTime <= 30 and hasTag("pizza")
//
// Expressions are compiled once with expr-lang and evaluated per recipe.
package filter

import (
	"github.com/s0up4200/recipes/recipes"
)

// Filter decides whether a recipe should be kept
type Filter interface {
	// Match reports whether the recipe satisfies the filter
	Match(recipe recipes.Recipe) bool
}

// CompiledFilter is a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// Apply returns the recipes matched by f, preserving order
func Apply(f Filter, items []recipes.Recipe) []recipes.Recipe {
	matched := make([]recipes.Recipe, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			matched = append(matched, item)
		}
	}
	return matched
}
