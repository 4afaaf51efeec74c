package filter

import (
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/s0up4200/recipes/recipes"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	logger     zerolog.Logger
}

// CompilerOption configures an expr compiler
type CompilerOption func(*exprCompiler)

// WithCache keeps up to size compiled expressions
func WithCache(size int) CompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithLogger logs expressions that fail at evaluation time
func WithLogger(logger zerolog.Logger) CompilerOption {
	return func(c *exprCompiler) {
		c.logger = logger
	}
}

// NewCompiler creates an expr-based filter compiler
func NewCompiler(opts ...CompilerOption) Compiler {
	c := &exprCompiler{
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile compiles an expression with a default compiler
func Compile(expression string) (CompiledFilter, error) {
	return NewCompiler().Compile(expression)
}

type exprCompiler struct {
	cache  *lruCache[CompiledFilter]
	logger zerolog.Logger
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Typed against an empty recipe so unknown names fail here, not per recipe.
	program, err := expr.Compile(expression,
		expr.Env(newEnvironment(recipes.Recipe{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		logger:     c.logger,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Match evaluates the filter against a recipe. Evaluation errors never match.
func (f *exprFilter) Match(recipe recipes.Recipe) bool {
	result, err := expr.Run(f.program, newEnvironment(recipe))
	if err != nil {
		id, _ := recipe.GetID()
		f.logger.Debug().
			Err(err).
			Int("recipe_id", id).
			Str("expression", f.expression).
			Msg("Filter evaluation failed")
		return false
	}

	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// newEnvironment exposes a recipe's fields and helpers to expressions
func newEnvironment(recipe recipes.Recipe) map[string]any {
	env := make(map[string]any, 24)
	maps.Copy(env, staticHelpers)

	env["Name"] = recipe.GetName()
	env["Cuisine"] = recipe.GetCuisine()
	env["Difficulty"] = string(recipe.GetDifficulty())
	env["PrepTime"] = recipe.GetPrepTime()
	env["CookTime"] = recipe.GetCookTime()
	env["TotalTime"] = recipe.TotalMinutes()
	env["Servings"] = recipe.GetServings()
	env["Calories"] = recipe.GetCalories()
	env["Rating"] = recipe.GetRating()
	env["Reviews"] = recipe.GetReviewCount()
	env["Tags"] = nonNil(recipe.Tags)
	env["MealTypes"] = nonNil(recipe.MealType)
	env["Ingredients"] = nonNil(recipe.Ingredients)

	env["hasTag"] = recipe.HasTag
	env["hasMealType"] = recipe.HasMealType
	env["hasIngredient"] = recipe.HasIngredient

	return env
}

var staticHelpers = map[string]any{
	"containsFold": func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	},
	"hasPrefix": func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	},
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
