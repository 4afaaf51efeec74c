package recipes

import (
	"fmt"
	"strings"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
}

// ConsoleFormatter provides console output formatting for recipes
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatRecipeList formats a list of recipes for console display
func (f *ConsoleFormatter) FormatRecipeList(recipes []Recipe, options FormatOptions) string {
	if len(recipes) == 0 {
		return "No recipes found\n"
	}

	var sb strings.Builder

	sb.WriteString("\nRecipe")
	if len(recipes) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(recipes))

	for i, recipe := range recipes {
		isLast := i == len(recipes)-1
		f.formatRecipe(&sb, recipe, isLast, options)

		if !isLast && options.ShowDetails {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatRecipe(sb *strings.Builder, recipe Recipe, isLast bool, options FormatOptions) {
	prefix := "├"
	indent := "│   "
	if isLast {
		prefix = "╰"
		indent = "    "
	}

	fmt.Fprintf(sb, "%s── %s", prefix, displayName(recipe))
	if id, ok := recipe.GetID(); ok {
		fmt.Fprintf(sb, " [#%d]", id)
	}
	sb.WriteString("\n")

	if !options.ShowDetails {
		return
	}

	var parts []string
	if cuisine := recipe.GetCuisine(); cuisine != "" {
		parts = append(parts, cuisine)
	}
	if difficulty := recipe.GetDifficulty(); difficulty != "" {
		parts = append(parts, string(difficulty))
	}
	if total := recipe.TotalMinutes(); total > 0 {
		parts = append(parts, fmt.Sprintf("%d min", total))
	}
	if recipe.Rating != nil {
		parts = append(parts, fmt.Sprintf("★ %.1f (%d reviews)", recipe.GetRating(), recipe.GetReviewCount()))
	}
	if len(parts) > 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(parts, " | "))
	}

	if len(recipe.Tags) > 0 {
		fmt.Fprintf(sb, "%sTags: %s\n", indent, strings.Join(recipe.Tags, ", "))
	}
}

// FormatRecipe formats a single recipe with ingredients and instructions
func (f *ConsoleFormatter) FormatRecipe(recipe Recipe) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s\n", displayName(recipe))
	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n")

	var facts []string
	if cuisine := recipe.GetCuisine(); cuisine != "" {
		facts = append(facts, "Cuisine: "+cuisine)
	}
	if difficulty := recipe.GetDifficulty(); difficulty != "" {
		facts = append(facts, "Difficulty: "+string(difficulty))
	}
	if recipe.PrepTimeMinutes != nil || recipe.CookTimeMinutes != nil {
		facts = append(facts, fmt.Sprintf("Prep: %d min | Cook: %d min", recipe.GetPrepTime(), recipe.GetCookTime()))
	}
	if recipe.Servings != nil {
		facts = append(facts, fmt.Sprintf("Servings: %d", recipe.GetServings()))
	}
	if recipe.CaloriesPerServing != nil {
		facts = append(facts, fmt.Sprintf("Calories: %d per serving", recipe.GetCalories()))
	}
	if recipe.Rating != nil {
		facts = append(facts, fmt.Sprintf("Rating: %.1f (%d reviews)", recipe.GetRating(), recipe.GetReviewCount()))
	}
	if len(recipe.MealType) > 0 {
		facts = append(facts, "Meal: "+strings.Join(recipe.MealType, ", "))
	}
	for _, fact := range facts {
		fmt.Fprintf(&sb, "%s\n", fact)
	}

	if len(recipe.Ingredients) > 0 {
		sb.WriteString("\nIngredients:\n")
		for _, ingredient := range recipe.Ingredients {
			fmt.Fprintf(&sb, "  • %s\n", ingredient)
		}
	}

	if len(recipe.Instructions) > 0 {
		sb.WriteString("\nInstructions:\n")
		for i, step := range recipe.Instructions {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, step)
		}
	}

	return sb.String()
}

func displayName(recipe Recipe) string {
	if name := recipe.GetName(); name != "" {
		return name
	}
	return "Untitled recipe"
}
