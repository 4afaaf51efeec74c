package recipes

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Difficulty represents how hard a recipe is to prepare
type Difficulty string

const (
	// DifficultyEasy is an easy recipe
	DifficultyEasy Difficulty = "Easy"
	// DifficultyMedium is a medium recipe
	DifficultyMedium Difficulty = "Medium"
)

// UnmarshalJSON rejects values outside the known set
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch Difficulty(raw) {
	case DifficultyEasy, DifficultyMedium:
		*d = Difficulty(raw)
		return nil
	default:
		return fmt.Errorf("unknown difficulty %q", raw)
	}
}

// Recipe is a single recipe as returned by the API.
// Every field is optional because the upstream schema is not guaranteed.
type Recipe struct {
	ID                 *int        `json:"id,omitempty"`
	Name               *string     `json:"name,omitempty"`
	Ingredients        []string    `json:"ingredients,omitempty"`
	Instructions       []string    `json:"instructions,omitempty"`
	PrepTimeMinutes    *int        `json:"prepTimeMinutes,omitempty"`
	CookTimeMinutes    *int        `json:"cookTimeMinutes,omitempty"`
	Servings           *int        `json:"servings,omitempty"`
	Difficulty         *Difficulty `json:"difficulty,omitempty"`
	Cuisine            *string     `json:"cuisine,omitempty"`
	CaloriesPerServing *int        `json:"caloriesPerServing,omitempty"`
	Tags               []string    `json:"tags,omitempty"`
	UserID             *int        `json:"userId,omitempty"`
	Image              *string     `json:"image,omitempty"`
	Rating             *float64    `json:"rating,omitempty"`
	ReviewCount        *int        `json:"reviewCount,omitempty"`
	MealType           []string    `json:"mealType,omitempty"`
}

// GetID returns the recipe identifier and whether it was present
func (r Recipe) GetID() (int, bool) {
	if r.ID == nil {
		return 0, false
	}
	return *r.ID, true
}

// GetName returns the recipe name or an empty string
func (r Recipe) GetName() string {
	return deref(r.Name)
}

// GetCuisine returns the cuisine or an empty string
func (r Recipe) GetCuisine() string {
	return deref(r.Cuisine)
}

// GetImage returns the image URL or an empty string
func (r Recipe) GetImage() string {
	return deref(r.Image)
}

// GetDifficulty returns the difficulty or an empty value
func (r Recipe) GetDifficulty() Difficulty {
	return deref(r.Difficulty)
}

// GetPrepTime returns the preparation time in minutes
func (r Recipe) GetPrepTime() int {
	return deref(r.PrepTimeMinutes)
}

// GetCookTime returns the cooking time in minutes
func (r Recipe) GetCookTime() int {
	return deref(r.CookTimeMinutes)
}

// TotalMinutes returns preparation plus cooking time
func (r Recipe) TotalMinutes() int {
	return r.GetPrepTime() + r.GetCookTime()
}

// GetServings returns the number of servings
func (r Recipe) GetServings() int {
	return deref(r.Servings)
}

// GetCalories returns calories per serving
func (r Recipe) GetCalories() int {
	return deref(r.CaloriesPerServing)
}

// GetRating returns the average rating
func (r Recipe) GetRating() float64 {
	return deref(r.Rating)
}

// GetReviewCount returns the number of reviews
func (r Recipe) GetReviewCount() int {
	return deref(r.ReviewCount)
}

// HasTag reports whether the recipe carries tag, ignoring case
func (r Recipe) HasTag(tag string) bool {
	return containsFold(r.Tags, tag)
}

// HasMealType reports whether the recipe is listed under mealType, ignoring case
func (r Recipe) HasMealType(mealType string) bool {
	return containsFold(r.MealType, mealType)
}

// HasIngredient reports whether any ingredient mentions name, ignoring case
func (r Recipe) HasIngredient(name string) bool {
	name = strings.ToLower(name)
	for _, ingredient := range r.Ingredients {
		if strings.Contains(strings.ToLower(ingredient), name) {
			return true
		}
	}
	return false
}

// RecipeModel is one page of recipes plus the server reported pagination cursor
type RecipeModel struct {
	Recipes []Recipe `json:"recipes,omitempty"`
	Total   *int     `json:"total,omitempty"`
	Skip    *int     `json:"skip,omitempty"`
	Limit   *int     `json:"limit,omitempty"`
}

// Count returns the number of recipes held
func (m *RecipeModel) Count() int {
	if m == nil {
		return 0
	}
	return len(m.Recipes)
}

// Last returns the last recipe held, or nil
func (m *RecipeModel) Last() *Recipe {
	if m.Count() == 0 {
		return nil
	}
	return &m.Recipes[len(m.Recipes)-1]
}

// HasMore reports whether the server reported more recipes than are held.
// A missing total counts as exhausted.
func (m *RecipeModel) HasMore() bool {
	if m == nil || m.Total == nil {
		return false
	}
	return m.Count() < *m.Total
}

// Append returns a new model holding m's recipes followed by page's.
// The pagination cursor of m is kept.
func (m *RecipeModel) Append(page *RecipeModel) *RecipeModel {
	if m == nil {
		return page
	}

	merged := &RecipeModel{
		Total: m.Total,
		Skip:  m.Skip,
		Limit: m.Limit,
	}
	merged.Recipes = make([]Recipe, 0, m.Count()+page.Count())
	merged.Recipes = append(merged.Recipes, m.Recipes...)
	if page != nil {
		merged.Recipes = append(merged.Recipes, page.Recipes...)
	}
	return merged
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
