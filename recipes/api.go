package recipes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s0up4200/recipes/network"
)

// API defines the recipe operations the state machines depend on
type API interface {
	// ListRecipes fetches one page of recipes
	ListRecipes(ctx context.Context, limit, skip int) (*RecipeModel, error)

	// SearchRecipes fetches recipes matching query
	SearchRecipes(ctx context.Context, query string) (*RecipeModel, error)

	// GetRecipe fetches a single recipe by identifier
	GetRecipe(ctx context.Context, id int) (*Recipe, error)
}

// Client implements API on top of a network.Service
type Client struct {
	service network.Service
	logger  zerolog.Logger
}

// NewClient creates a new recipes client
func NewClient(service network.Service, logger zerolog.Logger) *Client {
	return &Client{
		service: service,
		logger:  logger,
	}
}

// ListRecipes fetches one page of recipes
func (c *Client) ListRecipes(ctx context.Context, limit, skip int) (*RecipeModel, error) {
	page, err := network.Fetch[RecipeModel](ctx, c.service, Describe(ListEndpoint{Limit: limit, Skip: skip}))
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	c.logger.Debug().
		Int("skip", skip).
		Int("limit", limit).
		Int("count", page.Count()).
		Msg("Retrieved recipe page")

	return &page, nil
}

// SearchRecipes fetches recipes matching query
func (c *Client) SearchRecipes(ctx context.Context, query string) (*RecipeModel, error) {
	results, err := network.Fetch[RecipeModel](ctx, c.service, Describe(SearchEndpoint{Query: query}))
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}

	c.logger.Debug().
		Str("query", query).
		Int("count", results.Count()).
		Msg("Retrieved search results")

	return &results, nil
}

// GetRecipe fetches a single recipe by identifier
func (c *Client) GetRecipe(ctx context.Context, id int) (*Recipe, error) {
	recipe, err := network.Fetch[Recipe](ctx, c.service, Describe(DetailsEndpoint{ID: id}))
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return &recipe, nil
}
