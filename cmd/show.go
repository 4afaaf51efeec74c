package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/recipes/details"
	"github.com/s0up4200/recipes/recipes"
)

const maxConcurrentFetches = 4

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show ID [ID...]",
	Short: "Show recipes in full",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	ids := make([]int, len(args))
	for i, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid recipe id %q: %w", arg, err)
		}
		ids[i] = id
	}

	results := make([]details.State, len(ids))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentFetches)

	for i, id := range ids {
		g.Go(func() error {
			state, err := fetchDetails(ctx, id)
			if err != nil {
				return err
			}
			results[i] = state
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, state := range results {
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(formatter.FormatRecipe(state.Recipe))
	}

	return nil
}

func fetchDetails(ctx context.Context, id int) (details.State, error) {
	machine := details.New(ctx,
		details.Input{Recipe: recipes.Recipe{ID: &id}},
		details.Dependencies{API: api, Logger: logger.With().Int("recipe_id", id).Logger()},
	)
	defer machine.Close()

	machine.Dispatch(details.RequestDetails{})
	err := waitSettled(ctx, machine.Wait)
	state := machine.State()
	if err != nil {
		return state, err
	}
	if err := stateError(state.Error, state.ErrorVisible); err != nil {
		return state, err
	}
	return state, nil
}
