package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/recipes/home"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search recipes by text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search query must not be empty")
	}

	f, err := resolveFilter()
	if err != nil {
		return err
	}

	machine := home.New(cmd.Context(), home.Dependencies{API: api, Logger: logger})
	defer machine.Close()

	logger.Info().Str("query", query).Msg("Searching recipes")

	machine.Dispatch(home.SetQuery{Query: query})
	machine.Dispatch(home.SubmitSearch{})
	if err := waitSettled(cmd.Context(), machine.Wait); err != nil {
		return err
	}

	state := machine.State()
	if err := stateError(state.Error, state.ErrorVisible); err != nil {
		return err
	}

	if state.NoResults() {
		fmt.Printf("No recipes found for %q\n", query)
		return nil
	}

	fmt.Print(formatter.FormatRecipeList(applyFilter(f, state.Visible()), formatOptions()))
	return nil
}
