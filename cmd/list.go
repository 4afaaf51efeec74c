package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/recipes/home"
)

var pages int

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes page by page",
	Long: `Load the first page of recipes and keep scrolling until --pages pages
are loaded or the catalogue runs out.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&pages, "pages", "n", 1, "number of pages to load")
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func runList(cmd *cobra.Command, args []string) error {
	if pages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	f, err := resolveFilter()
	if err != nil {
		return err
	}

	machine := home.New(cmd.Context(), home.Dependencies{
		API:      api,
		Logger:   logger,
		PageSize: cfg.Pagination.PageSize,
	})
	defer machine.Close()

	machine.Dispatch(home.RequestInitialLoad{})
	if err := waitSettled(cmd.Context(), machine.Wait); err != nil {
		return err
	}

	state := machine.State()
	if err := stateError(state.Error, state.ErrorVisible); err != nil {
		return err
	}

	for loaded := 1; loaded < pages && state.HasMore(); loaded++ {
		last := state.Recipes.Last()
		if last == nil {
			break
		}
		id, _ := last.GetID()

		// Scrolling to the end of the list makes the last recipe visible.
		machine.Dispatch(home.RequestNextPage{VisibleIDs: []int{id}})
		if err := waitSettled(cmd.Context(), machine.Wait); err != nil {
			return err
		}

		state = machine.State()
		if err := stateError(state.Error, state.ErrorVisible); err != nil {
			return err
		}
	}

	items := applyFilter(f, state.Visible())
	fmt.Print(formatter.FormatRecipeList(items, formatOptions()))

	if total := state.Recipes.Total; total != nil {
		fmt.Printf("\nLoaded %d of %d recipes\n", state.LoadedCount(), *total)
	}

	return nil
}
