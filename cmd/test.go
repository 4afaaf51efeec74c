package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/recipes/network"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the recipe API",
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to %s...\n", cfg.API.BaseURL)

	page, err := api.ListRecipes(cmd.Context(), 1, 0)
	if err != nil {
		if code, ok := network.StatusCode(err); ok {
			return fmt.Errorf("connection failed with status %d: %w", code, err)
		}
		return fmt.Errorf("connection failed (%s): %w", network.KindOf(err), err)
	}

	fmt.Println("✓ Connection successful!")

	if page.Total != nil {
		fmt.Printf("- Total recipes: %d\n", *page.Total)
	}
	if presets := filters.ListFilters(); len(presets) > 0 {
		fmt.Printf("\nFilter presets:\n")
		for _, name := range presets {
			f, _ := filters.GetFilter(name)
			fmt.Printf("  • %s: %s\n", name, f.Expression())
		}
	}

	return nil
}
