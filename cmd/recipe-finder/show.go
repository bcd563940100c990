package main

import (
	"context"
	"fmt"
	"strings"

	"recipe-finder/internal/recipe"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a recipe, optionally scaled to a number of servings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		servings, _ := cmd.Flags().GetInt("servings")
		toggle, _ := cmd.Flags().GetBool("bookmark")

		st, bookmarks, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer bookmarks.Close()

		if err := st.LoadRecipe(ctx, args[0]); err != nil {
			return err
		}
		if servings > 0 {
			if err := st.UpdateServings(servings); err != nil {
				return err
			}
		}
		if toggle {
			if err := st.ToggleBookmark(ctx); err != nil {
				return err
			}
		}

		rec, _ := st.Recipe()
		printRecipe(rec)
		return nil
	},
}

func printRecipe(r recipe.Recipe) {
	mark := ""
	if r.Bookmarked {
		mark = " [bookmarked]"
	}
	fmt.Printf("%s%s\n", r.Title, mark)
	fmt.Println(strings.Repeat("=", len(r.Title)))
	fmt.Printf("By %s | %d minutes | %d servings\n\n", r.Publisher, r.CookingTime, r.Servings)

	for _, ing := range r.Ingredients {
		parts := []string{}
		if q := recipe.FormatQuantity(ing.Quantity); q != "" {
			parts = append(parts, q)
		}
		if ing.Unit != "" {
			parts = append(parts, ing.Unit)
		}
		parts = append(parts, ing.Description)
		fmt.Printf("  - %s\n", strings.Join(parts, " "))
	}

	if r.SourceURL != "" {
		fmt.Printf("\nDirections: %s\n", r.SourceURL)
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Int("servings", 0, "Scale ingredients to this many servings")
	showCmd.Flags().Bool("bookmark", false, "Toggle the bookmark for this recipe")
}
