package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"recipe-finder/internal/pagination"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog and print one page of results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		page, _ := cmd.Flags().GetInt("page")

		st, bookmarks, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer bookmarks.Close()

		if err := st.LoadSearch(ctx, args[0]); err != nil {
			return err
		}

		results := st.ResultsPage(page)
		s := st.Search()
		if len(s.Results) == 0 {
			fmt.Println("No recipes found for your query! Please try again.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPUBLISHER\t")
		for _, p := range results {
			title := p.Title
			if p.Key != "" {
				title += " *"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", p.ID, title, p.Publisher)
		}
		w.Flush()

		nav := pagination.Navigate(s.Page, len(s.Results), s.ResultsPerPage)
		fmt.Printf("\nPage %d of %d (%d results)", s.Page, nav.NumPages, len(s.Results))
		for _, b := range nav.Buttons {
			fmt.Printf("  [%s: --page %d]", b.Direction, b.Page)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Int("page", 1, "Results page to print")
}
