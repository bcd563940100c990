package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Manage stored bookmarks",
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarked recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		st, bookmarks, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer bookmarks.Close()

		list := st.Bookmarks()
		if len(list) == 0 {
			fmt.Println("No bookmarks yet. Find a nice recipe and bookmark it ;)")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSERVINGS\t")
		for _, b := range list {
			fmt.Fprintf(w, "%s\t%s\t%d\t\n", b.ID, b.Title, b.Servings)
		}
		return w.Flush()
	},
}

var bookmarksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove one bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		st, bookmarks, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer bookmarks.Close()
		return st.DeleteBookmark(ctx, args[0])
	},
}

var bookmarksClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every bookmark",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		st, bookmarks, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer bookmarks.Close()

		if err := st.ClearBookmarks(ctx); err != nil {
			return err
		}
		fmt.Println("Bookmarks cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookmarksCmd)
	bookmarksCmd.AddCommand(bookmarksListCmd, bookmarksDeleteCmd, bookmarksClearCmd)
}
