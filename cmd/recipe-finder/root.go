package main

import (
	"context"
	"fmt"
	"os"

	"recipe-finder/internal/catalog"
	"recipe-finder/internal/config"
	"recipe-finder/internal/logging"
	"recipe-finder/internal/storage"
	"recipe-finder/internal/store"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recipe-finder",
	Short: "Search recipes, scale servings and keep bookmarks.",
	Long: `recipe-finder talks to a Forkify-style recipe catalog. Run "serve" for the web page,
or use the search, show and bookmarks commands straight from the terminal.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if cmd.Flags().Changed("loglevel") {
			level, _ = cmd.Flags().GetString("loglevel")
		}
		return logging.SetLogLevel(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.recipe-finder.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// openStore builds the catalog client, the bookmark backend and the store.
// The caller closes the returned BookmarkStore.
func openStore(ctx context.Context) (*store.Store, storage.BookmarkStore, error) {
	bookmarks, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open bookmark storage: %w", err)
	}

	st, err := store.New(ctx, catalog.NewClient(cfg), bookmarks, cfg.ResultsPerPage)
	if err != nil {
		bookmarks.Close()
		return nil, nil, err
	}
	return st, bookmarks, nil
}
