package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-finder/internal/app"
	"recipe-finder/internal/config"
	"recipe-finder/internal/logging"
	"recipe-finder/internal/server"
	"recipe-finder/internal/view"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recipe finder web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		st, bookmarks, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer bookmarks.Close()

		page, err := view.NewPage()
		if err != nil {
			return err
		}
		a := app.NewApp(st, page)
		if err := a.Init(); err != nil {
			return err
		}

		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = cfg.Port
		}

		handler := server.New(a)
		if cfg.BookmarkBackend != config.BackendRedis {
			handler.WithDataPath(cfg.BookmarkPath)
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logging.Log.Infof("Recipe finder listening on port %s", port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}
		logging.Log.Info("Shutting down server...")

		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctxShutdown); err != nil {
			return err
		}

		logging.Log.Info("Server exiting")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "HTTP port (default from PORT or 8080)")
}
