package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	parleyhttp "github.com/parley-dev/parley/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP inspection API",
	Long: `Serves a read-only JSON view of the graph, a playback session driven
through /interact, and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		project, err := openProject(cmd)
		if err != nil {
			return err
		}
		if addr == "" {
			addr = project.Config().ListenAddr
		}

		player, _, err := project.Player(cmd.Context())
		if err != nil {
			return err
		}

		server := parleyhttp.New(project.Graph(), player)
		srv := &http.Server{
			Addr:    addr,
			Handler: server.Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting Parley server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nShutting down (%v)\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				if closeErr := srv.Close(); closeErr != nil {
					return fmt.Errorf("failed to stop server: %w", closeErr)
				}
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides parley.yaml)")
	rootCmd.AddCommand(serveCmd)
}
