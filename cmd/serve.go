package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"seam/internal/server"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resolver over HTTP",
	Args:  cobra.NoArgs,
	RunE:  serveRun,
}

func init() {
	serveCmd.Flags().StringVarP(&flagListen, "listen", "l", "", "Listen address (default from config)")
}

func serveRun(cmd *cobra.Command, args []string) error {
	addr := cfg.Listen
	if flagListen != "" {
		addr = flagListen
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(newRegistry(), cfg.HeadersFor)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serving on %s: %w", addr, err)
	}
	return nil
}
