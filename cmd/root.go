// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"seam/internal/config"
	"seam/internal/httputil"
	"seam/internal/log"
	"seam/internal/provider"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagPlayer  string
	flagTimeout string
	flagDebug   bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "seam",
	Short: "Resolve live-streaming rooms to playable stream URLs",
	Long: `Seam turns a live room id into the stream URLs a player can open.
It asks the platform whether the room is live, negotiates the best quality
tier it offers, and prints every CDN URL. Streams are never proxied.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().StringVarP(&flagTimeout, "timeout", "t", "", "Per-request timeout, e.g. 10s")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagTimeout != "" {
		cfg.Timeout = flagTimeout
	}
	if flagDebug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.Setup(cfg.LogLevel, cfg.LogJSON, os.Stderr)
	return nil
}

// newRegistry builds the provider registry from the loaded configuration.
func newRegistry() *provider.Registry {
	client := httputil.NewClient(httputil.Options{
		Timeout:   cfg.TimeoutDuration(),
		UserAgent: cfg.UserAgent,
	})
	return provider.Default(client)
}
