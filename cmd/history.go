package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"seam/internal/config"
	"seam/internal/history"
	"seam/internal/ui"
)

var (
	flagHistoryClear bool
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent lookups and resolve one again",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded lookups")
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", history.DefaultLimit, "Number of lookups to show")
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := config.HistoryPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	if flagHistoryClear {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	}

	entries, err := store.Recent(ctx, flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	items := history.FormatForDisplay(entries)
	if !ui.IsTerminal() {
		for i, item := range items {
			fmt.Printf("%s\t%s\n", entries[i].ResolvedAt.Local().Format(time.DateTime), item)
		}
		return nil
	}

	idx, err := ui.Select("History", items)
	if err != nil {
		return err
	}
	selected := entries[idx]
	headers, err := requestHeaders(cfg, selected.Platform, nil)
	if err != nil {
		return err
	}

	reg := newRegistry()
	node, err := resolveRoom(ctx, reg, selected.Platform, selected.InputID, headers)
	if err != nil {
		return err
	}
	return presentNode(ctx, reg, node)
}
