package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"seam/internal/batch"
	"seam/internal/provider"
)

var flagWorkers int

var checkCmd = &cobra.Command{
	Use:   "check <platform:room>...",
	Short: "Check whether several rooms are live",
	Example: `  seam check bilibili:6 bilibili:21495945 173:96
  seam check bilibili:6 173:96 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: checkRun,
}

func init() {
	checkCmd.Flags().IntVarP(&flagWorkers, "workers", "w", batch.DefaultWorkers, "Rooms resolved concurrently")
	checkCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Print results as JSON")
}

func checkRun(cmd *cobra.Command, args []string) error {
	targets := make([]batch.Target, 0, len(args))
	for _, a := range args {
		t, err := batch.ParseTarget(a)
		if err != nil {
			return err
		}
		targets = append(targets, t)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := batch.Run(ctx, newRegistry(), targets, flagWorkers, cfg.HeadersFor)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	failed := 0
	for _, r := range results {
		switch r.Outcome {
		case provider.OutcomeLive:
			fmt.Printf("%-24s live      %s\n", r.Target, r.Node.Title)
		case provider.OutcomeNotLive:
			fmt.Printf("%-24s offline\n", r.Target)
		default:
			failed++
			fmt.Printf("%-24s %-9s %v\n", r.Target, r.Outcome, r.Err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d rooms could not be checked", failed, len(results))
	}
	return nil
}
