package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range newRegistry().Names() {
			fmt.Println(name)
		}
		return nil
	},
}
