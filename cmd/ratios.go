package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/visionary/internal/models"
	"github.com/spf13/cobra"
)

func newRatiosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ratios",
		Short: "List the supported aspect ratios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, r := range models.AspectRatios() {
				suffix := ""
				if r == models.DefaultAspectRatio {
					suffix = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", r, suffix)
			}
		},
	}
}
