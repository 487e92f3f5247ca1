package main

import (
	"github.com/spf13/cobra"
)

var warmupInput string

var warmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Engage with the recent activity of target profiles",
	Long: `warmup reads profile links from a CSV file (column "Profile Link") and
likes and comments on each profile's recent posts, regardless of length.
Repeat runs intentionally re-engage: the point is visible, ongoing
activity toward the targets.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signalContext()
		defer stop()
		return a.WarmupProfiles(ctx, warmupInput)
	},
}

func init() {
	warmupCmd.Flags().StringVarP(&warmupInput, "input", "i", "", "CSV file with a Profile Link column")
	warmupCmd.MarkFlagRequired("input")
}
