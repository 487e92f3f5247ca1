package main

import (
	"github.com/spf13/cobra"
)

var scheduleSpec string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run feed monitoring on a cron cadence",
	Long: `schedule keeps the process alive and fires a bounded feed-monitoring
session on the given cron schedule, e.g. "0 9 * * 1-5" for weekday
mornings. Stop with Ctrl-C; an in-flight session finishes before the
process exits.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signalContext()
		defer stop()
		return a.Schedule(ctx, scheduleSpec)
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "cron", "0 9 * * *", "cron schedule for monitoring sessions")
}
