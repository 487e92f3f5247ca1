package main

import (
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Like and comment on home-feed posts until interrupted",
	Long: `monitor signs in, opens the home feed and engages with fresh posts on
every refresh cycle. Posts already engaged this run are skipped, and
comments are only written on posts with substantial content. Stop with
Ctrl-C; the current post always finishes first.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signalContext()
		defer stop()
		return a.MonitorFeed(ctx)
	},
}
