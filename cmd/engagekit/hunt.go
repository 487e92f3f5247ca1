package main

import (
	"github.com/spf13/cobra"
)

var (
	huntOutput    string
	huntStartPage int
)

var huntCmd = &cobra.Command{
	Use:   "hunt <search-url>",
	Short: "Scrape a people-search listing into a CSV file",
	Long: `hunt walks every page of a people-search results URL and scrapes each
profile card into the output CSV. Results are written after every page,
and an existing output file seeds the run so a long scrape can resume
from --start-page without losing earlier pages.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signalContext()
		defer stop()
		return a.HuntConnections(ctx, args[0], huntOutput, huntStartPage)
	},
}

func init() {
	huntCmd.Flags().StringVarP(&huntOutput, "output", "o", "profiles.csv", "output CSV path")
	huntCmd.Flags().IntVar(&huntStartPage, "start-page", 1, "page to resume from")
}
