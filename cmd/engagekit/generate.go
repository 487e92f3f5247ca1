package main

import (
	"github.com/spf13/cobra"
)

var (
	generateInput  string
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft posts from a topic list without touching the browser",
	Long: `generate reads topics from a CSV file (column "Topics") and asks the
configured comment backend for one post draft per topic. Drafts are
written to the output file after every topic, so an interrupted run
keeps what it already produced.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signalContext()
		defer stop()
		return a.GenerateBulk(ctx, generateInput, generateOutput)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", `CSV file with a Topics column`)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "posts.csv", "output CSV path")
	generateCmd.MarkFlagRequired("input")
}
