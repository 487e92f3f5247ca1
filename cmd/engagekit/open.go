package main

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/ajrudell/engagekit/internal/config"
)

var openCmd = &cobra.Command{
	Use:   "open <config|data>",
	Short: "Open the config file or data directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		var err error

		switch args[0] {
		case "config":
			path, err = config.ConfigPath()
		case "data":
			path, err = config.DataDir()
		default:
			return fmt.Errorf("unknown target %q: expected config or data", args[0])
		}
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%s does not exist yet", path)
		}
		return browser.OpenFile(path)
	},
}
