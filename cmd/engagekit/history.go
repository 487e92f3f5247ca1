package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent engagement outcomes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		outcomes, err := a.History(historyLimit)
		if err != nil {
			return err
		}
		if len(outcomes) == 0 {
			fmt.Println("No engagement history yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tITEM\tLIKED\tCOMMENTED\tERROR")
		for _, o := range outcomes {
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n",
				o.CreatedAt.Format("2006-01-02 15:04"), o.ItemID, o.Liked, o.Commented, o.Error)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of outcomes to show")
}
