package main

import (
	"github.com/spf13/cobra"
)

var (
	connectInput   string
	connectMessage string
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Send personalized connection requests to listed profiles",
	Long: `connect reads target profiles from a CSV file (columns "Profile Link"
and "Name") and sends each one a connection request with a personalized
note. {Name} in the message template is replaced by the recipient's name,
or "there" when the name is missing. Profiles where the note step is
unavailable are skipped; no request is ever sent without a note.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signalContext()
		defer stop()
		return a.SendConnections(ctx, connectInput, connectMessage)
	},
}

func init() {
	connectCmd.Flags().StringVarP(&connectInput, "input", "i", "", "CSV file with Profile Link and Name columns")
	connectCmd.Flags().StringVarP(&connectMessage, "message", "m", "Hi {Name}, I came across your profile and would love to connect!", "note template, {Name} is substituted")
	connectCmd.MarkFlagRequired("input")
}
