package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajrudell/engagekit/internal/app"
	"github.com/ajrudell/engagekit/internal/config"
)

var cfg *config.Config

var (
	flagHeadless      bool
	flagCommentSource string
	flagMaxPosts      int
)

var rootCmd = &cobra.Command{
	Use:   "engagekit",
	Short: "Engagement automation for your professional network",
	Long: `engagekit signs into your account and automates routine engagement:
liking and commenting on feed posts, warming up target profiles, sending
personalized connection requests, scraping people-search results and
drafting posts from a topic list.

Comment text is produced by a configurable backend (gpt or google); the
choice can be changed mid-run and takes effect on the next post.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return applyFlags(cmd)
	},
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVar(&flagHeadless, "headless", false, "run the browser without a visible window")
	rootCmd.PersistentFlags().StringVar(&flagCommentSource, "comment-source", "", "comment backend: gpt or google (persisted to config)")
	rootCmd.PersistentFlags().IntVar(&flagMaxPosts, "max-posts", 0, "maximum posts engaged per cycle or profile")

	rootCmd.AddCommand(monitorCmd, warmupCmd, connectCmd, huntCmd, generateCmd, scheduleCmd, historyCmd, openCmd)
}

// initConfig loads the config file, creating a default one on first run so
// the operator has something to edit.
func initConfig() {
	_ = godotenv.Load()

	loaded, err := config.Load()
	if err != nil {
		cfg = config.Default()
		if saveErr := cfg.Save(); saveErr != nil {
			log.Printf("Failed to write default config: %v", saveErr)
		} else if path, pathErr := config.ConfigPath(); pathErr == nil {
			log.Printf("Created default config at %s", path)
		}
	} else {
		cfg = loaded
	}

	// API keys may live in the environment instead of the config file.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.GPT.APIKey == "" {
		cfg.GPT.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.Google.APIKey == "" {
		cfg.Google.APIKey = v
	}
}

// applyFlags folds command-line overrides into the loaded config. The
// comment-source choice is persisted because the routing re-reads the file
// per decision.
func applyFlags(cmd *cobra.Command) error {
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = flagHeadless
	}
	if cmd.Flags().Changed("max-posts") {
		cfg.Engage.MaxPosts = flagMaxPosts
	}
	if cmd.Flags().Changed("comment-source") {
		if flagCommentSource != "gpt" && flagCommentSource != "google" {
			return fmt.Errorf("invalid comment source %q: must be gpt or google", flagCommentSource)
		}
		cfg.Engage.CommentSource = flagCommentSource
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to persist comment source: %w", err)
		}
	}
	return nil
}

// signalContext returns a context cancelled by Ctrl-C or SIGTERM.
// Cancellation is observed between items, never mid-action.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newApp() (*app.App, error) {
	return app.New(cfg)
}
