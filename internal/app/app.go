// Package app wires the engine's components into the operations the CLI
// exposes.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ajrudell/engagekit/internal/browser"
	"github.com/ajrudell/engagekit/internal/bulkgen"
	"github.com/ajrudell/engagekit/internal/config"
	"github.com/ajrudell/engagekit/internal/dedup"
	"github.com/ajrudell/engagekit/internal/engage"
	"github.com/ajrudell/engagekit/internal/generator"
	"github.com/ajrudell/engagekit/internal/hunt"
	"github.com/ajrudell/engagekit/internal/outreach"
	"github.com/ajrudell/engagekit/internal/scanner"
	"github.com/ajrudell/engagekit/internal/scheduler"
	"github.com/ajrudell/engagekit/internal/session"
	"github.com/ajrudell/engagekit/internal/store"
	"github.com/ajrudell/engagekit/internal/table"
	"github.com/ajrudell/engagekit/internal/types"
)

// App owns the long-lived resources (config, history store) and runs one
// operation per invocation. Browser sessions are scoped to a single
// operation and torn down on every exit path.
type App struct {
	cfg   *config.Config
	store *store.Store
}

func New(cfg *config.Config) (*App, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	st, err := store.New(filepath.Join(dataDir, "engagekit.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return &App{cfg: cfg, store: st}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// withSession launches the browser, signs in and hands the authenticated
// driver to fn. Launch and sign-in failures are fatal for the invocation.
func (a *App) withSession(ctx context.Context, fn func(ctx context.Context, drv browser.Driver) error) error {
	chrome := browser.NewChrome(a.cfg.Browser.Headless)
	if err := chrome.Start(ctx); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer chrome.Stop()

	cookiePath, err := session.DefaultCookieStorePath()
	if err != nil {
		return err
	}
	ctrl := session.New(chrome, session.TerminalCredentials{}, session.NewCookieStore(cookiePath))
	if err := ctrl.SignIn(ctx); err != nil {
		return err
	}

	return fn(ctx, chrome)
}

// commentRouter builds the generation router. The comment-source
// preference is re-read from disk per decision so a mid-run config change
// takes effect on the next post.
func (a *App) commentRouter() generator.Generator {
	source := generator.SourceFunc(func() generator.Source {
		cfg, err := config.Load()
		if err != nil {
			return generator.Source(a.cfg.Engage.CommentSource)
		}
		return generator.Source(cfg.Engage.CommentSource)
	})

	gpt := generator.NewGPT(a.cfg.GPT, a.store)
	var google generator.Generator
	if g := generator.NewGoogle(a.cfg.Google, a.store); g != nil {
		google = g
	}
	return generator.NewRouter(source, gpt, google)
}

// MonitorFeed engages with the home feed until ctx is cancelled. Each
// refresh cycle likes and comments on up to the configured number of
// posts, requiring substantial content before commenting.
func (a *App) MonitorFeed(ctx context.Context) error {
	return a.withSession(ctx, func(ctx context.Context, drv browser.Driver) error {
		exec := engage.NewExecutor(drv, a.commentRouter(), a.store, a.cfg.Engage.MinCommentLength)
		tracker := dedup.NewTracker()
		feed := scanner.NewFeed(drv, time.Duration(a.cfg.Monitor.RefreshIntervalSeconds)*time.Second)

		err := feed.Run(ctx, func(ctx context.Context, batch []scanner.Candidate) error {
			n := exec.Process(ctx, batch, tracker, a.cfg.Engage.MaxPosts, true)
			log.Printf("Cycle complete: engaged with %d post(s)", n)
			return nil
		})
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	})
}

// WarmupProfiles engages with the recent activity of every profile in the
// input table, regardless of post length and without dedup, so repeated
// runs keep the account visibly active.
func (a *App) WarmupProfiles(ctx context.Context, inputPath string) error {
	records, err := table.ReadProfiles(inputPath)
	if err != nil {
		return err
	}

	return a.withSession(ctx, func(ctx context.Context, drv browser.Driver) error {
		exec := engage.NewExecutor(drv, a.commentRouter(), a.store, a.cfg.Engage.MinCommentLength)
		activity := scanner.NewActivity(drv)

		for _, rec := range records {
			if rec.ProfileLink == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			batch, err := activity.Scan(ctx, rec.ProfileLink)
			if err != nil {
				log.Printf("Failed to scan %s: %v", rec.ProfileLink, err)
				continue
			}
			n := exec.Process(ctx, batch, nil, a.cfg.Engage.MaxPosts, false)
			log.Printf("Warmed up %s: engaged with %d post(s)", rec.ProfileLink, n)
		}
		return nil
	})
}

// SendConnections sends a personalized connection request to every profile
// in the input table.
func (a *App) SendConnections(ctx context.Context, inputPath, template string) error {
	records, err := table.ReadProfiles(inputPath)
	if err != nil {
		return err
	}

	return a.withSession(ctx, func(ctx context.Context, drv browser.Driver) error {
		_, err := outreach.NewExecutor(drv).Run(ctx, records, template)
		return err
	})
}

// HuntConnections scrapes a paginated people-search listing into
// outputPath, resuming from startPage when prior results exist.
func (a *App) HuntConnections(ctx context.Context, endpoint, outputPath string, startPage int) error {
	return a.withSession(ctx, func(ctx context.Context, drv browser.Driver) error {
		return hunt.NewCoordinator(drv).Run(ctx, endpoint, outputPath, startPage)
	})
}

// GenerateBulk produces post drafts for every topic in the input table.
// No browser session is involved.
func (a *App) GenerateBulk(ctx context.Context, inputPath, outputPath string) error {
	return bulkgen.NewRunner(a.commentRouter()).Run(ctx, inputPath, outputPath)
}

// History returns the most recent engagement outcomes.
func (a *App) History(limit int) ([]types.Outcome, error) {
	return a.store.RecentOutcomes(limit)
}

// Schedule runs feed monitoring on a cron cadence until ctx is cancelled.
// Each fire is one bounded monitoring session.
func (a *App) Schedule(ctx context.Context, cronSpec string) error {
	sched, err := scheduler.New("Local")
	if err != nil {
		return err
	}
	if err := sched.AddJob("monitor", cronSpec, a.MonitorFeed); err != nil {
		return err
	}

	sched.Start()
	<-ctx.Done()
	<-sched.Stop().Done()
	return nil
}
