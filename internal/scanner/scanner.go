// Package scanner surfaces batches of candidate items from the live feed
// (unbounded, poll-based) or from a profile's activity page (one finite
// batch).
package scanner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ajrudell/engagekit/internal/browser"
)

// Candidate is one scraped post handed to the engagement executor. ID is
// best-effort: a DOM-provided urn when present, otherwise a synthetic
// positional fallback that is only unique within one scan batch ordering.
type Candidate struct {
	Handle browser.Handle
	ID     string
	Index  int
}

// collect gathers all currently rendered posts as one batch, in scan order.
func collect(ctx context.Context, drv browser.Driver) ([]Candidate, error) {
	handles, err := drv.FindAll(ctx, postContainer)
	if err != nil {
		return nil, fmt.Errorf("failed to collect posts: %w", err)
	}

	batch := make([]Candidate, 0, len(handles))
	for i, h := range handles {
		batch = append(batch, Candidate{Handle: h, ID: deriveID(ctx, drv, h, i), Index: i})
	}
	return batch, nil
}

func deriveID(ctx context.Context, drv browser.Driver, h browser.Handle, index int) string {
	for _, attr := range idAttributes {
		if v, ok := drv.Attr(ctx, h, attr); ok && v != "" {
			return v
		}
	}
	return fmt.Sprintf("post-%d", index)
}

// Batch is the callback invoked with each surfaced batch of candidates.
type Batch func(ctx context.Context, batch []Candidate) error

// Feed produces an unbounded sequence of batches from the home feed.
type Feed struct {
	// SettleDelay is the wait after refresh and scroll for lazy content to
	// render before the batch is collected.
	SettleDelay time.Duration

	drv             browser.Driver
	refreshInterval time.Duration
}

// NewFeed creates a feed scanner with the operator-configured refresh
// cadence.
func NewFeed(drv browser.Driver, refreshInterval time.Duration) *Feed {
	return &Feed{
		SettleDelay:     15 * time.Second,
		drv:             drv,
		refreshInterval: refreshInterval,
	}
}

// Run loops until ctx is cancelled: refresh (skipped on the first cycle),
// scroll, settle, collect, hand the batch off, then block for the refresh
// interval. Any error during one cycle is logged and the loop waits the
// normal interval before retrying; monitoring runs unattended indefinitely
// despite intermittent scrape breakage.
func (f *Feed) Run(ctx context.Context, handle Batch) error {
	if err := f.drv.Navigate(ctx, FeedURL); err != nil {
		return fmt.Errorf("failed to open feed: %w", err)
	}

	first := true
	for {
		// Cancellation is only observed here, between cycles.
		if err := ctx.Err(); err != nil {
			log.Println("Monitoring stopped")
			return err
		}

		if err := f.cycle(ctx, first, handle); err != nil {
			if ctx.Err() != nil {
				log.Println("Monitoring stopped")
				return ctx.Err()
			}
			log.Printf("Error during monitoring cycle: %v", err)
		}
		first = false

		log.Printf("Waiting %v before next refresh...", f.refreshInterval)
		if err := browser.Sleep(ctx, f.refreshInterval); err != nil {
			log.Println("Monitoring stopped")
			return err
		}
	}
}

func (f *Feed) cycle(ctx context.Context, first bool, handle Batch) error {
	log.Println("Refreshing feed...")
	if !first {
		if err := f.drv.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to refresh feed: %w", err)
		}
	}

	if err := f.drv.Eval(ctx, `window.scrollTo(0, document.body.scrollHeight)`, nil); err != nil {
		return fmt.Errorf("failed to scroll feed: %w", err)
	}
	if err := browser.Sleep(ctx, f.SettleDelay); err != nil {
		return err
	}

	batch, err := collect(ctx, f.drv)
	if err != nil {
		return err
	}
	log.Printf("Found %d posts on the feed", len(batch))

	return handle(ctx, batch)
}

// Activity surfaces one finite batch from a profile's activity page.
type Activity struct {
	// LoadDelay is the wait after navigation before the first scroll.
	LoadDelay time.Duration
	// ScrollDelay is the wait after each scroll step.
	ScrollDelay time.Duration
	// ScrollSteps bounds the number of scroll-to-bottom steps used to load
	// additional history.
	ScrollSteps int

	drv browser.Driver
}

// NewActivity creates an activity scanner.
func NewActivity(drv browser.Driver) *Activity {
	return &Activity{
		LoadDelay:   5 * time.Second,
		ScrollDelay: 2 * time.Second,
		ScrollSteps: 3,
		drv:         drv,
	}
}

// Scan navigates to the profile's activity page and returns exactly one
// batch of candidates.
func (a *Activity) Scan(ctx context.Context, profileURL string) ([]Candidate, error) {
	url := ActivityURL(profileURL)
	log.Printf("Visiting activity page: %s", url)

	if err := a.drv.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to open activity page: %w", err)
	}
	if err := browser.Sleep(ctx, a.LoadDelay); err != nil {
		return nil, err
	}

	for i := 0; i < a.ScrollSteps; i++ {
		if err := a.drv.Eval(ctx, `window.scrollTo(0, document.body.scrollHeight)`, nil); err != nil {
			return nil, fmt.Errorf("failed to scroll activity page: %w", err)
		}
		if err := browser.Sleep(ctx, a.ScrollDelay); err != nil {
			return nil, err
		}
	}

	batch, err := collect(ctx, a.drv)
	if err != nil {
		return nil, err
	}
	log.Printf("Found %d posts on activity page", len(batch))
	return batch, nil
}

// ActivityURL normalizes a profile URL into its activity stream URL,
// stripping any query string and trailing slash.
func ActivityURL(profileURL string) string {
	if i := strings.Index(profileURL, "?"); i >= 0 {
		profileURL = profileURL[:i]
	}
	return strings.TrimRight(profileURL, "/") + "/recent-activity/all/"
}
