package browser

import (
	"context"
	"time"
)

// Handle is an opaque reference to a single element on the current page.
// For the Chrome driver, Expr is a JavaScript expression that resolves to
// the element; fakes may assign any unique string. A Handle is only valid
// until the next navigation or refresh.
type Handle struct {
	Expr string
}

// Driver is the browser capability the engine consumes. All queries are
// CSS-based and a query miss is a normal, non-fatal outcome: lookup methods
// report presence with a bool instead of an error, so call sites decide
// whether a missing element is worth logging.
//
// The ctx parameter bounds each call; scanning loops observe cancellation
// between items, never mid-action.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Refresh(ctx context.Context) error

	// WaitVisible blocks until an element matching query is visible or the
	// timeout elapses, reporting whether it appeared.
	WaitVisible(ctx context.Context, query string, timeout time.Duration) bool

	FindAll(ctx context.Context, query string) ([]Handle, error)
	FindWithin(ctx context.Context, h Handle, query string) (Handle, bool)
	FindAllWithin(ctx context.Context, h Handle, query string) ([]Handle, error)

	// FindAllByText returns elements matching query whose visible text
	// contains text. CSS has no :contains(), and several platform controls
	// ("Connect", "More", "Send") are only distinguishable by label.
	FindAllByText(ctx context.Context, query, text string) ([]Handle, error)

	Click(ctx context.Context, h Handle) error
	Type(ctx context.Context, h Handle, text string) error
	Text(ctx context.Context, h Handle) (string, bool)
	Attr(ctx context.Context, h Handle, name string) (string, bool)
	ScrollIntoView(ctx context.Context, h Handle) error

	// Eval runs a script in the page and unmarshals its result into out.
	Eval(ctx context.Context, script string, out any) error
}

// Sleep blocks for d or until ctx is cancelled. Rendering on the platform is
// asynchronous and several UI states have no waitable condition, so these
// named delays are a correctness requirement, not cosmetics: querying too
// early yields stale DOM state.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Delays groups the named settle delays used between browser sub-steps.
// They are configurable so pacing can be tuned without touching call sites.
type Delays struct {
	// Settle is the pause after scrolls, clicks and other actions that
	// trigger asynchronous UI updates.
	Settle time.Duration
	// PageLoad is the pause after a navigation before querying the page.
	PageLoad time.Duration
}

// DefaultDelays returns the pacing used for real sessions.
func DefaultDelays() Delays {
	return Delays{
		Settle:   2 * time.Second,
		PageLoad: 5 * time.Second,
	}
}
