// Package outreach sends personalized connection requests to a fixed list
// of target profiles.
package outreach

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ajrudell/engagekit/internal/browser"
	"github.com/ajrudell/engagekit/internal/types"
)

const (
	buttonQuery       = `button`
	noteTextareaQuery = `textarea[name="message"]`

	connectLabel = "Connect"
	moreLabel    = "More"
	addNoteLabel = "Add a note"
	sendLabel    = "Send"
)

// Personalize substitutes the recipient's name into template. An absent
// name becomes "there" so the note never reads "Hi {Name}".
func Personalize(template, name string) string {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	return strings.ReplaceAll(template, "{Name}", name)
}

// Executor drives the connection-request flow. Invites are only sent with
// a personalized note attached; if the note UI cannot be reached the
// profile is skipped rather than invited without one.
type Executor struct {
	// PageLoadDelay is the wait after opening a profile.
	PageLoadDelay time.Duration
	// DialogDelay is the wait after each click that opens or mutates the
	// invite dialog.
	DialogDelay time.Duration
	// Limiter spaces out invites so they land at a human cadence.
	Limiter *rate.Limiter

	drv browser.Driver
}

func NewExecutor(drv browser.Driver) *Executor {
	return &Executor{
		PageLoadDelay: 5 * time.Second,
		DialogDelay:   2 * time.Second,
		Limiter:       rate.NewLimiter(rate.Every(10*time.Second), 1),
		drv:           drv,
	}
}

// Run sends a connection request to every record with a profile link and
// returns how many invites went out. Records without a link are skipped
// silently and excluded from the count; any other per-record failure is
// logged and never aborts the batch.
func (e *Executor) Run(ctx context.Context, records []types.ProfileRecord, template string) (int, error) {
	sent := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if rec.ProfileLink == "" {
			continue
		}
		if e.connect(ctx, rec, template) {
			sent++
		}
	}
	log.Printf("Sent %d connection request(s)", sent)
	return sent, nil
}

func (e *Executor) connect(ctx context.Context, rec types.ProfileRecord, template string) bool {
	if err := e.drv.Navigate(ctx, rec.ProfileLink); err != nil {
		log.Printf("Failed to open %s: %v", rec.ProfileLink, err)
		return false
	}
	if err := browser.Sleep(ctx, e.PageLoadDelay); err != nil {
		return false
	}

	connect, found := e.connectControl(ctx)
	if !found {
		log.Printf("No connect button on %s, skipping", rec.ProfileLink)
		return false
	}
	if err := e.Limiter.Wait(ctx); err != nil {
		return false
	}
	if err := e.drv.Click(ctx, connect); err != nil {
		log.Printf("Failed to click connect on %s: %v", rec.ProfileLink, err)
		return false
	}
	if err := browser.Sleep(ctx, e.DialogDelay); err != nil {
		return false
	}

	if !e.addNote(ctx, rec, template) {
		return false
	}

	send, found := e.firstByText(ctx, sendLabel)
	if !found {
		log.Printf("No send button on %s, skipping", rec.ProfileLink)
		return false
	}
	if err := e.drv.Click(ctx, send); err != nil {
		log.Printf("Failed to send invite to %s: %v", rec.ProfileLink, err)
		return false
	}
	log.Printf("Connection request sent to %s", rec.ProfileLink)
	return true
}

// connectControl finds the connect affordance, which sits either directly
// in the profile action bar or behind the overflow menu.
func (e *Executor) connectControl(ctx context.Context) (browser.Handle, bool) {
	if h, found := e.firstByText(ctx, connectLabel); found {
		return h, true
	}

	more, found := e.firstByText(ctx, moreLabel)
	if !found {
		return browser.Handle{}, false
	}
	if err := e.drv.Click(ctx, more); err != nil {
		return browser.Handle{}, false
	}
	if err := browser.Sleep(ctx, e.DialogDelay); err != nil {
		return browser.Handle{}, false
	}
	return e.firstByText(ctx, connectLabel)
}

// addNote opens the note step and types the personalized message. Without
// the note step no invite is sent at all.
func (e *Executor) addNote(ctx context.Context, rec types.ProfileRecord, template string) bool {
	note, found := e.firstByText(ctx, addNoteLabel)
	if !found {
		log.Printf("No note option on %s, skipping invite", rec.ProfileLink)
		return false
	}
	if err := e.drv.Click(ctx, note); err != nil {
		log.Printf("Failed to open note on %s: %v", rec.ProfileLink, err)
		return false
	}
	if err := browser.Sleep(ctx, e.DialogDelay); err != nil {
		return false
	}

	areas, err := e.drv.FindAll(ctx, noteTextareaQuery)
	if err != nil || len(areas) == 0 {
		log.Printf("No note field on %s, skipping invite", rec.ProfileLink)
		return false
	}
	if err := e.drv.Type(ctx, areas[0], Personalize(template, rec.Name)); err != nil {
		log.Printf("Failed to type note on %s: %v", rec.ProfileLink, err)
		return false
	}
	return true
}

func (e *Executor) firstByText(ctx context.Context, text string) (browser.Handle, bool) {
	handles, err := e.drv.FindAllByText(ctx, buttonQuery, text)
	if err != nil || len(handles) == 0 {
		return browser.Handle{}, false
	}
	return handles[0], true
}
