// Package engage turns candidate posts into like and comment actions.
package engage

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ajrudell/engagekit/internal/browser"
	"github.com/ajrudell/engagekit/internal/dedup"
	"github.com/ajrudell/engagekit/internal/generator"
	"github.com/ajrudell/engagekit/internal/scanner"
	"github.com/ajrudell/engagekit/internal/types"
)

// UnextractableContent stands in for post text when extraction fails.
// Liking still proceeds on such posts; only the length-based comment gate
// sees the sentinel.
const UnextractableContent = "unextractable"

var (
	errCommentButtonNotFound = errors.New("comment button not found")
	errEditorNotFound        = errors.New("comment editor not found")
	errSubmitNotFound        = errors.New("no submit control matched any strategy")
)

// Recorder persists per-item outcomes as they happen.
type Recorder interface {
	SaveOutcome(o types.Outcome) error
}

// Delays pace the executor's interaction with the page. The comment editor
// and the submit control render asynchronously after their trigger is
// clicked, so querying too early misses them.
type Delays struct {
	// EditorSettle is the wait after opening the comment editor.
	EditorSettle time.Duration
	// SubmitSettle is the wait after inserting text, before the submit
	// control is resolved.
	SubmitSettle time.Duration
}

// DefaultDelays returns the pacing used against the live platform.
func DefaultDelays() Delays {
	return Delays{
		EditorSettle: 2 * time.Second,
		SubmitSettle: 1 * time.Second,
	}
}

// Executor likes and comments on candidate posts. Comment text comes from
// gen; rec is optional. Every side-effecting click passes through Limiter
// so actions land at a human cadence.
type Executor struct {
	Delays Delays
	// Limiter spaces out irreversible actions. Tests replace it with an
	// unlimited limiter.
	Limiter *rate.Limiter
	// MinCommentLength is the content-length floor for commenting when the
	// caller requires substantial content.
	MinCommentLength int

	drv browser.Driver
	gen generator.Generator
	rec Recorder
}

// NewExecutor creates an executor. rec may be nil.
func NewExecutor(drv browser.Driver, gen generator.Generator, rec Recorder, minCommentLength int) *Executor {
	return &Executor{
		Delays:           DefaultDelays(),
		Limiter:          rate.NewLimiter(rate.Every(3*time.Second), 1),
		MinCommentLength: minCommentLength,
		drv:              drv,
		gen:              gen,
		rec:              rec,
	}
}

// Process engages with each candidate in batch, in scan order, stopping
// once limit items have been processed (limit <= 0 means no limit). A
// non-nil tracker gates re-engagement by item identifier; passing nil
// intentionally allows repeats, which warmup relies on. When
// requireSubstantialContent is set, commenting additionally requires the
// extracted content to reach MinCommentLength.
//
// Per-item failure never aborts the batch: an item whose like control cannot be
// found, or whose comment sub-steps fail, is logged, counted and left
// behind. Liking alone counts as engagement.
func (e *Executor) Process(ctx context.Context, batch []scanner.Candidate, tracker *dedup.Tracker, limit int, requireSubstantialContent bool) int {
	count := 0
	for _, item := range batch {
		if limit > 0 && count >= limit {
			break
		}
		if tracker != nil && tracker.Has(item.ID) {
			continue
		}

		outcome := e.engage(ctx, item, requireSubstantialContent)
		if tracker != nil {
			tracker.Add(item.ID)
		}
		count++

		log.Printf("Post %s: liked=%t commented=%t", item.ID, outcome.Liked, outcome.Commented)
		if e.rec != nil {
			if err := e.rec.SaveOutcome(outcome); err != nil {
				log.Printf("Failed to record outcome for %s: %v", item.ID, err)
			}
		}
	}
	return count
}

func (e *Executor) engage(ctx context.Context, item scanner.Candidate, requireSubstantialContent bool) types.Outcome {
	outcome := types.Outcome{ItemID: item.ID, CreatedAt: time.Now()}

	content := e.extractContent(ctx, item)

	liked, likeErr := e.like(ctx, item)
	outcome.Liked = liked
	if likeErr != "" {
		outcome.Error = likeErr
	}
	if !liked {
		return outcome
	}

	if requireSubstantialContent && len(content) < e.MinCommentLength {
		log.Printf("Post %s: content too short to comment (%d chars)", item.ID, len(content))
		return outcome
	}

	if err := e.comment(ctx, item, content); err != nil {
		log.Printf("Failed to comment on %s: %v", item.ID, err)
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Commented = true
	return outcome
}

// extractContent pulls the post's commentary text, not the whole card: the
// card's own chrome (author, timestamps, reaction counts) would otherwise
// satisfy any length gate and pollute the generation prompt. A missing
// commentary element yields the sentinel.
func (e *Executor) extractContent(ctx context.Context, item scanner.Candidate) string {
	h, found := e.drv.FindWithin(ctx, item.Handle, postContentQuery)
	if !found {
		return UnextractableContent
	}
	text, ok := e.drv.Text(ctx, h)
	if !ok || text == "" {
		return UnextractableContent
	}
	return text
}

// like activates the item's like control unless it is already pressed.
// An already-pressed control is a success, not a conflict: the run resumed
// over a post it or the operator liked earlier.
func (e *Executor) like(ctx context.Context, item scanner.Candidate) (bool, string) {
	control, found := e.likeControl(ctx, item)
	if !found {
		log.Printf("No like button found on %s", item.ID)
		return false, "like control not found"
	}

	if pressed, ok := e.drv.Attr(ctx, control, "aria-pressed"); ok && pressed == "true" {
		log.Printf("Post %s already liked", item.ID)
		return true, ""
	}

	if err := e.drv.ScrollIntoView(ctx, control); err != nil {
		return false, err.Error()
	}
	if err := e.Limiter.Wait(ctx); err != nil {
		return false, err.Error()
	}
	if err := e.drv.Click(ctx, control); err != nil {
		log.Printf("Failed to like %s: %v", item.ID, err)
		return false, err.Error()
	}
	log.Printf("Liked post %s", item.ID)
	return true, ""
}

// likeControl finds the reaction trigger inside the item, excluding the
// follow control the platform renders with a near-identical label.
func (e *Executor) likeControl(ctx context.Context, item scanner.Candidate) (browser.Handle, bool) {
	handles, err := e.drv.FindAllWithin(ctx, item.Handle, likeButtonQuery)
	if err != nil {
		return browser.Handle{}, false
	}
	for _, h := range handles {
		class, _ := e.drv.Attr(ctx, h, "class")
		label, _ := e.drv.Attr(ctx, h, "aria-label")
		if strings.Contains(strings.ToLower(class), "follow") || strings.Contains(label, "Follow") {
			continue
		}
		return h, true
	}
	return browser.Handle{}, false
}

func (e *Executor) comment(ctx context.Context, item scanner.Candidate, content string) error {
	text, err := e.gen.Generate(ctx, content)
	if err != nil {
		return err
	}

	button, found := e.drv.FindWithin(ctx, item.Handle, commentButtonQuery)
	if !found {
		return errCommentButtonNotFound
	}
	if err := e.drv.ScrollIntoView(ctx, button); err != nil {
		return err
	}
	if err := e.drv.Click(ctx, button); err != nil {
		return err
	}
	if err := browser.Sleep(ctx, e.Delays.EditorSettle); err != nil {
		return err
	}

	// Editor and submit lookups stay scoped to the post: another post's
	// comment box may still be open in the same cycle, and a document-wide
	// match would drop the comment into the wrong element.
	editor, found := e.drv.FindWithin(ctx, item.Handle, commentEditorQuery)
	if !found {
		return errEditorNotFound
	}
	if err := e.drv.Click(ctx, editor); err != nil {
		return err
	}
	if err := e.drv.Type(ctx, editor, text); err != nil {
		return err
	}
	if err := browser.Sleep(ctx, e.Delays.SubmitSettle); err != nil {
		return err
	}

	match := browser.ResolveWithin(ctx, e.drv, item.Handle, submitStrategies)
	if !match.Found {
		return errSubmitNotFound
	}
	if err := e.Limiter.Wait(ctx); err != nil {
		return err
	}
	if err := e.drv.Click(ctx, match.Handle); err != nil {
		return err
	}
	log.Printf("Commented on %s via %s", item.ID, match.Strategy)
	return nil
}
