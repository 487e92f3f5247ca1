// Package dedup tracks which items a monitoring run has already engaged
// with. The tracker lives for one run only and is never persisted: synthetic
// positional identifiers are not stable across runs, so dedup is only
// guaranteed within a single scan batch ordering.
package dedup

// Tracker is a set of item identifiers already acted upon.
type Tracker struct {
	seen map[string]struct{}
}

// NewTracker creates an empty tracker for one monitoring run.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]struct{})}
}

// Has reports whether id has already been engaged this run.
func (t *Tracker) Has(id string) bool {
	_, ok := t.seen[id]
	return ok
}

// Add records id as engaged.
func (t *Tracker) Add(id string) {
	t.seen[id] = struct{}{}
}

// Len returns the number of tracked identifiers.
func (t *Tracker) Len() int {
	return len(t.seen)
}
