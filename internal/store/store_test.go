package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ajrudell/engagekit/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "engagekit.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListOutcomes(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	outcomes := []types.Outcome{
		{ItemID: "urn:1", Liked: true, Commented: false, CreatedAt: base},
		{ItemID: "urn:2", Liked: true, Commented: true, CreatedAt: base.Add(time.Minute)},
		{ItemID: "urn:3", Liked: false, Error: "like control not found", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, o := range outcomes {
		if err := s.SaveOutcome(o); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	recent, err := s.RecentOutcomes(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(recent))
	}
	if recent[0].ItemID != "urn:3" || recent[1].ItemID != "urn:2" {
		t.Fatalf("unexpected order: %s, %s", recent[0].ItemID, recent[1].ItemID)
	}
	if recent[0].Error != "like control not found" {
		t.Fatalf("error not round-tripped: %+v", recent[0])
	}
}

func TestRecentOutcomes_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	recent, err := s.RecentOutcomes(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(recent))
	}
}

func TestRecordExchange(t *testing.T) {
	s := newTestStore(t)
	s.RecordExchange("gpt", "gpt-3.5-turbo", "prompt text", "response text", "")

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM exchanges`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d exchanges, want 1", count)
	}
}
