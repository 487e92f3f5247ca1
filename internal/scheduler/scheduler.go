// Package scheduler runs bounded engagement sessions on a cron cadence.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled engagement session. The ctx bounds its runtime so a
// wedged browser session cannot block the next scheduled run forever.
type Job func(ctx context.Context) error

// Scheduler manages periodic engagement sessions
type Scheduler struct {
	cron       *cron.Cron
	jobs       map[string]cron.EntryID
	jobTimeout time.Duration
}

// New creates a scheduler in the given timezone.
func New(timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", timezone, err)
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		jobs:       make(map[string]cron.EntryID),
		jobTimeout: 30 * time.Minute,
	}, nil
}

// AddJob adds a job with a cron schedule, e.g. "0 9 * * 1-5" for 9:00 AM
// on weekdays. Browser sessions are serialized by the caller; the
// scheduler only fires them.
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	entryID, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		log.Printf("[scheduler] Starting job: %s", name)
		start := time.Now()

		if err := job(ctx); err != nil {
			log.Printf("[scheduler] Job %s failed: %v", name, err)
		} else {
			log.Printf("[scheduler] Job %s completed in %v", name, time.Since(start))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	log.Printf("[scheduler] Added job: %s (schedule: %s)", name, schedule)
	return nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	log.Println("[scheduler] Starting scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and returns a context that is done once any
// in-flight job finishes.
func (s *Scheduler) Stop() context.Context {
	log.Println("[scheduler] Stopping scheduler")
	return s.cron.Stop()
}

// NextRuns returns the upcoming fire time per job name.
func (s *Scheduler) NextRuns() map[string]time.Time {
	next := make(map[string]time.Time, len(s.jobs))
	for name, entryID := range s.jobs {
		next[name] = s.cron.Entry(entryID).Next
	}
	return next
}
