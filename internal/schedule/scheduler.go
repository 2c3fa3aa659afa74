// Package schedule fires the pipeline on a fixed cron cadence in a
// fixed timezone. Overlapping fires are skipped, never run
// concurrently: one spreadsheet, one destination, one run at a time.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a single job on a cron expression.
type Scheduler struct {
	cron *cron.Cron
	id   cron.EntryID
}

// New builds a scheduler for job. spec is a standard five-field cron
// expression evaluated in the named IANA timezone.
func New(spec, timezone string, job func(), log *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{log})),
	)
	id, err := c.AddFunc(spec, job)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	return &Scheduler{cron: c, id: id}, nil
}

// Start begins firing in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops future fires. The returned context is done once a run in
// progress, if any, has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Next returns the time of the next scheduled fire.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.id).Next
}

// cronLogger adapts slog to the cron.Logger interface so skipped
// overlapping fires show up in the run log.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
