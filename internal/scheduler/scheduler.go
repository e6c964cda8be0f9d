// Package scheduler provides cron-based background jobs for MindShift.
//
// Its single production use is the session janitor: a periodic sweep that
// evicts idle in-memory sessions so an abandoned dialogue does not pin its
// context forever. Persisted snapshots are untouched, so an evicted session
// can still be rehydrated from the store.
package scheduler

import (
	"github.com/robfig/cron/v3"
)

// Scheduler provides cron-based job scheduling.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates and starts a cron scheduler using the standard
// 5-field expression format. Panicking jobs are recovered and logged.
func NewScheduler() *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	c.Start()
	return &Scheduler{cron: c}
}

// AddJob schedules a task using the provided cron expression.
// It returns an error if the expression is invalid.
func (s *Scheduler) AddJob(expr string, task func()) error {
	_, err := s.cron.AddFunc(expr, task)
	return err
}

// Stop stops the cron scheduler; running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
