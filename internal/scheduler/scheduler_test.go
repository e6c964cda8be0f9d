package scheduler

import "testing"

func TestSchedulerAddJob(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	if err := s.AddJob("*/5 * * * *", func() {}); err != nil {
		t.Errorf("AddJob with valid expression: %v", err)
	}
	if err := s.AddJob("not a cron expr", func() {}); err == nil {
		t.Error("AddJob with invalid expression should fail")
	}
}
