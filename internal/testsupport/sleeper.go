package testsupport

import (
	"context"
	"sync"
	"time"
)

// RecordingSleeper records requested durations and returns immediately.
// OnSleep, when set, runs after each recorded sleep and may cancel the run.
type RecordingSleeper struct {
	mu        sync.Mutex
	durations []time.Duration
	OnSleep   func(n int, d time.Duration)
}

// Sleep records d and returns ctx.Err().
func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.durations = append(s.durations, d)
	n := len(s.durations)
	hook := s.OnSleep
	s.mu.Unlock()
	if hook != nil {
		hook(n, d)
	}
	return ctx.Err()
}

// Durations returns a copy of the recorded durations.
func (s *RecordingSleeper) Durations() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.durations...)
}
