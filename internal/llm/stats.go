package llm

import "sync/atomic"

// Stats counts reply generations. The zero value is ready to use.
type Stats struct {
	calls    atomic.Int64
	failures atomic.Int64
	lastErr  atomic.Pointer[string]
}

type StatsSnapshot struct {
	Calls       int64
	Failures    int64
	LastFailure string // empty when the latest call had no provider failure
}

func (s *Stats) beginCall() {
	s.calls.Add(1)
	s.lastErr.Store(nil)
}

func (s *Stats) recordFailure(reason string) {
	s.failures.Add(1)
	s.lastErr.Store(&reason)
}

func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Calls:    s.calls.Load(),
		Failures: s.failures.Load(),
	}
	if p := s.lastErr.Load(); p != nil {
		snap.LastFailure = *p
	}
	return snap
}
