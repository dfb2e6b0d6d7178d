package sqlgen

import (
	"time"

	"go.uber.org/atomic"
)

// Stats holds compile counters. All fields are updated atomically; a
// single Stats value may be shared by concurrent compiles.
type Stats struct {
	// Compiled is the number of statements assembled successfully.
	Compiled atomic.Int64
	// Failed is the number of compiles that returned an error.
	Failed atomic.Int64
	// Duration is the cumulative time spent compiling, in nanoseconds.
	Duration atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Compiled int64
	Failed   int64
	Duration time.Duration
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Compiled: s.Compiled.Load(),
		Failed:   s.Failed.Load(),
		Duration: time.Duration(s.Duration.Load()),
	}
}

// Reset zeroes all counters.
func (s *Stats) Reset() {
	s.Compiled.Store(0)
	s.Failed.Store(0)
	s.Duration.Store(0)
}

func (s *Stats) record(d time.Duration, err error) {
	s.Duration.Add(int64(d))
	if err != nil {
		s.Failed.Inc()
	} else {
		s.Compiled.Inc()
	}
}
