package metrics

import "time"

// Stopwatch tracks the start of a typing run. Every Start bumps the
// generation so ticks scheduled for an earlier run can be told apart.
type Stopwatch struct {
	startedAt  time.Time
	running    bool
	generation uint64
}

// Start begins timing at now. It is a no-op while already running.
func (s *Stopwatch) Start(now time.Time) bool {
	if s.running {
		return false
	}
	s.running = true
	s.startedAt = now
	s.generation++
	return true
}

// Stop halts the stopwatch and clears the start. Safe to call repeatedly.
func (s *Stopwatch) Stop() {
	s.running = false
	s.startedAt = time.Time{}
}

// Running reports whether a run is being timed.
func (s *Stopwatch) Running() bool { return s.running }

// Generation returns the id of the latest run.
func (s *Stopwatch) Generation() uint64 { return s.generation }

// StartedAt returns the start time, nil when stopped.
func (s *Stopwatch) StartedAt() *time.Time {
	if !s.running {
		return nil
	}
	t := s.startedAt
	return &t
}

// Live reports whether a tick carrying generation gen should still fire.
func (s *Stopwatch) Live(gen uint64) bool {
	return s.running && gen == s.generation
}
