package scheduler

import (
	"math"
	"time"
)

// Stats is a ring of recent frame durations.
type Stats struct {
	d []time.Duration
	i int
}

// NewStats creates a Stats holding up to n samples.
func NewStats(n int) *Stats {
	if n < 1 {
		n = 1
	}
	return &Stats{d: make([]time.Duration, 0, n)}
}

// Collect records one frame duration, overwriting the oldest when full.
func (s *Stats) Collect(d time.Duration) {
	if len(s.d) < cap(s.d) {
		s.d = append(s.d, d)
		return
	}
	s.d[s.i] = d
	s.i = (s.i + 1) % len(s.d)
}

// Count returns the number of samples held.
func (s *Stats) Count() int { return len(s.d) }

// Average returns the mean frame duration.
func (s *Stats) Average() time.Duration {
	if len(s.d) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s.d {
		total += d
	}
	return time.Duration(math.Round(float64(total) / float64(len(s.d))))
}

// FPS returns the frame rate implied by the average duration.
func (s *Stats) FPS() float64 {
	avg := s.Average()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}
