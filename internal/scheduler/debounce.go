package scheduler

import "time"

// Debouncer coalesces bursts of triggers (window resizes) into a single
// firing once Quiet has passed without another trigger.
type Debouncer struct {
	Quiet    time.Duration
	deadline time.Time
	pending  bool
}

// NewDebouncer creates a Debouncer with the given quiet period.
func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{Quiet: quiet}
}

// Trigger (re)starts the quiet period at now.
func (d *Debouncer) Trigger(now time.Time) {
	d.deadline = now.Add(d.Quiet)
	d.pending = true
}

// Pending reports whether a firing is outstanding.
func (d *Debouncer) Pending() bool { return d.pending }

// Poll reports true exactly once per burst, on the first call at or after
// the deadline.
func (d *Debouncer) Poll(now time.Time) bool {
	if !d.pending || now.Before(d.deadline) {
		return false
	}
	d.pending = false
	return true
}
