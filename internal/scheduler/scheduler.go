// Package scheduler is the single frame-driven tick source. Every simulator
// and every deferred continuation ("next frame", "after a delay") runs from
// Frame, so the whole engine stays on one goroutine.
package scheduler

import (
	"time"
)

// maxFrameDelta caps the delta handed to steppers after a stall (window
// hidden, debugger pause) so integrations never see a huge jump.
const maxFrameDelta = 0.25

// Stepper is advanced once per frame with the elapsed seconds.
type Stepper interface {
	Tick(dt float64)
}

// StepperFunc adapts a function to Stepper.
type StepperFunc func(dt float64)

func (f StepperFunc) Tick(dt float64) { f(dt) }

// Token identifies a deferred task so it can be cancelled.
type Token uint64

type task struct {
	token Token
	// frame is the earliest frame the task may run on; zero means use due.
	frame uint64
	due   time.Time
	fn    func()
}

// Scheduler runs steppers and deferred tasks on each frame. It is only used
// from the UI update loop and does no locking.
type Scheduler struct {
	steppers []Stepper
	tasks    []task
	next     Token

	frame uint64
	last  time.Time
	stats *Stats
}

// New creates a Scheduler that advances steppers in the given order.
func New(steppers ...Stepper) *Scheduler {
	return &Scheduler{
		steppers: steppers,
		stats:    NewStats(120),
	}
}

// Add appends a stepper after the existing ones.
func (s *Scheduler) Add(st Stepper) {
	s.steppers = append(s.steppers, st)
}

// FrameCount returns the number of frames run so far.
func (s *Scheduler) FrameCount() uint64 { return s.frame }

// Stats returns the rolling frame statistics.
func (s *Scheduler) Stats() *Stats { return s.stats }

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// Frame advances one display frame at now: due tasks first, then every
// stepper in order.
func (s *Scheduler) Frame(now time.Time) {
	var dt float64
	if !s.last.IsZero() {
		elapsed := now.Sub(s.last)
		s.stats.Collect(elapsed)
		dt = elapsed.Seconds()
		if dt < 0 {
			dt = 0
		}
		if dt > maxFrameDelta {
			dt = maxFrameDelta
		}
	}
	s.last = now
	s.frame++

	s.runDue(now)

	for _, st := range s.steppers {
		st.Tick(dt)
	}
}

// NextFrame defers fn to the next call of Frame.
func (s *Scheduler) NextFrame(fn func()) Token {
	return s.push(task{frame: s.frame + 1, fn: fn})
}

// After defers fn until at least d has elapsed on the frame clock.
func (s *Scheduler) After(d time.Duration, fn func()) Token {
	base := s.last
	if base.IsZero() {
		base = time.Now()
	}
	return s.push(task{due: base.Add(d), fn: fn})
}

// Cancel removes a pending task. It reports false when the task already ran
// or was never scheduled.
func (s *Scheduler) Cancel(tok Token) bool {
	for i := range s.tasks {
		if s.tasks[i].token == tok {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Scheduler) push(t task) Token {
	s.next++
	t.token = s.next
	s.tasks = append(s.tasks, t)
	return t.token
}

func (s *Scheduler) runDue(now time.Time) {
	if len(s.tasks) == 0 {
		return
	}
	// Snapshot so tasks scheduled by tasks wait for a later frame.
	batch := s.tasks
	s.tasks = nil
	var ready []task
	for _, t := range batch {
		if t.isDue(s.frame, now) {
			ready = append(ready, t)
		} else {
			s.tasks = append(s.tasks, t)
		}
	}
	for _, t := range ready {
		t.fn()
	}
}

func (t task) isDue(frame uint64, now time.Time) bool {
	if t.frame != 0 {
		return frame >= t.frame
	}
	return !now.Before(t.due)
}
