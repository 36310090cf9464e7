// Package gesture turns raw pointer events on a panel into a single
// classification per gesture: a tap, a drag that physics should settle, or
// an ignored gesture (scrolls, stray releases, synthetic clicks).
package gesture

import (
	"time"

	"github.com/olivier-w/driftboard/internal/geom"
)

// Kind is the outcome of a completed gesture.
type Kind uint8

const (
	Ignored Kind = iota
	Tap
	DragSettle
)

func (k Kind) String() string {
	switch k {
	case Tap:
		return "tap"
	case DragSettle:
		return "drag-settle"
	default:
		return "ignored"
	}
}

// EventType identifies a raw input event.
type EventType uint8

const (
	Down EventType = iota
	Move
	Up
	Click
	Scroll
)

// Source is the device an event came from.
type Source uint8

const (
	Mouse Source = iota
	Touch
	Keyboard
)

// Event is a raw pointer, touch or activation event.
type Event struct {
	Type   EventType
	Source Source
	Target string
	Pos    geom.Vec
	At     time.Time
	// Detail is the click count the platform attached to a click. Zero
	// means the click was not produced by a pointer.
	Detail int
}

// Result describes a classified gesture. Non-terminal events (Down, Move)
// report Ignored with Pending set.
type Result struct {
	Kind         Kind
	Target       string
	Elapsed      time.Duration
	Displacement float64
	Pending      bool
}

// Config holds the classification thresholds.
type Config struct {
	// MoveThreshold is the displacement in pixels past which a gesture can
	// no longer be a tap.
	MoveThreshold float64
	// TapWindow is the longest press that still counts as a tap.
	TapWindow time.Duration
	// SyntheticClickWindow is how long after a touch release a click event
	// is treated as the browser-style duplicate of that release.
	SyntheticClickWindow time.Duration
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() Config {
	return Config{
		MoveThreshold:        5,
		TapWindow:            200 * time.Millisecond,
		SyntheticClickWindow: 400 * time.Millisecond,
	}
}

// Classifier tracks one gesture at a time. It is not safe for concurrent
// use; callers feed it from the UI event loop.
type Classifier struct {
	cfg Config

	active bool
	target string
	source Source
	down   geom.Vec
	downAt time.Time
	moved  bool
	maxDsp float64

	lastTouchUp time.Time
}

// New creates a Classifier. Zero thresholds fall back to the defaults.
func New(cfg Config) *Classifier {
	def := DefaultConfig()
	if cfg.MoveThreshold <= 0 {
		cfg.MoveThreshold = def.MoveThreshold
	}
	if cfg.TapWindow <= 0 {
		cfg.TapWindow = def.TapWindow
	}
	if cfg.SyntheticClickWindow <= 0 {
		cfg.SyntheticClickWindow = def.SyntheticClickWindow
	}
	return &Classifier{cfg: cfg}
}

// Config returns the active thresholds.
func (c *Classifier) Config() Config { return c.cfg }

// Active reports whether a gesture is in progress.
func (c *Classifier) Active() bool { return c.active }

// Target returns the element the in-flight gesture started on.
func (c *Classifier) Target() string { return c.target }

// Moved reports whether the in-flight gesture has crossed the move
// threshold. The flag never resets mid-gesture.
func (c *Classifier) Moved() bool { return c.moved }

// Handle dispatches a raw event.
func (c *Classifier) Handle(ev Event) Result {
	switch ev.Type {
	case Down:
		c.begin(ev)
		return Result{Target: ev.Target, Pending: true}
	case Move:
		c.Move(ev.Pos)
		return Result{Target: c.target, Pending: c.active}
	case Up:
		return c.end(ev)
	case Click:
		return c.click(ev)
	default:
		return c.Scroll()
	}
}

// Down starts a mouse gesture on target.
func (c *Classifier) Down(target string, p geom.Vec, at time.Time) {
	c.begin(Event{Type: Down, Source: Mouse, Target: target, Pos: p, At: at})
}

// Move folds a pointer position into the in-flight gesture and reports
// whether the move threshold has been crossed.
func (c *Classifier) Move(p geom.Vec) bool {
	if !c.active {
		return false
	}
	c.track(p)
	return c.moved
}

// Up completes a mouse gesture. The release position is folded into the
// move threshold, so a press and release far apart is a drag even with no
// Move in between.
func (c *Classifier) Up(p geom.Vec, at time.Time) Result {
	return c.end(Event{Type: Up, Source: c.source, Pos: p, At: at})
}

// Scroll abandons the in-flight gesture.
func (c *Classifier) Scroll() Result {
	target := c.target
	c.reset()
	return Result{Kind: Ignored, Target: target}
}

func (c *Classifier) begin(ev Event) {
	c.active = true
	c.target = ev.Target
	c.source = ev.Source
	c.down = ev.Pos
	c.downAt = ev.At
	c.moved = false
	c.maxDsp = 0
}

func (c *Classifier) track(p geom.Vec) {
	d := p.Dist(c.down)
	if d > c.maxDsp {
		c.maxDsp = d
	}
	if d > c.cfg.MoveThreshold {
		c.moved = true
	}
}

func (c *Classifier) end(ev Event) Result {
	if !c.active {
		return Result{Kind: Ignored, Target: ev.Target}
	}
	c.track(ev.Pos)

	res := Result{
		Kind:         DragSettle,
		Target:       c.target,
		Elapsed:      ev.At.Sub(c.downAt),
		Displacement: c.maxDsp,
	}
	if !c.moved && res.Elapsed < c.cfg.TapWindow {
		res.Kind = Tap
	}
	if c.source == Touch || ev.Source == Touch {
		c.lastTouchUp = ev.At
	}
	c.reset()
	return res
}

func (c *Classifier) click(ev Event) Result {
	if ev.Source != Keyboard {
		if ev.Detail == 0 {
			return Result{Kind: Ignored, Target: ev.Target}
		}
		if !c.lastTouchUp.IsZero() && ev.At.Sub(c.lastTouchUp) < c.cfg.SyntheticClickWindow {
			return Result{Kind: Ignored, Target: ev.Target}
		}
	}
	return Result{Kind: Tap, Target: ev.Target}
}

func (c *Classifier) reset() {
	c.active = false
	c.target = ""
	c.moved = false
	c.maxDsp = 0
}
