// Package physics is the panel simulation: spring return to an anchor,
// velocity damping, pairwise repulsion and drag/release handling. It holds
// pure data; a rendering adapter reads Panels each frame.
package physics

import (
	"log/slog"
	"math"

	"github.com/olivier-w/driftboard/internal/geom"
	"github.com/olivier-w/driftboard/internal/phi"
	"github.com/olivier-w/driftboard/internal/scheduler"
)

// Panel is the kinematic record of one draggable panel.
type Panel struct {
	ID          string
	ContentType string

	Origin   geom.Vec // anchor as percent of the viewport, 0-100
	Anchor   geom.Vec
	Position geom.Vec // top-left, pixels
	Velocity geom.Vec

	Angle           float64 // degrees
	AngularVelocity float64

	Dragging        bool
	Moving          bool
	PhysicsDisabled bool
	Mass            float64
}

// Engine owns every Panel record. Other components only toggle
// PhysicsDisabled / Dragging through the methods below.
type Engine struct {
	cfg      Config
	log      *slog.Logger
	cadence  scheduler.Cadence
	viewport geom.Vec
	safeZone float64

	panels map[string]*Panel
	order  []string

	dragged    string
	dragOffset geom.Vec
	window     *sampleWindow
}

// New creates an Engine for a viewport of the given size in pixels.
func New(cfg Config, viewport geom.Vec) *Engine {
	return &Engine{
		cfg:      cfg,
		log:      slog.Default(),
		cadence:  scheduler.NewCadence(cfg.UpdateEvery),
		viewport: viewport,
		panels:   make(map[string]*Panel),
		window:   newSampleWindow(cfg.SampleWindow),
	}
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.log = l
	}
}

// Config returns the engine's tuning.
func (e *Engine) Config() Config { return e.cfg }

// Viewport returns the current viewport size.
func (e *Engine) Viewport() geom.Vec { return e.viewport }

// SetSafeZone sets the bottom edge of the title area; anchors are kept
// below it.
func (e *Engine) SetSafeZone(bottom float64) {
	e.safeZone = bottom
}

// Add registers a panel anchored at origin (percent of viewport). Adding an
// existing id replaces its anchor and resets its motion.
func (e *Engine) Add(id, contentType string, origin geom.Vec) {
	p, ok := e.panels[id]
	if !ok {
		p = &Panel{ID: id}
		e.panels[id] = p
		e.order = append(e.order, id)
	}
	p.ContentType = contentType
	p.Origin = origin
	p.Anchor = e.anchorFor(origin)
	p.Position = p.Anchor
	p.Velocity = geom.Vec{}
	p.Angle = 0
	p.AngularVelocity = 0
	p.Mass = e.cfg.Mass
	if p.Mass <= 0 {
		p.Mass = phi.Phi
	}
}

func (e *Engine) anchorFor(origin geom.Vec) geom.Vec {
	a := geom.Vec{X: origin.X / 100 * e.viewport.X, Y: origin.Y / 100 * e.viewport.Y}
	if e.safeZone > 0 && a.Y < e.safeZone {
		a.Y = e.safeZone + e.cfg.SafeZoneGap
	}
	return a
}

// Has reports whether id is a known panel.
func (e *Engine) Has(id string) bool {
	_, ok := e.panels[id]
	return ok
}

// IDs returns panel ids in insertion order.
func (e *Engine) IDs() []string {
	return append([]string(nil), e.order...)
}

// Panel returns a copy of the record for id.
func (e *Engine) Panel(id string) (Panel, bool) {
	p, ok := e.panels[id]
	if !ok {
		return Panel{}, false
	}
	return *p, true
}

// Panels returns copies of all records in insertion order.
func (e *Engine) Panels() []Panel {
	out := make([]Panel, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.panels[id])
	}
	return out
}

// Dragged returns the id of the panel holding the drag claim, or "".
func (e *Engine) Dragged() string { return e.dragged }

// PanelSize returns the estimated box every panel occupies.
func (e *Engine) PanelSize() geom.Vec {
	s := e.cfg.Size
	return geom.Vec{
		X: math.Max(e.viewport.X*s.WidthFraction, s.MinWidth),
		Y: math.Max(e.viewport.Y*s.HeightFraction, s.MinHeight),
	}
}

// Rect returns the on-screen rectangle of a panel.
func (e *Engine) Rect(id string) (geom.Rect, bool) {
	p, ok := e.panels[id]
	if !ok {
		return geom.Rect{}, false
	}
	return geom.RectAt(p.Position, e.PanelSize()), true
}

// Tick is the scheduler entry point. Integration runs on every
// UpdateEvery-th call with the accumulated delta, clamped to MaxStep.
func (e *Engine) Tick(dt float64) {
	if !e.cadence.Due() {
		return
	}
	step := dt * float64(e.cadence.Every)
	if e.cfg.MaxStep > 0 && step > e.cfg.MaxStep {
		step = e.cfg.MaxStep
	}
	e.Step(step)
}

// Step integrates every free panel by dt seconds and then applies soft
// repulsion. Motion per step is expressed relative to MaxStep, so a step of
// MaxStep advances exactly one reference frame.
func (e *Engine) Step(dt float64) {
	if dt <= 0 {
		return
	}
	f := 1.0
	if e.cfg.MaxStep > 0 {
		f = dt / e.cfg.MaxStep
	}
	damp := math.Pow(e.cfg.Damping, f)

	for _, id := range e.order {
		p := e.panels[id]
		if p.Dragging || p.PhysicsDisabled || !p.Moving {
			continue
		}
		e.integrate(p, f, damp)
	}

	e.ResolveCollisions()
}

func (e *Engine) integrate(p *Panel, f, damp float64) {
	d := p.Anchor.Sub(p.Position)
	if d.Len() > e.cfg.DeadZone {
		force := d.Scale(e.cfg.Stiffness)
		p.Velocity = p.Velocity.Add(force.Scale(f / p.Mass))
	}

	p.Velocity = p.Velocity.Scale(damp)

	if math.Abs(p.Velocity.X) < e.cfg.MinVelocity && math.Abs(p.Velocity.Y) < e.cfg.MinVelocity {
		p.Velocity = geom.Vec{}
		p.AngularVelocity = 0
		p.Angle = 0
		p.Moving = false
		return
	}

	p.Position = p.Position.Add(p.Velocity.Scale(f))
	p.AngularVelocity *= phi.Inv
	p.Angle += p.AngularVelocity
	p.Angle *= (1 + phi.Inv) / 2
}

// Wake marks a panel as moving so the next step integrates it.
func (e *Engine) Wake(id string) {
	if p, ok := e.panels[id]; ok && !p.PhysicsDisabled {
		p.Moving = true
	}
}

// SetPhysicsDisabled freezes or releases a panel. It reports false for an
// unknown id.
func (e *Engine) SetPhysicsDisabled(id string, disabled bool) bool {
	p, ok := e.panels[id]
	if !ok {
		return false
	}
	p.PhysicsDisabled = disabled
	if disabled {
		p.Velocity = geom.Vec{}
		p.AngularVelocity = 0
	} else {
		p.Moving = true
	}
	return true
}

// ClearDragging drops the dragging flag on one panel, and the drag claim if
// that panel held it.
func (e *Engine) ClearDragging(id string) {
	p, ok := e.panels[id]
	if !ok {
		return
	}
	p.Dragging = false
	if e.dragged == id {
		e.dragged = ""
		e.window.clear()
	}
}

// ReleaseDragClaims clears every dragging flag and the drag claim.
func (e *Engine) ReleaseDragClaims() {
	for _, p := range e.panels {
		p.Dragging = false
	}
	if e.dragged != "" {
		e.log.Debug("released stuck drag claim", "panel", e.dragged)
	}
	e.dragged = ""
	e.window.clear()
}

// ResetFlags clears drag claims and physics suspension on every panel.
func (e *Engine) ResetFlags() {
	e.ReleaseDragClaims()
	for _, p := range e.panels {
		p.PhysicsDisabled = false
		p.Moving = true
	}
}
