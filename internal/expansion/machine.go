// Package expansion runs the expand/collapse lifecycle of a single panel:
// the panel freezes, an overlay morphs from its rectangle to the whole
// viewport, and later morphs back before the panel is released again.
package expansion

import (
	"log/slog"
	"time"

	"github.com/olivier-w/driftboard/internal/content"
	"github.com/olivier-w/driftboard/internal/geom"
	"github.com/olivier-w/driftboard/internal/scheduler"
)

// State is the expansion lifecycle phase.
type State uint8

const (
	Idle State = iota
	Expanding
	Expanded
	Collapsing
)

func (s State) String() string {
	switch s {
	case Expanding:
		return "expanding"
	case Expanded:
		return "expanded"
	case Collapsing:
		return "collapsing"
	default:
		return "idle"
	}
}

// Panels is the physics side of a panel set.
type Panels interface {
	Has(id string) bool
	IDs() []string
	SetPhysicsDisabled(id string, disabled bool) bool
	ClearDragging(id string)
	ReleaseDragClaims()
	ResetFlags()
}

// Presenter is the visual side: on-screen rectangles, visibility and
// pointer interactivity.
type Presenter interface {
	PanelRect(id string) (geom.Rect, bool)
	Viewport() geom.Rect
	SetPanelHidden(id string, hidden bool)
	SetChromeHidden(hidden bool)
	PanelInteractive(id string) bool
	SetPanelInteractive(id string, interactive bool)
}

// Deferrer schedules work for the next frame. scheduler.Scheduler
// implements it.
type Deferrer interface {
	NextFrame(fn func()) scheduler.Token
	Cancel(tok scheduler.Token) bool
}

// Listener observes state transitions.
type Listener interface {
	OnTransition(from, to State, panel string)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(from, to State, panel string)

func (f ListenerFunc) OnTransition(from, to State, panel string) { f(from, to, panel) }

// Overlay is the expanded-content surface.
type Overlay struct {
	Rect     geom.Rect
	Visible  bool
	Fragment content.Fragment
	// Progress is how far the current morph has travelled, in [0, 1].
	Progress float64
}

// Offscreen is where a hidden overlay is parked.
var Offscreen = geom.Rect{X: -10000, Y: -10000}

// Config tunes the morph spring.
type Config struct {
	// MorphDeadline forces a phase boundary if the spring has not settled.
	MorphDeadline time.Duration
	Frequency     float64
	Damping       float64
	// Tolerance is the settle threshold for both position and velocity.
	Tolerance float64
}

// DefaultConfig returns a critically damped morph with a 1.6 s ceiling.
func DefaultConfig() Config {
	return Config{
		MorphDeadline: 1600 * time.Millisecond,
		Frequency:     10,
		Damping:       1,
		Tolerance:     0.5,
	}
}

// Machine is the expansion state machine. Like the rest of the engine it is
// driven from the frame loop and is not safe for concurrent use.
type Machine struct {
	cfg      Config
	log      *slog.Logger
	panels   Panels
	stage    Presenter
	content  content.Provider
	deferrer Deferrer
	listener Listener

	state   State
	current string
	overlay Overlay
	morph   morph
	elapsed time.Duration
	opened  bool

	token   scheduler.Token
	pending bool

	interactive map[string]bool
}

// New creates an idle Machine.
func New(cfg Config, panels Panels, stage Presenter, provider content.Provider, deferrer Deferrer) *Machine {
	def := DefaultConfig()
	if cfg.MorphDeadline <= 0 {
		cfg.MorphDeadline = def.MorphDeadline
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = def.Frequency
	}
	if cfg.Damping <= 0 {
		cfg.Damping = def.Damping
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	return &Machine{
		cfg:      cfg,
		log:      slog.Default(),
		panels:   panels,
		stage:    stage,
		content:  provider,
		deferrer: deferrer,
		overlay:  Overlay{Rect: Offscreen},
		morph:    newMorph(cfg.Frequency, cfg.Damping, cfg.Tolerance),
	}
}

// SetLogger replaces the logger; nil restores slog.Default().
func (m *Machine) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	m.log = l
}

// SetListener installs a transition observer; nil removes it.
func (m *Machine) SetListener(l Listener) { m.listener = l }

// State returns the current phase.
func (m *Machine) State() State { return m.state }

// Current returns the expanded panel id, or "" when idle.
func (m *Machine) Current() string { return m.current }

// Overlay returns the overlay as it should be drawn this frame.
func (m *Machine) Overlay() Overlay { return m.overlay }

// Busy reports whether panel input should be blocked.
func (m *Machine) Busy() bool { return m.state != Idle }

// Expand starts expanding panel id with the content for kind. It is a no-op
// returning false unless the machine is idle and the panel exists. Any drag
// in progress is released before the panel is frozen.
func (m *Machine) Expand(id, kind string) bool {
	if m.state != Idle {
		m.log.Debug("expand ignored", "panel", id, "state", m.state)
		return false
	}
	if !m.panels.Has(id) {
		m.log.Debug("expand ignored: unknown panel", "panel", id)
		return false
	}
	rect, ok := m.stage.PanelRect(id)
	if !ok {
		m.log.Debug("expand ignored: panel has no rect", "panel", id)
		return false
	}

	m.panels.ReleaseDragClaims()
	m.panels.SetPhysicsDisabled(id, true)
	m.current = id
	m.overlay = Overlay{
		Rect:     rect,
		Visible:  true,
		Fragment: m.content.Content(kind),
	}
	m.morph.jump(rect)

	m.interactive = make(map[string]bool)
	for _, pid := range m.panels.IDs() {
		m.interactive[pid] = m.stage.PanelInteractive(pid)
		m.stage.SetPanelInteractive(pid, false)
	}

	m.elapsed = 0
	m.opened = false
	m.transition(Expanding)
	// The overlay must be drawn at the panel rect for one frame before the
	// morph starts.
	m.token = m.deferrer.NextFrame(m.open)
	m.pending = true
	return true
}

func (m *Machine) open() {
	m.pending = false
	if m.state != Expanding || m.opened {
		return
	}
	m.opened = true
	m.morph.retarget(m.stage.Viewport())
	// The overlay stands in for the expanded panel until finalize.
	m.stage.SetPanelHidden(m.current, true)
	m.setSiblingsHidden(true)
}

func (m *Machine) setSiblingsHidden(hidden bool) {
	for _, pid := range m.panels.IDs() {
		if pid != m.current {
			m.stage.SetPanelHidden(pid, hidden)
		}
	}
	m.stage.SetChromeHidden(hidden)
}

// Collapse starts collapsing the expanded panel. It is a no-op returning
// false unless the machine is expanded.
func (m *Machine) Collapse() bool {
	if m.state != Expanded {
		m.log.Debug("collapse ignored", "state", m.state)
		return false
	}
	m.panels.ReleaseDragClaims()

	rect, ok := m.stage.PanelRect(m.current)
	if !ok || !m.panels.Has(m.current) {
		m.log.Warn("collapse target missing, cleaning up", "panel", m.current)
		m.setSiblingsHidden(false)
		m.finalize()
		return true
	}

	m.morph.retarget(rect)
	m.setSiblingsHidden(false)
	m.elapsed = 0
	m.transition(Collapsing)
	return true
}

// Step advances the morph by dt seconds and crosses a phase boundary when
// the morph settles or the deadline passes.
func (m *Machine) Step(dt float64) {
	if m.state != Expanding && m.state != Collapsing {
		return
	}
	m.elapsed += time.Duration(dt * float64(time.Second))
	m.morph.step(dt)
	m.overlay.Rect = m.morph.rect()
	m.overlay.Progress = m.morph.progress()

	switch m.state {
	case Expanding:
		if !m.opened {
			if m.elapsed < m.cfg.MorphDeadline {
				return
			}
			m.log.Warn("morph-open never ran, forcing", "panel", m.current)
			m.cancelPending()
			m.open()
		}
		if m.morph.settled() || m.overDeadline() {
			m.morph.jump(m.stage.Viewport())
			m.overlay.Rect = m.morph.rect()
			m.overlay.Progress = 1
			m.transition(Expanded)
		}
	case Collapsing:
		if m.morph.settled() || m.overDeadline() {
			m.finalize()
		}
	}
}

// Tick implements scheduler.Stepper.
func (m *Machine) Tick(dt float64) { m.Step(dt) }

func (m *Machine) overDeadline() bool {
	if m.elapsed >= m.cfg.MorphDeadline {
		m.log.Debug("morph deadline reached", "panel", m.current, "state", m.state)
		return true
	}
	return false
}

func (m *Machine) finalize() {
	id := m.current
	m.overlay = Overlay{Rect: Offscreen}
	for pid, was := range m.interactive {
		m.stage.SetPanelInteractive(pid, was)
	}
	m.interactive = nil
	m.stage.SetPanelHidden(id, false)
	m.panels.SetPhysicsDisabled(id, false)
	m.panels.ClearDragging(id)
	m.transition(Idle)
	m.current = ""
}

func (m *Machine) cancelPending() {
	if m.pending {
		m.deferrer.Cancel(m.token)
		m.pending = false
	}
}

// Reset forces every panel and the machine back to a clean idle state,
// whatever phase it was in.
func (m *Machine) Reset() {
	m.cancelPending()
	m.panels.ResetFlags()
	for _, pid := range m.panels.IDs() {
		m.stage.SetPanelHidden(pid, false)
		m.stage.SetPanelInteractive(pid, true)
	}
	m.stage.SetChromeHidden(false)
	m.overlay = Overlay{Rect: Offscreen}
	m.interactive = nil
	m.opened = false
	m.elapsed = 0
	if m.state != Idle {
		m.transition(Idle)
	}
	m.current = ""
	m.log.Info("expansion state reset")
}

func (m *Machine) transition(to State) {
	from := m.state
	m.state = to
	m.log.Info("expansion transition", "from", from, "to", to, "panel", m.current)
	if m.listener != nil {
		m.listener.OnTransition(from, to, m.current)
	}
}
