package expansion

import (
	"testing"
	"time"

	"github.com/olivier-w/driftboard/internal/content"
	"github.com/olivier-w/driftboard/internal/geom"
	"github.com/olivier-w/driftboard/internal/physics"
	"github.com/olivier-w/driftboard/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStage struct {
	rects       map[string]geom.Rect
	hidden      map[string]bool
	interactive map[string]bool
	chrome      bool
	viewport    geom.Rect
}

func newFakeStage() *fakeStage {
	return &fakeStage{
		rects: map[string]geom.Rect{
			"a": {X: 100, Y: 100, W: 180, H: 240},
			"b": {X: 400, Y: 200, W: 180, H: 240},
		},
		hidden:      map[string]bool{},
		interactive: map[string]bool{"a": true, "b": false},
		viewport:    geom.Rect{W: 800, H: 600},
	}
}

func (s *fakeStage) PanelRect(id string) (geom.Rect, bool) {
	r, ok := s.rects[id]
	return r, ok
}
func (s *fakeStage) Viewport() geom.Rect                    { return s.viewport }
func (s *fakeStage) SetPanelHidden(id string, hidden bool)  { s.hidden[id] = hidden }
func (s *fakeStage) SetChromeHidden(hidden bool)            { s.chrome = hidden }
func (s *fakeStage) PanelInteractive(id string) bool        { return s.interactive[id] }
func (s *fakeStage) SetPanelInteractive(id string, on bool) { s.interactive[id] = on }

type fixture struct {
	engine *physics.Engine
	stage  *fakeStage
	sched  *scheduler.Scheduler
	m      *Machine
	now    time.Time
	events []string
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		engine: physics.New(physics.DefaultConfig(), geom.Vec{X: 800, Y: 600}),
		stage:  newFakeStage(),
		sched:  scheduler.New(),
		now:    time.Unix(1000, 0),
	}
	f.engine.Add("a", "research", geom.Vec{X: 10, Y: 40})
	f.engine.Add("b", "join", geom.Vec{X: 60, Y: 40})
	f.m = New(cfg, f.engine, f.stage, content.DefaultCatalog(), f.sched)
	f.m.SetListener(ListenerFunc(func(from, to State, panel string) {
		f.events = append(f.events, from.String()+">"+to.String()+":"+panel)
	}))
	f.sched.Add(f.m)
	return f
}

func (f *fixture) frame() {
	f.sched.Frame(f.now)
	f.now = f.now.Add(time.Second / 60)
}

func (f *fixture) runUntil(t *testing.T, want State) {
	t.Helper()
	for range 600 {
		if f.m.State() == want {
			return
		}
		f.frame()
	}
	t.Fatalf("never reached %s, stuck in %s", want, f.m.State())
}

func TestExpandRejectsUnknownPanel(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	assert.False(t, f.m.Expand("ghost", "research"))
	assert.Equal(t, Idle, f.m.State())
	assert.Zero(t, f.sched.Pending())
}

func TestExpandCollapseRoundTrip(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	require.True(t, f.m.Expand("a", "research"))
	assert.Equal(t, Expanding, f.m.State())
	assert.Equal(t, "a", f.m.Current())

	p, _ := f.engine.Panel("a")
	assert.True(t, p.PhysicsDisabled)
	assert.False(t, f.stage.interactive["a"])
	assert.False(t, f.stage.interactive["b"])

	ov := f.m.Overlay()
	assert.True(t, ov.Visible)
	assert.Equal(t, f.stage.rects["a"], ov.Rect)
	assert.Equal(t, "Research Projects", ov.Fragment.Title)
	assert.False(t, f.stage.hidden["b"], "siblings stay until the next frame")

	f.frame()
	assert.True(t, f.stage.hidden["b"])
	assert.True(t, f.stage.hidden["a"], "overlay replaces the panel")
	assert.True(t, f.stage.chrome)

	f.runUntil(t, Expanded)
	assert.Equal(t, f.stage.viewport, f.m.Overlay().Rect)
	assert.InDelta(t, 1, f.m.Overlay().Progress, 1e-9)

	require.True(t, f.m.Collapse())
	assert.Equal(t, Collapsing, f.m.State())
	assert.False(t, f.stage.hidden["b"])
	assert.True(t, f.stage.hidden["a"])
	assert.False(t, f.stage.chrome)

	f.runUntil(t, Idle)
	assert.False(t, f.stage.hidden["a"])
	assert.Empty(t, f.m.Current())
	assert.False(t, f.m.Overlay().Visible)
	assert.Equal(t, Offscreen, f.m.Overlay().Rect)

	p, _ = f.engine.Panel("a")
	assert.False(t, p.PhysicsDisabled)
	assert.False(t, p.Dragging)
	assert.True(t, f.stage.interactive["a"], "interactivity restored from snapshot")
	assert.False(t, f.stage.interactive["b"], "interactivity restored from snapshot")

	assert.Equal(t, []string{
		"idle>expanding:a",
		"expanding>expanded:a",
		"expanded>collapsing:a",
		"collapsing>idle:a",
	}, f.events)
}

func TestOnlyOnePanelExpandsAtATime(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	require.True(t, f.m.Expand("a", "research"))
	assert.False(t, f.m.Expand("b", "join"))

	f.runUntil(t, Expanded)
	assert.False(t, f.m.Expand("b", "join"))
	assert.Equal(t, "a", f.m.Current())

	p, _ := f.engine.Panel("b")
	assert.False(t, p.PhysicsDisabled)
}

func TestCollapseRequiresExpanded(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	assert.False(t, f.m.Collapse())

	require.True(t, f.m.Expand("a", "research"))
	assert.False(t, f.m.Collapse(), "collapse while expanding is ignored")
	assert.Equal(t, Expanding, f.m.State())
}

func TestCollapseWithMissingTargetCleansUp(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	require.True(t, f.m.Expand("a", "research"))
	f.runUntil(t, Expanded)

	delete(f.stage.rects, "a")
	require.True(t, f.m.Collapse())
	assert.Equal(t, Idle, f.m.State())
	assert.Empty(t, f.m.Current())
	assert.False(t, f.stage.hidden["a"])
	assert.False(t, f.stage.hidden["b"])
	assert.False(t, f.stage.chrome)
	assert.True(t, f.stage.interactive["a"])
	assert.False(t, f.m.Overlay().Visible)

	p, _ := f.engine.Panel("a")
	assert.False(t, p.PhysicsDisabled)
}

func TestCollapseReleasesStuckDragClaims(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	require.True(t, f.m.Expand("a", "research"))
	f.runUntil(t, Expanded)

	require.True(t, f.engine.BeginDrag("b", geom.Vec{X: 500, Y: 300}))
	require.True(t, f.m.Collapse())
	assert.Empty(t, f.engine.Dragged())
	p, _ := f.engine.Panel("b")
	assert.False(t, p.Dragging)
}

func TestExpandReleasesDragOnTarget(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	require.True(t, f.engine.BeginDrag("a", geom.Vec{X: 120, Y: 130}))
	before, _ := f.engine.Panel("a")

	require.True(t, f.m.Expand("a", "research"))
	assert.Empty(t, f.engine.Dragged())

	p, _ := f.engine.Panel("a")
	assert.False(t, p.Dragging)
	assert.True(t, p.PhysicsDisabled)

	f.engine.UpdateDragPosition(geom.Vec{X: 320, Y: 180})
	p, _ = f.engine.Panel("a")
	assert.Equal(t, before.Position, p.Position, "frozen panel must not follow the pointer")
}

func TestResetCancelsPendingMorph(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	require.True(t, f.m.Expand("a", "research"))
	require.Equal(t, 1, f.sched.Pending())

	f.m.Reset()
	assert.Zero(t, f.sched.Pending())
	assert.Equal(t, Idle, f.m.State())
	assert.Empty(t, f.m.Current())
	assert.True(t, f.stage.interactive["a"])
	assert.True(t, f.stage.interactive["b"])

	f.frame()
	assert.False(t, f.stage.hidden["b"], "cancelled morph-open must not run")
	assert.False(t, f.stage.chrome)

	p, _ := f.engine.Panel("a")
	assert.False(t, p.PhysicsDisabled)
	assert.True(t, f.m.Expand("b", "join"), "machine usable after reset")
}

func TestResetFromExpanded(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	require.True(t, f.m.Expand("a", "research"))
	f.runUntil(t, Expanded)

	f.m.Reset()
	assert.Equal(t, Idle, f.m.State())
	assert.False(t, f.stage.hidden["b"])
	assert.Equal(t, Offscreen, f.m.Overlay().Rect)
	assert.Equal(t, "expanded>idle:a", f.events[len(f.events)-1])
}

func TestDeadlineForcesPhaseBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frequency = 0.01
	cfg.MorphDeadline = 100 * time.Millisecond
	f := newFixture(t, cfg)

	require.True(t, f.m.Expand("a", "research"))
	for range 5 {
		f.frame()
	}
	assert.Equal(t, Expanding, f.m.State())
	for range 5 {
		f.frame()
	}
	assert.Equal(t, Expanded, f.m.State())
	assert.Equal(t, f.stage.viewport, f.m.Overlay().Rect)

	require.True(t, f.m.Collapse())
	for range 10 {
		f.frame()
	}
	assert.Equal(t, Idle, f.m.State())
}

type stalledDeferrer struct{ cancelled []scheduler.Token }

func (d *stalledDeferrer) NextFrame(func()) scheduler.Token { return 7 }
func (d *stalledDeferrer) Cancel(tok scheduler.Token) bool {
	d.cancelled = append(d.cancelled, tok)
	return true
}

func TestMorphOpenIsForcedWhenFrameNeverComes(t *testing.T) {
	engine := physics.New(physics.DefaultConfig(), geom.Vec{X: 800, Y: 600})
	engine.Add("a", "research", geom.Vec{X: 10, Y: 40})
	engine.Add("b", "join", geom.Vec{X: 60, Y: 40})
	stage := newFakeStage()
	d := &stalledDeferrer{}
	m := New(DefaultConfig(), engine, stage, content.DefaultCatalog(), d)

	require.True(t, m.Expand("a", "research"))
	for range 200 {
		m.Step(1.0 / 60)
		if m.State() == Expanded {
			break
		}
	}
	assert.Equal(t, Expanded, m.State())
	assert.Equal(t, []scheduler.Token{7}, d.cancelled)
	assert.True(t, stage.hidden["b"])
}
