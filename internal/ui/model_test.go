package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/driftboard/internal/expansion"
	"github.com/olivier-w/driftboard/internal/geom"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestModel(t *testing.T) (Model, *testClock) {
	t.Helper()
	clk := &testClock{now: time.Unix(5000, 0)}
	m := New(DefaultConfig())
	m.clock = clk.Now
	return m, clk
}

func panelCell(t *testing.T, m Model, id string) (int, int) {
	t.Helper()
	r, ok := m.engine.Rect(id)
	if !ok {
		t.Fatalf("no rect for %q", id)
	}
	c := r.Center()
	return int(c.X / cellWidth), int(c.Y / cellHeight)
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func runFrames(m Model, clk *testClock, n int, until func(Model) bool) Model {
	for range n {
		if until != nil && until(m) {
			return m
		}
		m, _ = m.handleMsg(frameMsg(clk.now))
		clk.Advance(time.Second / 60)
	}
	return m
}

func stateIs(s expansion.State) func(Model) bool {
	return func(m Model) bool { return m.machine.State() == s }
}

func TestNewKeepsPanelsBelowHeader(t *testing.T) {
	m, _ := newTestModel(t)
	for _, p := range m.engine.Panels() {
		if p.Anchor.Y < headerRows*cellHeight {
			t.Fatalf("panel %s anchored inside the header at y=%v", p.ID, p.Anchor.Y)
		}
	}
	if got := len(m.stars); got != DefaultConfig().Stars {
		t.Fatalf("expected %d stars, got %d", DefaultConfig().Stars, got)
	}
}

func TestTapOnPanelExpandsIt(t *testing.T) {
	m, clk := newTestModel(t)
	x, y := panelCell(t, m, "research")

	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft))
	if m.engine.Dragged() != "research" {
		t.Fatalf("expected research to hold the drag claim, got %q", m.engine.Dragged())
	}
	clk.Advance(50 * time.Millisecond)
	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionRelease, tea.MouseButtonLeft))

	if m.machine.State() != expansion.Expanding {
		t.Fatalf("expected expanding, got %s", m.machine.State())
	}
	if m.engine.Dragged() != "" {
		t.Fatal("expected drag claim released")
	}

	m = runFrames(m, clk, 300, stateIs(expansion.Expanded))
	if m.machine.State() != expansion.Expanded {
		t.Fatalf("expected expanded, got %s", m.machine.State())
	}
	if m.shown != "research" {
		t.Fatalf("expected research content loaded, got %q", m.shown)
	}
	if view := m.View(); !strings.Contains(view, "Research Projects") {
		t.Fatal("expected expanded view to show the fragment title")
	}
}

func TestSlowPressIsNotATap(t *testing.T) {
	m, clk := newTestModel(t)
	x, y := panelCell(t, m, "research")

	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft))
	clk.Advance(400 * time.Millisecond)
	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionRelease, tea.MouseButtonLeft))

	if m.machine.State() != expansion.Idle {
		t.Fatalf("expected idle after a long press, got %s", m.machine.State())
	}
}

func TestDragReleaseFlingsPanel(t *testing.T) {
	m, clk := newTestModel(t)
	x, y := panelCell(t, m, "join")

	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft))
	clk.Advance(50 * time.Millisecond)
	m, _ = m.handleMsg(mouse(x+5, y, tea.MouseActionMotion, tea.MouseButtonLeft))
	clk.Advance(50 * time.Millisecond)
	m, _ = m.handleMsg(mouse(x+10, y, tea.MouseActionMotion, tea.MouseButtonLeft))
	clk.Advance(200 * time.Millisecond)
	m, _ = m.handleMsg(mouse(x+10, y, tea.MouseActionRelease, tea.MouseButtonNone))

	p, _ := m.engine.Panel("join")
	if p.Dragging {
		t.Fatal("expected dragging cleared on release")
	}
	if p.Velocity.X <= 0 {
		t.Fatalf("expected rightward release velocity, got %v", p.Velocity)
	}
	if m.machine.State() != expansion.Idle {
		t.Fatalf("a drag must not expand, got %s", m.machine.State())
	}
	if m.focused() != "join" {
		t.Fatalf("expected focus to follow the pressed panel, got %q", m.focused())
	}
}

func TestScrollCancelsGesture(t *testing.T) {
	m, _ := newTestModel(t)
	x, y := panelCell(t, m, "leadership")

	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft))
	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionPress, tea.MouseButtonWheelDown))
	if m.gestures.Active() {
		t.Fatal("expected scroll to cancel the gesture")
	}
	if m.engine.Dragged() != "" {
		t.Fatal("expected scroll to release the drag claim")
	}

	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionRelease, tea.MouseButtonLeft))
	if m.machine.State() != expansion.Idle {
		t.Fatalf("expected the stray release to be ignored, got %s", m.machine.State())
	}
}

func TestPanelsIgnorePointerWhileExpanded(t *testing.T) {
	m, clk := newTestModel(t)
	x, y := panelCell(t, m, "leadership")
	if !m.machine.Expand("research", "research") {
		t.Fatal("expected expand to start")
	}
	m = runFrames(m, clk, 300, stateIs(expansion.Expanded))

	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft))
	if m.engine.Dragged() != "" {
		t.Fatal("expected no drag while expanded")
	}
	if m.machine.Current() != "research" {
		t.Fatalf("expected research to stay expanded, got %q", m.machine.Current())
	}
}

func TestEscCollapsesAndCloseButtonWorks(t *testing.T) {
	m, clk := newTestModel(t)
	m.machine.Expand("research", "research")
	m = runFrames(m, clk, 300, stateIs(expansion.Expanded))

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyEsc})
	if m.machine.State() != expansion.Collapsing {
		t.Fatalf("expected collapsing, got %s", m.machine.State())
	}
	m = runFrames(m, clk, 300, stateIs(expansion.Idle))

	m.machine.Expand("join", "join")
	m = runFrames(m, clk, 300, stateIs(expansion.Expanded))
	m, _ = m.handleMsg(mouse(m.stage.cols-5, 2, tea.MouseActionPress, tea.MouseButtonLeft))
	if m.machine.State() != expansion.Collapsing {
		t.Fatalf("expected close button to collapse, got %s", m.machine.State())
	}
}

func TestKeyboardOpenExpandsFocusedPanel(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyTab})
	if m.focused() != "research" {
		t.Fatalf("expected research focused, got %q", m.focused())
	}
	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyEnter})
	if m.machine.Current() != "research" {
		t.Fatalf("expected research expanding, got %q", m.machine.Current())
	}

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focused() != "research" {
		t.Fatal("focus must not move while a panel is open")
	}
}

func TestKeyboardOpenIgnoredWhilePointerHeld(t *testing.T) {
	m, clk := newTestModel(t)
	x, y := panelCell(t, m, "research")

	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft))
	if m.focused() != "research" {
		t.Fatalf("expected press to focus research, got %q", m.focused())
	}
	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyEnter})
	if m.machine.State() != expansion.Idle {
		t.Fatalf("expected enter to be ignored mid-press, got %s", m.machine.State())
	}
	p, _ := m.engine.Panel("research")
	if p.PhysicsDisabled {
		t.Fatal("held panel must not be frozen")
	}
	if m.engine.Dragged() != "research" {
		t.Fatalf("expected research to keep the drag claim, got %q", m.engine.Dragged())
	}

	clk.Advance(50 * time.Millisecond)
	m, _ = m.handleMsg(mouse(x, y, tea.MouseActionRelease, tea.MouseButtonLeft))
	if m.machine.Current() != "research" {
		t.Fatalf("expected the release tap to expand research, got %q", m.machine.Current())
	}
	if m.gestures.Active() {
		t.Fatal("gesture should be finished")
	}
}

func TestResetKeyRestoresEverything(t *testing.T) {
	m, clk := newTestModel(t)
	m.machine.Expand("research", "research")
	m = runFrames(m, clk, 3, nil)

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.machine.State() != expansion.Idle {
		t.Fatalf("expected idle after reset, got %s", m.machine.State())
	}
	for _, id := range m.engine.IDs() {
		if !m.stage.PanelInteractive(id) || !m.stage.visible(id) {
			t.Fatalf("expected %s visible and interactive", id)
		}
	}
	if m.stage.chromeHidden {
		t.Fatal("expected chrome visible")
	}
}

func TestResizeIsDebounced(t *testing.T) {
	m, clk := newTestModel(t)

	m, _ = m.handleMsg(tea.WindowSizeMsg{Width: 100, Height: 40})
	want := geom.Vec{X: 100 * cellWidth, Y: 39 * cellHeight}
	if m.engine.Viewport() != want {
		t.Fatalf("expected first size applied immediately, got %v", m.engine.Viewport())
	}

	m, _ = m.handleMsg(tea.WindowSizeMsg{Width: 120, Height: 40})
	clk.Advance(50 * time.Millisecond)
	m, _ = m.handleMsg(frameMsg(clk.now))
	if m.engine.Viewport() != want {
		t.Fatalf("expected resize held during the quiet period, got %v", m.engine.Viewport())
	}

	clk.Advance(60 * time.Millisecond)
	m, _ = m.handleMsg(frameMsg(clk.now))
	want = geom.Vec{X: 120 * cellWidth, Y: 39 * cellHeight}
	if m.engine.Viewport() != want {
		t.Fatalf("expected resize applied after the quiet period, got %v", m.engine.Viewport())
	}
}

func TestViewShowsPanelsAndHUD(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	if !strings.Contains(view, "Leadership") {
		t.Fatal("expected panel label in view")
	}

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if !strings.Contains(m.View(), "fps") {
		t.Fatal("expected debug HUD in view")
	}
}

func TestQuitReturnsEmptyView(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := m.handleMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Research Projects", 10); got != "Research …" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncate("Join", 10); got != "Join" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if truncate("x", 0) != "" {
		t.Fatal("expected empty for zero width")
	}
}
