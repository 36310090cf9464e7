package ui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/driftboard/internal/content"
	"github.com/olivier-w/driftboard/internal/cue"
	"github.com/olivier-w/driftboard/internal/expansion"
	"github.com/olivier-w/driftboard/internal/gesture"
	"github.com/olivier-w/driftboard/internal/harmonic"
	"github.com/olivier-w/driftboard/internal/physics"
	"github.com/olivier-w/driftboard/internal/scheduler"
)

const (
	defaultCols = 80
	defaultRows = 24
	headerRows  = 3
	footerRows  = 1
	sceneRadius = 100.0
	// titleRows is the fixed title bar above the expanded viewport.
	titleRows = 2
)

// Config bundles the tuning of every component the model drives.
type Config struct {
	FPS         int
	Panels      []PanelSpec
	Physics     physics.Config
	Gesture     gesture.Config
	Harmonic    harmonic.Config
	Expansion   expansion.Config
	ResizeQuiet time.Duration
	Stars       int
	Simplex     bool
	Debug       bool
	Content     content.Provider
	Cues        *cue.Cues
	Logger      *slog.Logger
}

// DefaultConfig returns the terminal tuning. Panels are smaller than the
// pixel reference since a terminal viewport is only a few hundred
// "pixels" wide.
func DefaultConfig() Config {
	pc := physics.DefaultConfig()
	pc.Size.MinWidth = 12 * cellWidth
	pc.Size.MinHeight = 6 * cellHeight
	return Config{
		FPS:         60,
		Panels:      DefaultPanels(),
		Physics:     pc,
		Gesture:     gesture.DefaultConfig(),
		Harmonic:    harmonic.DefaultConfig(),
		Expansion:   expansion.DefaultConfig(),
		ResizeQuiet: 100 * time.Millisecond,
		Stars:       60,
		Content:     content.DefaultCatalog(),
	}
}

// Model is the Bubbletea model for the driftboard TUI.
type Model struct {
	cfg  Config
	log  *slog.Logger
	keys keyMap
	help help.Model
	view viewport.Model
	bar  progress.Model

	engine   *physics.Engine
	stage    *stage
	bank     *harmonic.System
	stars    []int
	machine  *expansion.Machine
	sched    *scheduler.Scheduler
	gestures *gesture.Classifier
	resize   *scheduler.Debouncer
	cues     *cue.Cues

	clock func() time.Time

	sized    bool
	pending  tea.WindowSizeMsg
	shown    string
	focus    int
	debug    bool
	quitting bool
}

// New wires the simulators, the expansion machine and the frame scheduler.
func New(cfg Config) Model {
	def := DefaultConfig()
	if cfg.FPS < 1 {
		cfg.FPS = def.FPS
	}
	if len(cfg.Panels) == 0 {
		cfg.Panels = def.Panels
	}
	if cfg.Content == nil {
		cfg.Content = def.Content
	}
	if cfg.ResizeQuiet <= 0 {
		cfg.ResizeQuiet = def.ResizeQuiet
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	cues := cfg.Cues
	if cues == nil {
		cues = cue.New(nil, cue.Nop{}, log)
	}

	st := newStage(nil, defaultCols, defaultRows-footerRows)
	engine := physics.New(cfg.Physics, st.pixelSize())
	engine.SetLogger(log.With("component", "physics"))
	engine.SetSafeZone(headerRows * cellHeight)
	st.engine = engine

	for _, p := range cfg.Panels {
		engine.Add(p.ID, p.Kind, p.Origin)
	}

	bank := harmonic.New(cfg.Harmonic)
	stars := bank.PopulateScene(cfg.Stars, sceneRadius, cfg.Simplex)

	sched := scheduler.New(bank, engine)
	machine := expansion.New(cfg.Expansion, engine, st, cfg.Content, sched)
	machine.SetLogger(log.With("component", "expansion"))
	machine.SetListener(expansion.ListenerFunc(func(from, to expansion.State, panel string) {
		cues.OnTransition(from, to, panel)
		// Stars behind a full-screen overlay are not worth evaluating.
		for _, id := range stars {
			bank.SetVisible(id, to != expansion.Expanded)
		}
	}))
	sched.Add(machine)

	h := help.New()
	h.Styles.ShortKey = helpStyle
	h.Styles.ShortDesc = helpStyle
	h.Styles.ShortSeparator = helpStyle

	return Model{
		cfg:  cfg,
		log:  log,
		keys: defaultKeyMap(),
		help: h,
		view: viewport.New(defaultCols-6, defaultRows-footerRows-4-titleRows),
		bar: progress.New(
			progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
			progress.WithoutPercentage(),
			progress.WithWidth(20),
		),
		engine:   engine,
		stage:    st,
		bank:     bank,
		stars:    stars,
		machine:  machine,
		sched:    sched,
		gestures: gesture.New(cfg.Gesture),
		resize:   scheduler.NewDebouncer(cfg.ResizeQuiet),
		cues:     cues,
		clock:    time.Now,
		debug:    cfg.Debug,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.cfg.FPS), tea.SetWindowTitle("driftboard"))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if !m.sized {
			m.sized = true
			m.applySize(msg.Width, msg.Height)
			return m, nil
		}
		m.pending = msg
		m.resize.Trigger(m.clock())
		return m, nil

	case frameMsg:
		now := time.Time(msg)
		m.sched.Frame(now)
		if m.resize.Poll(now) {
			m.applySize(m.pending.Width, m.pending.Height)
		}
		m.syncContent()
		return m, frameCmd(m.cfg.FPS)
	}
	return m, nil
}

func (m *Model) applySize(w, h int) {
	cols, rows := max(w, 20), max(h-footerRows, 8)
	m.stage.resize(cols, rows)
	m.engine.UpdateBounds(m.stage.pixelSize())
	m.view.Width = max(cols-6, 1)
	m.view.Height = max(rows-4-titleRows, 1)
	m.shown = ""
	m.syncContent()
}

// syncContent loads the expanded fragment into the viewport once the
// overlay covers the screen.
func (m *Model) syncContent() {
	if m.machine.State() != expansion.Expanded {
		m.shown = ""
		return
	}
	if m.shown == m.machine.Current() {
		return
	}
	m.shown = m.machine.Current()
	m.view.SetContent(renderFragment(m.machine.Overlay().Fragment, m.view.Width))
	m.view.GotoTop()
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Debug):
		m.debug = !m.debug
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.gestures.Scroll()
		m.machine.Reset()
		m.shown = ""
		return m, nil
	}

	switch m.machine.State() {
	case expansion.Expanded:
		if key.Matches(msg, m.keys.Close) {
			m.machine.Collapse()
			return m, nil
		}
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	case expansion.Idle:
		switch {
		case key.Matches(msg, m.keys.Next):
			m.moveFocus(1)
		case key.Matches(msg, m.keys.Prev):
			m.moveFocus(-1)
		case key.Matches(msg, m.keys.Open):
			if m.gestures.Active() {
				// the pointer still holds a panel
				return m, nil
			}
			id := m.focused()
			res := m.gestures.Handle(gesture.Event{
				Type:   gesture.Click,
				Source: gesture.Keyboard,
				Target: id,
				At:     m.clock(),
				Detail: 1,
			})
			if res.Kind == gesture.Tap {
				m.expand(res.Target)
			}
		}
	}
	return m, nil
}

func (m *Model) moveFocus(delta int) {
	n := len(m.engine.IDs())
	if n == 0 {
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
}

func (m Model) focused() string {
	ids := m.engine.IDs()
	if len(ids) == 0 {
		return ""
	}
	return ids[m.focus%len(ids)]
}

func (m *Model) focusOn(id string) {
	for i, pid := range m.engine.IDs() {
		if pid == id {
			m.focus = i
			return
		}
	}
}

func (m *Model) expand(id string) {
	if id == "" {
		return
	}
	if p, ok := m.engine.Panel(id); ok {
		m.machine.Expand(id, p.ContentType)
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch m.machine.State() {
	case expansion.Expanded:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.onCloseButton(msg.X, msg.Y) {
			m.machine.Collapse()
			return m, nil
		}
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	case expansion.Expanding, expansion.Collapsing:
		return m, nil
	}

	p := toPixel(msg.X, msg.Y)
	now := m.clock()

	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		if m.gestures.Active() {
			m.gestures.Handle(gesture.Event{Type: gesture.Scroll, At: now})
			m.engine.EndDrag(false)
		}

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		id := m.stage.hitTest(p)
		if id == "" || !m.engine.BeginDrag(id, p) {
			return m, nil
		}
		m.gestures.Handle(gesture.Event{Type: gesture.Down, Source: gesture.Mouse, Target: id, Pos: p, At: now})
		m.focusOn(id)

	case msg.Action == tea.MouseActionMotion:
		if m.gestures.Active() {
			m.gestures.Handle(gesture.Event{Type: gesture.Move, Pos: p, At: now})
			m.engine.UpdateDragPosition(p)
		}

	case msg.Action == tea.MouseActionRelease:
		if !m.gestures.Active() {
			return m, nil
		}
		m.engine.UpdateDragPosition(p)
		res := m.gestures.Handle(gesture.Event{Type: gesture.Up, Source: gesture.Mouse, Pos: p, At: now})
		switch res.Kind {
		case gesture.Tap:
			m.engine.EndDrag(false)
			m.expand(res.Target)
		case gesture.DragSettle:
			m.engine.EndDrag(true)
			m.cues.Play(cue.Release)
		default:
			m.engine.EndDrag(false)
		}
		m.log.Debug("gesture", "kind", res.Kind, "panel", res.Target, "elapsed", res.Elapsed, "displacement", res.Displacement)
	}
	return m, nil
}

// onCloseButton reports whether a cell lies on the expanded title bar's
// close label: inside the border and padding, right-aligned.
func (m Model) onCloseButton(x, y int) bool {
	right := m.stage.cols - 4
	return y == 2 && x <= right && x > right-len([]rune(closeLabel))-1
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.machine.State() == expansion.Expanded {
		return m.expandedView()
	}

	cv := newCanvas(m.stage.cols, m.stage.rows)
	m.drawStars(cv)
	m.drawPanels(cv)
	m.drawOverlay(cv)
	if !m.stage.chromeHidden {
		m.drawHeader(cv)
	}
	return cv.render(currentColorProfile()) + "\n" + m.footer()
}

func (m Model) footer() string {
	if m.debug {
		return m.hud()
	}
	if m.stage.chromeHidden {
		return ""
	}
	return m.help.View(m.keys)
}

func (m Model) expandedView() string {
	inner := titleBar(m.machine.Overlay().Fragment.Title, m.view.Width) + "\n\n" + m.view.View()
	box := overlayStyle.
		Width(max(m.stage.cols-2, 1)).
		Height(max(m.stage.rows-2, 1)).
		Render(inner)
	return box + "\n" + m.footer()
}
