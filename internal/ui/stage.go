package ui

import (
	"math"

	"github.com/olivier-w/driftboard/internal/geom"
	"github.com/olivier-w/driftboard/internal/physics"
)

// Terminal cells are mapped onto a pixel plane so the physics tuning keeps
// its pixel units.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// PanelSpec describes one navigation panel.
type PanelSpec struct {
	ID     string
	Kind   string
	Origin geom.Vec // percent of the viewport
}

// DefaultPanels returns the standard five-panel layout.
func DefaultPanels() []PanelSpec {
	return []PanelSpec{
		{ID: "leadership", Kind: "leadership", Origin: geom.Vec{X: 10, Y: 35}},
		{ID: "research", Kind: "research", Origin: geom.Vec{X: 40, Y: 30}},
		{ID: "workshops", Kind: "workshops", Origin: geom.Vec{X: 70, Y: 35}},
		{ID: "community", Kind: "community", Origin: geom.Vec{X: 20, Y: 65}},
		{ID: "join", Kind: "join", Origin: geom.Vec{X: 60, Y: 65}},
	}
}

// stage holds the presentation-side panel state: visibility, pointer
// interactivity and the cell grid size. It is the expansion presenter.
type stage struct {
	engine       *physics.Engine
	cols, rows   int
	hidden       map[string]bool
	inert        map[string]bool
	chromeHidden bool
}

func newStage(engine *physics.Engine, cols, rows int) *stage {
	return &stage{
		engine: engine,
		cols:   cols,
		rows:   rows,
		hidden: make(map[string]bool),
		inert:  make(map[string]bool),
	}
}

func (s *stage) resize(cols, rows int) {
	s.cols, s.rows = cols, rows
}

func (s *stage) pixelSize() geom.Vec {
	return geom.Vec{X: float64(s.cols) * cellWidth, Y: float64(s.rows) * cellHeight}
}

// toPixel maps the center of a cell to pixel coordinates.
func toPixel(col, row int) geom.Vec {
	return geom.Vec{X: (float64(col) + 0.5) * cellWidth, Y: (float64(row) + 0.5) * cellHeight}
}

// toCells maps a pixel rect onto the cell grid.
func toCells(r geom.Rect) (x, y, w, h int) {
	x = int(math.Round(r.X / cellWidth))
	y = int(math.Round(r.Y / cellHeight))
	w = int(math.Round(r.W / cellWidth))
	h = int(math.Round(r.H / cellHeight))
	return x, y, w, h
}

func (s *stage) PanelRect(id string) (geom.Rect, bool) {
	return s.engine.Rect(id)
}

func (s *stage) Viewport() geom.Rect {
	v := s.pixelSize()
	return geom.Rect{W: v.X, H: v.Y}
}

func (s *stage) SetPanelHidden(id string, hidden bool) { s.hidden[id] = hidden }

func (s *stage) SetChromeHidden(hidden bool) { s.chromeHidden = hidden }

func (s *stage) PanelInteractive(id string) bool { return !s.inert[id] }

func (s *stage) SetPanelInteractive(id string, interactive bool) { s.inert[id] = !interactive }

func (s *stage) visible(id string) bool { return !s.hidden[id] }

// drawOrder is the engine order with the dragged panel moved to the top.
func (s *stage) drawOrder() []string {
	ids := s.engine.IDs()
	top := s.engine.Dragged()
	if top == "" {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != top {
			out = append(out, id)
		}
	}
	return append(out, top)
}

// hitTest returns the topmost visible, interactive panel under p.
func (s *stage) hitTest(p geom.Vec) string {
	order := s.drawOrder()
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		if s.hidden[id] || s.inert[id] {
			continue
		}
		if r, ok := s.engine.Rect(id); ok && r.Contains(p) {
			return id
		}
	}
	return ""
}
