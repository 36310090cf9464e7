package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/driftboard/internal/content"
	"github.com/olivier-w/driftboard/internal/expansion"
	"github.com/olivier-w/driftboard/internal/geom"
	"github.com/olivier-w/driftboard/internal/phi"
	"github.com/olivier-w/driftboard/internal/physics"
)

var starRunes = [...]rune{'.', '·', '*'}

func (m Model) drawStars(cv *canvas) {
	depth := sceneRadius * phi.Inv / 2
	for _, el := range m.bank.Elements() {
		if !el.Visible {
			continue
		}
		x := int(math.Round(float64(cv.w)/2 + el.Position.X/sceneRadius*float64(cv.w)/2))
		y := int(math.Round(float64(cv.h)/2 + el.Position.Y/sceneRadius*float64(cv.h)/2))
		t := geom.Clamp((el.Position.Z/depth+1)/2, 0, 1)
		r := starRunes[min(int(t*float64(len(starRunes))), len(starRunes)-1)]
		cv.set(x, y, r, starFar.BlendLab(starNear, t).Clamped())
	}
}

func (m Model) label(p physics.Panel) string {
	if f := m.cfg.Content.Content(p.ContentType); f.Title != "" {
		return f.Title
	}
	return p.ID
}

func (m Model) drawPanels(cv *canvas) {
	focused := m.focused()
	ids := m.engine.IDs()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	for _, id := range m.stage.drawOrder() {
		if !m.stage.visible(id) {
			continue
		}
		p, ok := m.engine.Panel(id)
		if !ok {
			continue
		}
		r, _ := m.engine.Rect(id)
		x, y, w, h := toCells(r)

		c := panelHue(index[id])
		b := thinBorder
		switch {
		case p.Dragging:
			b = thickBorder
		case p.PhysicsDisabled:
			b = dashBorder
		}
		if id == focused && m.machine.State() == expansion.Idle {
			c = focusColor(c)
		}
		cv.box(x, y, w, h, b, c)

		text := truncate(m.label(p), w-2)
		// A spinning panel's label leans with it.
		lean := int(geom.Clamp(math.Round(p.Angle/5), -1, 1))
		tx := x + (w-len([]rune(text)))/2 + lean
		cv.text(tx, y+h/2, text, c)
	}
}

func (m Model) drawOverlay(cv *canvas) {
	ov := m.machine.Overlay()
	if !ov.Visible {
		return
	}
	x, y, w, h := toCells(ov.Rect)
	cv.box(x, y, w, h, thinBorder, chrome)
	if title := truncate(ov.Fragment.Title, w-4); title != "" && h > 2 {
		cv.text(x+2, y+1, title, chrome)
	}
}

func (m Model) drawHeader(cv *canvas) {
	title := "d r i f t b o a r d"
	cv.text((cv.w-len(title))/2, 1, title, chrome)
}

func (m Model) hud() string {
	st := m.sched.Stats()
	drag := m.engine.Dragged()
	if drag == "" {
		drag = "-"
	}
	line := fmt.Sprintf("%5.1f fps  frame %d  %s  drag %s  tasks %d",
		st.FPS(), m.sched.FrameCount(), m.machine.State(), drag, m.sched.Pending())
	if s := m.machine.State(); s == expansion.Expanding || s == expansion.Collapsing {
		line += "  " + m.bar.ViewAs(m.machine.Overlay().Progress)
	}
	return hudStyle.Render(line)
}

// renderFragment lays out the scrollable part of an expanded fragment.
// The title is drawn above the viewport by titleBar.
func renderFragment(f content.Fragment, width int) string {
	var parts []string
	if f.Body != "" {
		parts = append(parts, bodyStyle.Width(max(width, 1)).Render(f.Body), "")
	}
	if f.Link != "" {
		parts = append(parts, linkStyle.Render(f.Link))
	}
	return strings.Join(parts, "\n")
}

const closeLabel = "[×]"

func titleBar(title string, width int) string {
	t := titleStyle.Render(truncate(title, width-len([]rune(closeLabel))-1))
	gap := width - lipgloss.Width(t) - len([]rune(closeLabel))
	return t + strings.Repeat(" ", max(gap, 1)) + helpStyle.Render(closeLabel)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
