package physics

import (
	"github.com/olivier-w/driftboard/internal/geom"
	"github.com/olivier-w/driftboard/internal/phi"
)

// BeginDrag claims the drag for id. The first drag wins: the call is
// rejected while another panel holds the claim, for unknown ids, and for
// physics-disabled panels.
func (e *Engine) BeginDrag(id string, pointer geom.Vec) bool {
	p, ok := e.panels[id]
	if !ok {
		return false
	}
	if e.dragged != "" {
		e.log.Debug("drag rejected", "panel", id, "holder", e.dragged)
		return false
	}
	if p.PhysicsDisabled {
		e.log.Debug("drag rejected on frozen panel", "panel", id)
		return false
	}

	e.dragged = id
	e.dragOffset = pointer.Sub(p.Position)
	e.window.clear()

	p.Dragging = true
	p.Moving = true
	p.Velocity = geom.Vec{}
	p.AngularVelocity = 0
	return true
}

// UpdateDragPosition moves the dragged panel under the pointer and records
// the displacement for release velocity estimation. A frozen panel stays put.
func (e *Engine) UpdateDragPosition(pointer geom.Vec) {
	p, ok := e.panels[e.dragged]
	if !ok || !p.Dragging || p.PhysicsDisabled {
		return
	}
	next := pointer.Sub(e.dragOffset)
	e.window.push(next.Sub(p.Position))
	p.Position = next
}

// EndDrag releases the drag claim. When fling is set the panel inherits the
// averaged recent drag displacement as velocity; otherwise it is left for
// the spring to settle. It returns the released panel id.
func (e *Engine) EndDrag(fling bool) (string, bool) {
	id := e.dragged
	p, ok := e.panels[id]
	e.dragged = ""
	if !ok {
		e.window.clear()
		return "", false
	}

	p.Dragging = false
	if fling {
		if avg, ok := e.window.mean(); ok {
			p.Velocity = avg.Scale(e.cfg.ReleaseScale)
			p.AngularVelocity = p.Velocity.X * phi.Inv * 0.1
		}
	}
	e.window.clear()
	return id, true
}
