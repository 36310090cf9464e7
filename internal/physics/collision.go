package physics

import (
	"math"

	"github.com/olivier-w/driftboard/internal/geom"
)

// free reports whether a panel takes part in collision handling.
func free(p *Panel) bool {
	return !p.Dragging && !p.PhysicsDisabled
}

// ResolveCollisions applies a soft, symmetric repulsion impulse to every
// pair of free panels whose boxes overlap and whose origins sit closer than
// RepulsionReach panel widths. The impulse runs along the line from the
// first panel to the second; coincident panels separate along +x.
func (e *Engine) ResolveCollisions() {
	size := e.PanelSize()
	reach := size.X * e.cfg.RepulsionReach
	strength := e.cfg.RepulsionStrength

	for i := 0; i < len(e.order); i++ {
		a := e.panels[e.order[i]]
		if !free(a) {
			continue
		}
		for j := i + 1; j < len(e.order); j++ {
			b := e.panels[e.order[j]]
			if !free(b) {
				continue
			}
			d := b.Position.Sub(a.Position)
			if math.Abs(d.X) >= size.X || math.Abs(d.Y) >= size.Y {
				continue
			}
			if d.Len() >= reach {
				continue
			}

			angle := math.Atan2(d.Y, d.X)
			impulse := geom.Vec{X: math.Cos(angle) * strength, Y: math.Sin(angle) * strength}
			a.Velocity = a.Velocity.Sub(impulse)
			b.Velocity = b.Velocity.Add(impulse)
			a.Moving = true
			b.Moving = true
		}
	}
}

// ResolveOverlaps pushes overlapping free panels apart along the axis of
// least overlap, keeping both inside the viewport. It runs OverlapPasses
// passes so chains of overlaps untangle.
func (e *Engine) ResolveOverlaps() {
	size := e.PanelSize()
	pad := e.cfg.OverlapPadding
	minX := size.X + pad
	minY := size.Y + pad
	maxX := e.viewport.X - size.X
	maxY := e.viewport.Y - size.Y

	passes := e.cfg.OverlapPasses
	if passes < 1 {
		passes = 1
	}
	for range passes {
		for i := 0; i < len(e.order); i++ {
			a := e.panels[e.order[i]]
			if !free(a) {
				continue
			}
			for j := i + 1; j < len(e.order); j++ {
				b := e.panels[e.order[j]]
				if !free(b) {
					continue
				}
				d := b.Position.Sub(a.Position)
				if math.Abs(d.X) >= minX || math.Abs(d.Y) >= minY {
					continue
				}

				overlapX := minX - math.Abs(d.X)
				overlapY := minY - math.Abs(d.Y)
				if overlapX < overlapY {
					push := (overlapX/2 + pad) * sign(d.X)
					a.Position.X -= push
					b.Position.X += push
				} else {
					push := (overlapY/2 + pad) * sign(d.Y)
					a.Position.Y -= push
					b.Position.Y += push
				}

				a.Position = clampInto(a.Position, maxX, maxY)
				b.Position = clampInto(b.Position, maxX, maxY)
				a.Moving = true
				b.Moving = true
			}
		}
	}
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func clampInto(p geom.Vec, maxX, maxY float64) geom.Vec {
	return geom.Vec{X: geom.Clamp(p.X, 0, maxX), Y: geom.Clamp(p.Y, 0, maxY)}
}
