package physics

import "github.com/olivier-w/driftboard/internal/geom"

// UpdateBounds adapts every panel to a new viewport: anchors are recomputed
// from their percentage origins, positions and velocities are rescaled by
// the per-axis resize ratio, and overlaps are then resolved.
func (e *Engine) UpdateBounds(viewport geom.Vec) {
	if viewport.X <= 0 || viewport.Y <= 0 {
		return
	}
	scale := geom.Vec{X: 1, Y: 1}
	if e.viewport.X > 0 {
		scale.X = viewport.X / e.viewport.X
	}
	if e.viewport.Y > 0 {
		scale.Y = viewport.Y / e.viewport.Y
	}
	e.viewport = viewport

	for _, id := range e.order {
		p := e.panels[id]
		p.Anchor = e.anchorFor(p.Origin)
		p.Position = p.Position.Mul(scale)
		p.Velocity = p.Velocity.Mul(scale)
		if e.safeZone > 0 && p.Position.Y < e.safeZone {
			p.Position.Y = e.safeZone + e.cfg.SafeZoneGap
		}
	}

	e.ResolveOverlaps()
	e.log.Debug("viewport resized", "width", viewport.X, "height", viewport.Y)
}
