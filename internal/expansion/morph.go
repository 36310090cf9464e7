package expansion

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/olivier-w/driftboard/internal/geom"
)

// morph springs the four edges of a rectangle toward a target rectangle.
// The harmonica spring is rebuilt whenever the frame delta changes, so it
// integrates correctly under a variable frame rate.
type morph struct {
	spring    harmonica.Spring
	dt        float64
	frequency float64
	damping   float64
	tolerance float64

	pos    [4]float64
	vel    [4]float64
	target [4]float64
	start  [4]float64
}

func newMorph(frequency, damping, tolerance float64) morph {
	return morph{frequency: frequency, damping: damping, tolerance: tolerance}
}

func edges(r geom.Rect) [4]float64 { return [4]float64{r.X, r.Y, r.W, r.H} }

func rectOf(e [4]float64) geom.Rect { return geom.Rect{X: e[0], Y: e[1], W: e[2], H: e[3]} }

// jump places the morph at r, at rest, with r as its target.
func (m *morph) jump(r geom.Rect) {
	m.pos = edges(r)
	m.vel = [4]float64{}
	m.target = m.pos
	m.start = m.pos
}

// retarget keeps position and velocity and aims at r.
func (m *morph) retarget(r geom.Rect) {
	m.start = m.pos
	m.target = edges(r)
}

func (m *morph) step(dt float64) {
	if dt <= 0 {
		return
	}
	if dt != m.dt {
		m.dt = dt
		m.spring = harmonica.NewSpring(dt, m.frequency, m.damping)
	}
	for i := range m.pos {
		m.pos[i], m.vel[i] = m.spring.Update(m.pos[i], m.vel[i], m.target[i])
	}
}

func (m *morph) rect() geom.Rect { return rectOf(m.pos) }

func (m *morph) settled() bool {
	for i := range m.pos {
		if math.Abs(m.pos[i]-m.target[i]) > m.tolerance || math.Abs(m.vel[i]) > m.tolerance {
			return false
		}
	}
	return true
}

// progress is the fraction of the start-to-target distance covered, in
// [0, 1].
func (m *morph) progress() float64 {
	var total, left float64
	for i := range m.pos {
		total += math.Abs(m.target[i] - m.start[i])
		left += math.Abs(m.target[i] - m.pos[i])
	}
	if total == 0 {
		return 1
	}
	return geom.Clamp(1-left/total, 0, 1)
}
