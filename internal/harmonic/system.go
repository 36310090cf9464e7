// Package harmonic drives decorative background motion: a bank of
// independent oscillators, each displacing one element along one axis
// around a fixed origin.
package harmonic

import (
	"math"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/olivier-w/driftboard/internal/geom"
	"github.com/olivier-w/driftboard/internal/phi"
	"github.com/olivier-w/driftboard/internal/scheduler"
)

// Params configures one oscillator. Zero fields take the derived defaults;
// HasPhase distinguishes an explicit zero phase from an unset one.
type Params struct {
	Amplitude float64
	Frequency float64
	Phase     float64
	HasPhase  bool
	Axis      Axis
	Pattern   Pattern
}

// Element is one registered oscillator and its element's transform.
type Element struct {
	ID        int
	Amplitude float64
	Frequency float64
	Phase     float64
	Axis      Axis
	Pattern   Pattern
	Origin    geom.Vec3
	Position  geom.Vec3
	Visible   bool
}

// Config holds the system's cadence and randomness seed.
type Config struct {
	UpdateEvery int
	Seed        int64
}

// DefaultConfig returns the reference cadence.
func DefaultConfig() Config {
	return Config{UpdateEvery: 2, Seed: 1}
}

// System is the oscillator bank. Elements are never removed.
type System struct {
	cadence  scheduler.Cadence
	rng      *rand.Rand
	noise    opensimplex.Noise
	time     float64
	elements []Element
}

// New creates an empty System.
func New(cfg Config) *System {
	seed := uint64(cfg.Seed)
	return &System{
		cadence: scheduler.NewCadence(cfg.UpdateEvery),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		noise:   opensimplex.NewNormalized(cfg.Seed),
	}
}

// Register adds an element at origin and returns its id.
func (s *System) Register(origin geom.Vec3, p Params) int {
	if p.Amplitude == 0 {
		p.Amplitude = phi.Phi * 10
	}
	if p.Frequency == 0 {
		p.Frequency = 1 / (phi.Phi * 10)
	}
	if !p.HasPhase && p.Phase == 0 {
		p.Phase = s.rng.Float64() * math.Pi * 2
	}
	id := len(s.elements)
	s.elements = append(s.elements, Element{
		ID:        id,
		Amplitude: p.Amplitude,
		Frequency: p.Frequency,
		Phase:     p.Phase,
		Axis:      p.Axis,
		Pattern:   p.Pattern,
		Origin:    origin,
		Position:  origin,
		Visible:   true,
	})
	return id
}

// SetVisible shows or hides an element. Hidden elements are not evaluated.
func (s *System) SetVisible(id int, visible bool) {
	if id >= 0 && id < len(s.elements) {
		s.elements[id].Visible = visible
	}
}

// Element returns a copy of one element.
func (s *System) Element(id int) (Element, bool) {
	if id < 0 || id >= len(s.elements) {
		return Element{}, false
	}
	return s.elements[id], true
}

// Elements returns the live element slice; callers must not modify it.
func (s *System) Elements() []Element { return s.elements }

// Len returns the number of registered elements.
func (s *System) Len() int { return len(s.elements) }

// Time returns the accumulated time in seconds.
func (s *System) Time() float64 { return s.time }

// Tick accumulates dt on every call and re-evaluates visible elements on
// every UpdateEvery-th call.
func (s *System) Tick(dt float64) {
	s.time += dt
	if !s.cadence.Due() {
		return
	}
	s.evaluate()
}

func (s *System) evaluate() {
	for i := range s.elements {
		el := &s.elements[i]
		if !el.Visible {
			continue
		}
		d := s.Displacement(el, s.time)
		el.Position = el.Origin
		switch el.Axis {
		case AxisX:
			el.Position.X = el.Origin.X + d
		case AxisZ:
			el.Position.Z = el.Origin.Z + d
		default:
			el.Position.Y = el.Origin.Y + d
		}
	}
}

// Displacement returns an element's offset from its origin at time t.
func (s *System) Displacement(el *Element, t float64) float64 {
	arg := t*el.Frequency + el.Phase
	switch el.Pattern {
	case Lissajous:
		return lissajous(arg) * el.Amplitude
	case Summed:
		return summed(arg) * el.Amplitude
	case Simplex:
		// Each element reads its own row of the noise field.
		n := s.noise.Eval2(arg, float64(el.ID)*phi.Phi)
		return (n*2 - 1) * el.Amplitude
	default:
		return sine(arg) * el.Amplitude
	}
}
