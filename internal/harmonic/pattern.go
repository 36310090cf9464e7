package harmonic

import (
	"math"

	"github.com/olivier-w/driftboard/internal/phi"
)

// Pattern selects the displacement waveform.
type Pattern uint8

const (
	Sine Pattern = iota
	Lissajous
	// Summed is a weighted sum of three sines at 1×, Φ× and Φ²×. It is
	// smooth and aperiodic-looking but is not gradient noise.
	Summed
	// Simplex samples OpenSimplex noise along time.
	Simplex
)

func (p Pattern) String() string {
	switch p {
	case Lissajous:
		return "lissajous"
	case Summed:
		return "summed"
	case Simplex:
		return "simplex"
	default:
		return "sine"
	}
}

// ParsePattern maps a pattern name to a Pattern. "perlin" is accepted as an
// alias for Summed.
func ParsePattern(s string) (Pattern, bool) {
	switch s {
	case "sine":
		return Sine, true
	case "lissajous":
		return Lissajous, true
	case "summed", "perlin":
		return Summed, true
	case "simplex":
		return Simplex, true
	}
	return Sine, false
}

// Axis is the scene axis an element oscillates along.
type Axis uint8

const (
	AxisY Axis = iota
	AxisX
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisZ:
		return "z"
	default:
		return "y"
	}
}

const (
	lissajousA    = 3
	summedDivisor = 1.75
)

var summedFactors = [3]float64{1, phi.Phi, phi.Sq}

func sine(t float64) float64 { return math.Sin(t) }

func lissajous(t float64) float64 { return math.Sin(lissajousA * t) }

func summed(t float64) float64 {
	return (math.Sin(t*summedFactors[0]) +
		math.Sin(t*summedFactors[1])*0.5 +
		math.Sin(t*summedFactors[2])*0.25) / summedDivisor
}
