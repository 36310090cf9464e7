package harmonic

import (
	"math"

	"github.com/olivier-w/driftboard/internal/geom"
	"github.com/olivier-w/driftboard/internal/phi"
)

var (
	sceneAxes     = [...]Axis{AxisX, AxisY, AxisZ}
	scenePatterns = [...]Pattern{Sine, Lissajous, Summed}
)

// PopulateScene registers n decorative elements scattered on a golden-angle
// spiral of the given radius. Sizes, periods and phases come from the
// Fibonacci table; axes cycle x/y/z and patterns change every three
// elements. With simplex set, every fourth element uses Simplex instead.
func (s *System) PopulateScene(n int, radius float64, simplex bool) []int {
	ids := make([]int, 0, n)
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := range n {
		r := radius * math.Sqrt((float64(i)+0.5)/float64(max(n, 1)))
		theta := float64(i) * golden
		origin := geom.Vec3{
			X: r * math.Cos(theta),
			Y: r * math.Sin(theta),
			Z: (s.rng.Float64() - 0.5) * radius * phi.Inv,
		}

		size := i % 5
		pattern := scenePatterns[(i/3)%len(scenePatterns)]
		if simplex && i%4 == 3 {
			pattern = Simplex
		}
		ids = append(ids, s.Register(origin, Params{
			Amplitude: phi.Fib(size+1) * (0.5 + s.rng.Float64()*0.5),
			Frequency: 1 / (phi.Fib(i%4+3) * (1.5 + s.rng.Float64())),
			Phase:     float64(i)*phi.Phi + s.rng.Float64()*math.Pi,
			HasPhase:  true,
			Axis:      sceneAxes[i%len(sceneAxes)],
			Pattern:   pattern,
		}))
	}
	return ids
}
