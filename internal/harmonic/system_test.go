package harmonic

import (
	"math"
	"testing"

	"github.com/olivier-w/driftboard/internal/geom"
	"github.com/olivier-w/driftboard/internal/phi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAppliesDefaults(t *testing.T) {
	s := New(DefaultConfig())
	id := s.Register(geom.Vec3{X: 1, Y: 2, Z: 3}, Params{})

	el, ok := s.Element(id)
	require.True(t, ok)
	assert.InDelta(t, phi.Phi*10, el.Amplitude, 1e-12)
	assert.InDelta(t, 1/(phi.Phi*10), el.Frequency, 1e-12)
	assert.GreaterOrEqual(t, el.Phase, 0.0)
	assert.Less(t, el.Phase, 2*math.Pi)
	assert.Equal(t, AxisY, el.Axis)
	assert.Equal(t, Sine, el.Pattern)
	assert.True(t, el.Visible)
	assert.Equal(t, el.Origin, el.Position)
}

func TestExplicitZeroPhaseIsKept(t *testing.T) {
	s := New(DefaultConfig())
	id := s.Register(geom.Vec3{}, Params{HasPhase: true})
	el, _ := s.Element(id)
	assert.Zero(t, el.Phase)
}

func TestTickEvaluatesOnEverySecondCall(t *testing.T) {
	s := New(DefaultConfig())
	origin := geom.Vec3{X: 4, Y: 5, Z: 6}
	id := s.Register(origin, Params{Amplitude: 2, Frequency: 1, HasPhase: true})

	s.Tick(0.5)
	el, _ := s.Element(id)
	assert.Equal(t, origin, el.Position, "first call only accumulates time")
	assert.InDelta(t, 0.5, s.Time(), 1e-12)

	s.Tick(0.5)
	el, _ = s.Element(id)
	assert.InDelta(t, 1.0, s.Time(), 1e-12)
	assert.InDelta(t, 5+math.Sin(1)*2, el.Position.Y, 1e-9)
	assert.Equal(t, origin.X, el.Position.X)
	assert.Equal(t, origin.Z, el.Position.Z)
}

func TestDisplacementFollowsAxis(t *testing.T) {
	s := New(Config{UpdateEvery: 1})
	x := s.Register(geom.Vec3{}, Params{Amplitude: 1, Frequency: 1, HasPhase: true, Axis: AxisX})
	z := s.Register(geom.Vec3{}, Params{Amplitude: 1, Frequency: 1, HasPhase: true, Axis: AxisZ})

	s.Tick(1)

	ex, _ := s.Element(x)
	assert.InDelta(t, math.Sin(1), ex.Position.X, 1e-9)
	assert.Zero(t, ex.Position.Y)
	assert.Zero(t, ex.Position.Z)

	ez, _ := s.Element(z)
	assert.InDelta(t, math.Sin(1), ez.Position.Z, 1e-9)
	assert.Zero(t, ez.Position.X)
	assert.Zero(t, ez.Position.Y)
}

func TestHiddenElementsAreSkipped(t *testing.T) {
	s := New(Config{UpdateEvery: 1})
	id := s.Register(geom.Vec3{Y: 10}, Params{Amplitude: 3, Frequency: 1, HasPhase: true})
	s.SetVisible(id, false)

	s.Tick(1)
	el, _ := s.Element(id)
	assert.Equal(t, 10.0, el.Position.Y)

	s.SetVisible(id, true)
	s.Tick(1)
	el, _ = s.Element(id)
	assert.InDelta(t, 10+math.Sin(2)*3, el.Position.Y, 1e-9)
}

func TestPatternFormulas(t *testing.T) {
	s := New(DefaultConfig())
	el := &Element{Amplitude: 2, Frequency: 0.5, Phase: 0.25}
	arg := 3*0.5 + 0.25

	el.Pattern = Sine
	assert.InDelta(t, math.Sin(arg)*2, s.Displacement(el, 3), 1e-12)

	el.Pattern = Lissajous
	assert.InDelta(t, math.Sin(3*arg)*2, s.Displacement(el, 3), 1e-12)

	el.Pattern = Summed
	want := (math.Sin(arg) + 0.5*math.Sin(phi.Phi*arg) + 0.25*math.Sin(phi.Phi*phi.Phi*arg)) * 2 / 1.75
	assert.InDelta(t, want, s.Displacement(el, 3), 1e-9)
}

func TestBoundedPatterns(t *testing.T) {
	s := New(DefaultConfig())
	for _, p := range []Pattern{Sine, Lissajous, Summed, Simplex} {
		el := &Element{ID: 3, Amplitude: 5, Frequency: 0.3, Pattern: p}
		for i := range 500 {
			d := s.Displacement(el, float64(i)*0.37)
			assert.LessOrEqual(t, math.Abs(d), 5.0+1e-9, "%s at %d", p, i)
		}
	}
}

func TestSimplexIsDeterministicPerSeed(t *testing.T) {
	a := New(Config{Seed: 7})
	b := New(Config{Seed: 7})
	el := &Element{ID: 1, Amplitude: 1, Frequency: 1, Pattern: Simplex}
	for i := range 20 {
		tm := float64(i) * 0.1
		assert.Equal(t, a.Displacement(el, tm), b.Displacement(el, tm))
	}
}

func TestPopulateScene(t *testing.T) {
	s := New(DefaultConfig())
	ids := s.PopulateScene(12, 50, true)
	require.Len(t, ids, 12)
	assert.Equal(t, 12, s.Len())

	for i, id := range ids {
		el, ok := s.Element(id)
		require.True(t, ok)
		assert.Equal(t, sceneAxes[i%3], el.Axis)
		if i%4 == 3 {
			assert.Equal(t, Simplex, el.Pattern)
		} else {
			assert.Equal(t, scenePatterns[(i/3)%3], el.Pattern)
		}
		assert.Greater(t, el.Amplitude, 0.0)
		assert.Greater(t, el.Frequency, 0.0)
		assert.LessOrEqual(t, math.Hypot(el.Origin.X, el.Origin.Y), 50.0+1e-9)
	}
}

func TestParsePattern(t *testing.T) {
	p, ok := ParsePattern("perlin")
	assert.True(t, ok)
	assert.Equal(t, Summed, p)

	_, ok = ParsePattern("square")
	assert.False(t, ok)
}

func TestUnknownElement(t *testing.T) {
	s := New(DefaultConfig())
	_, ok := s.Element(0)
	assert.False(t, ok)
	s.SetVisible(4, false)
}
