package physics

import "github.com/olivier-w/driftboard/internal/phi"

// SizeRule estimates a panel's on-screen box from the viewport.
type SizeRule struct {
	WidthFraction  float64
	HeightFraction float64
	MinWidth       float64
	MinHeight      float64
}

// Config holds the spring, damping, collision and cadence constants.
type Config struct {
	Stiffness   float64 // spring constant k
	Damping     float64 // per-step velocity multiplier, < 1
	MinVelocity float64 // settle threshold on each axis
	DeadZone    float64 // no spring force within this distance of the anchor
	Mass        float64

	UpdateEvery int     // integrate once every N ticks
	MaxStep     float64 // upper bound on the effective step, seconds

	ReleaseScale float64 // scales the averaged drag displacement on release
	SampleWindow int     // drag displacement samples kept for release velocity

	RepulsionStrength float64
	RepulsionReach    float64 // fraction of panel width inside which repulsion applies
	OverlapPadding    float64
	OverlapPasses     int

	SafeZoneGap float64 // gap kept below the title safe zone
	Size        SizeRule
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		Stiffness:   phi.Inv * 0.1,
		Damping:     phi.Inv,
		MinVelocity: 0.01,
		DeadZone:    5,
		Mass:        phi.Phi,

		UpdateEvery: 2,
		MaxStep:     1.0 / 30,

		ReleaseScale: phi.Inv,
		SampleWindow: 5,

		RepulsionStrength: 0.5,
		RepulsionReach:    0.8,
		OverlapPadding:    20,
		OverlapPasses:     3,

		SafeZoneGap: 10,
		Size: SizeRule{
			WidthFraction:  0.15,
			HeightFraction: 0.30,
			MinWidth:       180,
			MinHeight:      240,
		},
	}
}
