// Package geom provides the small value types the simulators exchange.
package geom

import "math"

// Vec is a 2D screen-space vector in pixels.
type Vec struct {
	X float64
	Y float64
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }
func (v Vec) Len() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec) Mul(o Vec) Vec       { return Vec{v.X * o.X, v.Y * o.Y} }
func (v Vec) IsZero() bool        { return v.X == 0 && v.Y == 0 }
func (v Vec) Dist(o Vec) float64  { return v.Sub(o).Len() }

// Vec3 is a scene-space position for decorative elements.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// RectAt builds a rect from a top-left position and a size.
func RectAt(pos, size Vec) Rect {
	return Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the rect's midpoint.
func (r Rect) Center() Vec {
	return Vec{r.X + r.W/2, r.Y + r.H/2}
}

// Lerp interpolates every edge of r towards o by t.
func (r Rect) Lerp(o Rect, t float64) Rect {
	return Rect{
		X: r.X + (o.X-r.X)*t,
		Y: r.Y + (o.Y-r.Y)*t,
		W: r.W + (o.W-r.W)*t,
		H: r.H + (o.H-r.H)*t,
	}
}

// Clamp limits v to [lo, hi]. When hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
