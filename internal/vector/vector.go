// Package vector provides the 2D vector value type used by the physics core.
//
// [Vec2] is immutable: every operation returns a new value and never
// modifies its receiver, so vectors may be copied and shared freely.
package vector

import (
	"math"
	"strconv"
)

// Vec2 is a 2D vector of float64 components.
type Vec2 struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vec2{}

// New returns the vector (x, y).
func New(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

func (v Vec2) Negate() Vec2 {
	return v.Scale(-1)
}

// SquaredMagnitude returns x² + y².
func (v Vec2) SquaredMagnitude() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.SquaredMagnitude())
}

// Unit returns v scaled to length 1. The zero vector has no direction and
// yields NaN components; callers that can meet coincident points must check
// the magnitude first.
func (v Vec2) Unit() Vec2 {
	mag := v.Magnitude()
	return Vec2{X: v.X / mag, Y: v.Y / mag}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// IsFinite reports whether both components are neither NaN nor ±Inf.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Format renders v as "(x, y)" with a fixed number of decimal places.
func (v Vec2) Format(precision int) string {
	if precision < 0 {
		precision = 0
	}
	return "(" + strconv.FormatFloat(v.X, 'f', precision, 64) +
		", " + strconv.FormatFloat(v.Y, 'f', precision, 64) + ")"
}

func (v Vec2) String() string {
	return v.Format(2)
}
