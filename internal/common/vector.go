package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space point or direction. The world is Z-up.
type Vec3 = mgl64.Vec3

// Up is the world up axis.
var Up = Vec3{0, 0, 1}

// V3 builds a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// NormalizeOrZero returns a unit vector in the direction of v, or the zero
// vector when v has no usable length. mgl64's Normalize divides by zero.
func NormalizeOrZero(v Vec3) Vec3 {
	l := v.Len()
	if l < 1e-12 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// ApproxEqual reports whether a and b are within eps on every axis.
func ApproxEqual(a, b Vec3, eps float64) bool {
	return math.Abs(a[0]-b[0]) <= eps &&
		math.Abs(a[1]-b[1]) <= eps &&
		math.Abs(a[2]-b[2]) <= eps
}

// Vec2 represents a 2D vector (texture coordinates, top-down projections).
type Vec2 struct {
	X, Y float64
}

// Flat drops the Z component of v.
func Flat(v Vec3) Vec2 {
	return Vec2{v[0], v[1]}
}

// Sub subtracts other from v.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Len returns the length (magnitude) of the vector.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}
