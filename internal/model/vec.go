package model

import "math"

// Vec3 is a point or direction in world space. Y is up.
// Value type, passed by value.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Up is the world up axis.
var Up = Vec3{Y: 1}

// Forward is the default facing of a freshly spawned body (+Z).
var Forward = Vec3{Z: 1}

// NewVec3 creates a Vec3.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LengthSquared returns |v|² (no sqrt for hot paths).
func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns |v|.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalized returns v scaled to unit length, or the zero vector if v is
// (almost) zero.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Distance returns the straight-line distance between two points.
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// DistanceSquared returns the squared distance between two points.
func (v Vec3) DistanceSquared(o Vec3) float64 {
	return v.Sub(o).LengthSquared()
}

// Flat returns v projected onto the ground plane (Y = 0).
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// AngleDeg returns the unsigned angle in degrees between two directions.
// A zero-length operand yields 0.
func AngleDeg(a, b Vec3) float64 {
	denom := math.Sqrt(a.LengthSquared() * b.LengthSquared())
	if denom < 1e-15 {
		return 0
	}
	cos := a.Dot(b) / denom
	cos = max(-1, min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
