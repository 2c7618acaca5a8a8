package ai

import "math"

// Vec3 is a 3D world position or velocity. Units move on the X/Z ground
// plane; Y is kept for parity with the render layer's coordinate system.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit-length copy, or the zero vector when v is
// too short to normalize safely.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) DistanceTo(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Yaw returns the heading of the vector on the ground plane, matching
// the render layer's convention (0 faces +Z, positive toward +X).
func (v Vec3) Yaw() float64 {
	return math.Atan2(v.X, v.Z)
}
