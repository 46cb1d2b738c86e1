package folio

import "math"

// Vec2 is a 2D vector used for positions, offsets, sizes and directions.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Dot returns the dot product of a and b.
func Dot(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Magnitude returns the Euclidean length of v. Callers dividing by the
// result must handle the zero vector themselves.
func Magnitude(v Vec2) float64 {
	return math.Hypot(v.X, v.Y)
}

// Scale returns v multiplied by k.
func Scale(k float64, v Vec2) Vec2 {
	return Vec2{k * v.X, k * v.Y}
}

// Project returns the component of v along dir. A zero-length dir yields
// the zero vector.
func Project(v, dir Vec2) Vec2 {
	mm := Dot(dir, dir)
	if mm == 0 {
		return Vec2{}
	}
	return Scale(Dot(v, dir)/mm, dir)
}
