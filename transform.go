package folio

import "math"

// Matrix is a 2D affine transform laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Matrix [6]float64

// Identity is the identity affine matrix.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// RotateDegrees returns a rotation about the origin. Positive angles turn
// clockwise on screen because Y grows downward.
func RotateDegrees(deg float64) Matrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// Multiply returns m * o, i.e. o is applied first.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Invert returns the inverse of m.
// Returns Identity if the matrix is singular (determinant ≈ 0).
func (m Matrix) Invert() Matrix {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms a point.
func (m Matrix) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// ApplyVector transforms a direction, ignoring translation.
func (m Matrix) ApplyVector(v Vec2) Vec2 {
	return Vec2{m[0]*v.X + m[2]*v.Y, m[1]*v.X + m[3]*v.Y}
}

// TransformRect returns the axis-aligned bounds of r after transformation.
func (m Matrix) TransformRect(r Rect) Rect {
	corners := [4]Vec2{
		m.Apply(Vec2{r.X, r.Y}),
		m.Apply(Vec2{r.X + r.Width, r.Y}),
		m.Apply(Vec2{r.X, r.Y + r.Height}),
		m.Apply(Vec2{r.X + r.Width, r.Y + r.Height}),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ComposeTransform builds Translate(translate) * rotation about pivot.
//
//	Translate(t) -> Translate(pivot) -> Rotate(deg) -> Translate(-pivot)
func ComposeTransform(translate Vec2, rotateDeg float64, pivot Vec2) Matrix {
	m := Translate(translate.X, translate.Y)
	if rotateDeg == 0 {
		return m
	}
	return m.Multiply(Translate(pivot.X, pivot.Y)).
		Multiply(RotateDegrees(rotateDeg)).
		Multiply(Translate(-pivot.X, -pivot.Y))
}

// NormalizeRotation maps any finite angle in degrees into [0, 360).
func NormalizeRotation(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	// -tiny + 360 can round to exactly 360.
	if r >= 360 {
		r = 0
	}
	return r
}
