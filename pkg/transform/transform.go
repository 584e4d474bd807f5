// Package transform provides the 2D affine transform backing zoom and pan
// state. It is pure math: no I/O, no locking, no notification.
package transform

import "math"

// Epsilon is the tolerance used by approximate comparisons.
const Epsilon = 1e-9

// Point is a point in local (viewport) coordinates.
type Point struct {
	X float64
	Y float64
}

// Matrix is a 2D affine transform in row-major [a b c d tx ty] form,
// mapping (x, y) to (a*x + c*y + tx, b*x + d*y + ty).
type Matrix [6]float64

// Identity returns the identity transform (no zoom, no pan).
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translation returns a pure translation transform.
func Translation(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scaling returns a uniform scale transform about the origin.
func Scaling(s float64) Matrix {
	return Matrix{s, 0, 0, s, 0, 0}
}

// ScaleTranslation returns a uniform scale combined with a translation.
// This is the general form every zoom operation produces.
func ScaleTranslation(s, tx, ty float64) Matrix {
	return Matrix{s, 0, 0, s, tx, ty}
}

// Multiply returns m composed with o (m applied first, then o).
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

// Apply transforms a point.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Scale returns the uniform scale factor. Zoom transforms are always
// uniform, so the horizontal component is authoritative.
func (m Matrix) Scale() float64 {
	return m[0]
}

// Translate returns the translation components.
func (m Matrix) Translate() (tx, ty float64) {
	return m[4], m[5]
}

// IsIdentity reports whether m is the identity transform within Epsilon.
func (m Matrix) IsIdentity() bool {
	return m.Equal(Identity(), Epsilon)
}

// Equal reports whether every component of m and o is within eps.
func (m Matrix) Equal(o Matrix, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// Lerp linearly interpolates between a and b. t is clamped to [0, 1],
// so t=0 yields a and t=1 yields b exactly.
func Lerp(a, b Matrix, t float64) Matrix {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	var out Matrix
	for i := range a {
		out[i] = a[i] + (b[i]-a[i])*t
	}
	return out
}
