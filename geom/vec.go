// Package geom provides the small amount of 2D geometry the sprite pipeline
// needs: vectors, affine matrices and integer pixel rectangles.
//
// All math is float64. Screen space follows the usual raster convention:
// origin at top-left, X grows right, Y grows down.
package geom

import "math"

// Vec2 is a 2D vector or point.
type Vec2 struct {
	X, Y float64
}

// V2 is shorthand for Vec2{X: x, Y: y}.
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns v scaled by s.
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Div returns v divided by s.
func (v Vec2) Div(s float64) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

// MulVec returns the component-wise product.
func (v Vec2) MulVec(w Vec2) Vec2 {
	return Vec2{X: v.X * w.X, Y: v.Y * w.Y}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product.
func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the 3D cross product.
// It equals the determinant of the 2x2 matrix with columns v and w.
func (v Vec2) Cross(w Vec2) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the Euclidean length.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rotate rotates v by angle radians (positive is clockwise on screen,
// since Y points down).
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Floor returns the integer cell containing v.
func (v Vec2) Floor() (int, int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Y))
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Approx reports whether v and w differ by less than epsilon per component.
func (v Vec2) Approx(w Vec2, epsilon float64) bool {
	return math.Abs(v.X-w.X) < epsilon && math.Abs(v.Y-w.Y) < epsilon
}
