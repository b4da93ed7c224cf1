/*
Package splines is the core of an interactive curve editor. Users place,
remove, drag and insert points, and the editor continuously re-computes a
cubic B-spline or a natural cubic spline through them.

Sub-packages implement the parts:

	pointstore   bounded, ordered sequence of points with hit testing
	polygon      the control polygon through the stored points
	bspline      control point padding and uniform cubic B-spline evaluation
	natcubic     natural cubic spline linear system and its solution
	editor       an editing session: modes, drag state, window mapping
	splinedit    command replaying editing scripts, with PNG previews

This package holds numeric helpers, helpers for 3D points (which are
github.com/ungerik/go3d vectors) and affine transformations used to map
window coordinates into the editor's coordinate space.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package splines

import (
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
	"github.com/ungerik/go3d/float64/vec3"
	"honnef.co/go/curve"
)

// tracer writes to trace with key 'splines'
func tracer() tracing.Trace {
	return tracing.Select("splines")
}

// === Numeric Data Type =====================================================

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Round to ε.
func Round(n float64) float64 {
	return math.Round(n/Epsilon) * Epsilon
}

// === Points ================================================================

// Origin represents the frequently used constant (0,0,0).
var Origin = vec3.Zero

// P is a quick notation for constructing a point in the drawing plane (z = 0).
func P(x, y float64) vec3.T {
	return vec3.T{x, y, 0}
}

// P3 constructs a point from three coordinates.
func P3(x, y, z float64) vec3.T {
	return vec3.T{x, y, z}
}

// Equal compares two points, component-wise up to ε.
func Equal(p, q vec3.T) bool {
	return Is0(p[0]-q[0]) && Is0(p[1]-q[1]) && Is0(p[2]-q[2])
}

// ZapPoint rounds every component of p to 0 if it means to be 0.
func ZapPoint(p vec3.T) vec3.T {
	return vec3.T{Zap(p[0]), Zap(p[1]), Zap(p[2])}
}

// IsFinite is a predicate: does p have no NaN or Inf component?
func IsFinite(p vec3.T) bool {
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// PointString is a pretty Stringer for points. The z-component is omitted
// if it is zero.
func PointString(p vec3.T) string {
	if Is0(p[2]) {
		return fmt.Sprintf("(%g,%g)", p[0], p[1])
	}
	return fmt.Sprintf("(%g,%g,%g)", p[0], p[1], p[2])
}

// Flat projects p onto the drawing plane, as a 2D curve point.
func Flat(p vec3.T) curve.Point {
	return curve.Pt(p[0], p[1])
}

// Lift is the inverse of Flat, returning a point with z = 0.
func Lift(pt curve.Point) vec3.T {
	return P(pt.X, pt.Y)
}

// === Affine Transformations ================================================

// AT is an affine transform of the drawing plane, a matrix type used for
// transforming points. The z-component of points is left untouched.
type AT []float64 // a 3x3 matrix, flattened by rows

// Internal constructor. Clients implicitely use this as a starting point for
// transform combinations.
func newAT() AT {
	m := make([]float64, 9)
	return m
}

func (m AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*3 : (row+1)*3]
}

func (m AT) col(col int) []float64 {
	c := make([]float64, 3)
	c[0] = m[col]
	c[1] = m[3+col]
	c[2] = m[6+col]
	return c
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation transform. Translate a point by (dx,dy).
func Translation(dx, dy float64) AT {
	m := Identity()
	m.set(0, 2, dx)
	m.set(1, 2, dy)
	return m
}

// Scaling transform. Scale a point by sx horizontally and by sy vertically.
// A negative factor mirrors at the respective axis.
func Scaling(sx, sy float64) AT {
	m := Identity()
	m.set(0, 0, sx)
	m.set(1, 1, sy)
	return m
}

// WindowToCore maps window pixel coordinates, with the origin at the top left
// and y growing downwards, to the editor's coordinate space, with its origin at
// (originX, originY) of the window and y growing upwards:
//
//	x' = x - originX
//	y' = originY - y
func WindowToCore(originX, originY float64) AT {
	return Translation(-originX, -originY).Combine(Scaling(1, -1))
}

// CoreToWindow is the inverse of WindowToCore.
func CoreToWindow(originX, originY float64) AT {
	return Scaling(1, -1).Combine(Translation(originX, originY))
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	s := fmt.Sprintf("[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
	return s
}

// v1 × v2, v.n = [a,b,c]
func dotProd(vec1, vec2 []float64) float64 {
	p1 := vec1[0] * vec2[0]
	p2 := vec1[1] * vec2[1]
	p3 := vec1[2] * vec2[2]
	return p1 + p2 + p3
}

// Combine 2 affine transformation to a new one: m is applied first, then n.
// Returns a new transformation without changing the argument(s).
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

func (m AT) multiplyVector(v []float64) []float64 {
	c := make([]float64, 3)
	c[0] = dotProd(m.row(0), v)
	c[1] = dotProd(m.row(1), v)
	c[2] = dotProd(m.row(2), v)
	return c
}

// Transform a point. The argument is unchanged and a new point is returned.
func (m AT) Transform(p vec3.T) vec3.T {
	if !IsFinite(p) {
		tracer().Errorf("transforming non-finite point %s", PointString(p))
	}
	c := m.multiplyVector([]float64{p[0], p[1], 1.0})
	return vec3.T{c[0], c[1], p[2]}
}

// TransformXY transforms a coordinate pair, as delivered by pointer events.
func (m AT) TransformXY(x, y float64) (float64, float64) {
	p := m.Transform(P(x, y))
	return p[0], p[1]
}
