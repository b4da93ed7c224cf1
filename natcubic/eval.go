package natcubic

import (
	"iter"

	"github.com/npillmayer/splines"
	"github.com/ungerik/go3d/float64/vec3"
	"honnef.co/go/curve"
)

// Eval evaluates the cubic c0 + c1·t + c2·t² + c3·t³ per axis, using
// Horner's scheme.
func Eval(c [4]vec3.T, t float64) vec3.T {
	p := c[3].Scaled(t)
	p.Add(&c[2]).Scale(t)
	p.Add(&c[1]).Scale(t)
	p.Add(&c[0])
	return p
}

// Samples returns an iterator over sample points of the curve, in segment
// order, for the active segments only. Each segment is evaluated at
// SampleCount() parameter values, evenly spaced in [0,1] including both ends.
// The iterator yields the segment index together with the sample point.
//
// For fewer than 2 active data points the sequence is empty.
func (s *System) Samples() iter.Seq2[int, vec3.T] {
	return func(yield func(int, vec3.T) bool) {
		n := s.samples
		for i := 0; i < s.Segments(); i++ {
			c := s.Coefficients(i)
			for j := 0; j < n; j++ {
				t := float64(j) / float64(n-1)
				if !yield(i, Eval(c, t)) {
					return
				}
			}
		}
	}
}

// BezierSegment converts active segment i from power basis to an equivalent
// cubic Bézier curve in the drawing plane.
func (s *System) BezierSegment(i int) curve.CubicBez {
	c := s.Coefficients(i)
	p1 := c[1].Scaled(1.0 / 3.0)
	p1.Add(&c[0])
	p2 := c[2].Scaled(1.0 / 3.0)
	p2.Add(&p1).Add(&p1).Sub(&c[0]) // c0 + 2/3·c1 + 1/3·c2
	return curve.CubicBez{
		P0: splines.Flat(c[0]),
		P1: splines.Flat(p1),
		P2: splines.Flat(p2),
		P3: splines.Flat(Eval(c, 1)),
	}
}

// Bezier returns the curve as a path of cubic Bézier segments. The path is
// empty if there are fewer than 2 active data points.
func (s *System) Bezier() curve.BezPath {
	var path curve.BezPath
	for i := 0; i < s.Segments(); i++ {
		c := s.BezierSegment(i)
		if i == 0 {
			path.MoveTo(c.P0)
		}
		path.CubicTo(c.P1, c.P2, c.P3)
	}
	return path
}
