package bspline

import (
	"iter"

	"github.com/npillmayer/splines"
	"github.com/ungerik/go3d/float64/vec3"
	"honnef.co/go/curve"
)

// Eval evaluates a uniform cubic B-spline segment, given by 4 control points,
// at parameter t ∈ [0,1]:
//
//	B0(t) = 1 - 3t + 3t² - t³
//	B1(t) = 4 - 6t² + 3t³
//	B2(t) = 1 + 3t + 3t² - 3t³
//	B3(t) = t³
//	P(t)  = (b0·B0 + b1·B1 + b2·B2 + b3·B3) / 6
func Eval(b [4]vec3.T, t float64) vec3.T {
	t2 := t * t
	t3 := t2 * t
	weights := [4]float64{
		1 - 3*t + 3*t2 - t3,
		4 - 6*t2 + 3*t3,
		1 + 3*t + 3*t2 - 3*t3,
		t3,
	}
	var p vec3.T
	for i, w := range weights {
		bw := b[i].Scaled(w)
		p.Add(&bw)
	}
	return p.Scaled(1.0 / 6.0)
}

// Samples returns an iterator over sample points of the curve, in segment
// order. Each segment is evaluated at SampleCount() parameter values, evenly
// spaced in [0,1] including both ends. The iterator yields the segment index
// together with the sample point. It may be ranged over multiple times; it
// reflects the state of the builder at the time of iteration.
//
// For fewer than 4 control points the sequence is empty.
func (b *Builder) Samples() iter.Seq2[int, vec3.T] {
	return func(yield func(int, vec3.T) bool) {
		n := b.samples
		for i := 0; i < b.Segments(); i++ {
			w := b.Segment(i)
			for j := 0; j < n; j++ {
				t := float64(j) / float64(n-1)
				if !yield(i, Eval(w, t)) {
					return
				}
			}
		}
	}
}

// BezierSegment converts segment i to an equivalent cubic Bézier curve in
// the drawing plane.
func (b *Builder) BezierSegment(i int) curve.CubicBez {
	w := b.Segment(i)
	return curve.CubicBez{
		P0: splines.Flat(Eval(w, 0)),
		P1: splines.Flat(third(w[1], w[2], 2, 1)),
		P2: splines.Flat(third(w[1], w[2], 1, 2)),
		P3: splines.Flat(Eval(w, 1)),
	}
}

// (u·p + v·q) / 3
func third(p, q vec3.T, u, v float64) vec3.T {
	a := p.Scaled(u)
	c := q.Scaled(v)
	s := vec3.Add(&a, &c)
	return s.Scaled(1.0 / 3.0)
}

// Bezier returns the curve as a path of cubic Bézier segments. The path is
// empty if the curve has no segments.
func (b *Builder) Bezier() curve.BezPath {
	var path curve.BezPath
	for i := 0; i < b.Segments(); i++ {
		c := b.BezierSegment(i)
		if i == 0 {
			path.MoveTo(c.P0)
		}
		path.CubicTo(c.P1, c.P2, c.P3)
	}
	return path
}
