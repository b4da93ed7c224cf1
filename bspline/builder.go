/*
Package bspline builds uniform cubic B-spline curves from a sequence of
control points.

The stored points are expanded to a sequence of control points by
repeating the first and the last point r times:

	p0 … p0 p0 p1 … pn pn … pn
	\_ r _/             \_ r _/

With r = 0 the curve passes near, but not through, the end points (an open
uniform B-spline). With r = 2 the curve interpolates the first and the last
stored point. Every window of 4 consecutive expanded control points defines
one curve segment.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package bspline

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splines"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'bspline'
func tracer() tracing.Trace {
	return tracing.Select("bspline")
}

// DefaultSamples is the number of parameter values each segment is
// evaluated at.
const DefaultSamples = 40

// ErrNegativeRepetition indicates a repetition count < 0.
var ErrNegativeRepetition = errors.New("endpoint repetition must not be negative")

// Builder holds the expanded control points of a B-spline. It is re-built
// from scratch whenever the underlying points change.
type Builder struct {
	repetition int      // r, number of copies of each end point
	samples    int      // samples per segment
	ctrl       []vec3.T // expanded control points
}

// NewBuilder creates a builder for a given endpoint repetition count.
func NewBuilder(repetition int) (*Builder, error) {
	if repetition < 0 {
		tracer().Errorf("cannot create B-spline builder with repetition %d", repetition)
		return nil, fmt.Errorf("%w: %d", ErrNegativeRepetition, repetition)
	}
	return &Builder{repetition: repetition, samples: DefaultSamples}, nil
}

// MustNewBuilder is like NewBuilder, but panics on illegal repetition counts.
func MustNewBuilder(repetition int) *Builder {
	b, err := NewBuilder(repetition)
	if err != nil {
		panic(err)
	}
	return b
}

// WithSamples sets the number of samples per segment. n must be at least 2,
// otherwise the setting is ignored.
func (b *Builder) WithSamples(n int) *Builder {
	if n < 2 {
		tracer().Errorf("need at least 2 samples per segment, ignoring %d", n)
		return b
	}
	b.samples = n
	return b
}

// Repetition returns r.
func (b *Builder) Repetition() int {
	return b.repetition
}

// SampleCount returns the number of samples per segment.
func (b *Builder) SampleCount() int {
	return b.samples
}

// Construct returns the expanded control points for points, without changing
// the builder's state. The result has length len(points) + 2r, with the
// first and last r entries being copies of the first and last point.
// An empty input yields an empty result.
func (b *Builder) Construct(points []vec3.T) []vec3.T {
	return expand(points, b.repetition, nil)
}

// Rebuild replaces the expanded control points with those for points.
// The backing buffer is re-used if it is large enough.
func (b *Builder) Rebuild(points []vec3.T) {
	b.ctrl = expand(points, b.repetition, b.ctrl[:0])
	tracer().Debugf("B-spline rebuilt: %d points, %d control points, %d segments",
		len(points), b.N(), b.Segments())
}

func expand(points []vec3.T, r int, buf []vec3.T) []vec3.T {
	size := len(points)
	if size == 0 {
		return buf[:0]
	}
	n := size + 2*r
	if cap(buf) < n {
		buf = make([]vec3.T, n)
	}
	buf = buf[:n]
	copy(buf[r:], points)
	for i := 0; i < r; i++ {
		buf[i] = buf[r]               // clamp start
		buf[size+r+i] = buf[size+r-1] // clamp end
	}
	return buf
}

// ControlPoints returns a copy of the expanded control points.
func (b *Builder) ControlPoints() []vec3.T {
	ctrl := make([]vec3.T, len(b.ctrl))
	copy(ctrl, b.ctrl)
	return ctrl
}

// N returns the number of expanded control points.
func (b *Builder) N() int {
	return len(b.ctrl)
}

// Segments returns the number of curve segments, i.e. the number of windows
// of 4 consecutive control points.
func (b *Builder) Segments() int {
	if len(b.ctrl) < 4 {
		return 0
	}
	return len(b.ctrl) - 3
}

// Segment returns the 4 control points of segment i.
func (b *Builder) Segment(i int) [4]vec3.T {
	var w [4]vec3.T
	copy(w[:], b.ctrl[i:i+4])
	return w
}

// Hue returns a color hue in degrees [0…360) for segment i, spreading
// the segments evenly over the color wheel.
func (b *Builder) Hue(i int) float64 {
	if b.Segments() == 0 {
		return 0
	}
	return 360.0 * float64(i) / float64(b.Segments())
}

// String returns the expanded control points as a (debugging) string.
func (b *Builder) String() string {
	s := fmt.Sprintf("B-spline(r=%d)[", b.repetition)
	for i, p := range b.ctrl {
		if i > 0 {
			s += " "
		}
		s += splines.PointString(p)
	}
	return s + "]"
}
