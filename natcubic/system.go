/*
Package natcubic computes natural cubic splines through a sequence of data
points.

Each of N segments is a cubic polynomial

	p_i(t) = c0^i + c1^i·t + c2^i·t² + c3^i·t³,  t ∈ [0,1]

and the 4N coefficients are found by solving a single linear system A·c = b
for all three coordinates at once. A has a fixed size of 4N×4N, regardless of
how many data points are currently active. Its rows state, in this order:

	2N   rows   p_i(0) = P_i and p_i(1) = P_i+1        (position)
	N-1  rows   p'_i(1) = p'_i+1(0)                    (tangent continuity)
	N-1  rows   p''_i(1) = p''_i+1(0)                  (curvature continuity)
	1    row    p''_0(0) = 0                           (natural start)
	1    row    p''_k-2(1) = 0                         (natural end)

The structural rows are set up once. When the data points change, only b and
the very last row are re-arranged: the natural end condition moves to the last
active segment k-2, with k being the number of active points. Rows of b for
inactive segments are zero.

Note that the natural start condition is never removed, even though the end
condition is moved around.

A is nearly rank deficient for small k, so the system is solved in the least
squares sense, using a singular value decomposition from gonum.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package natcubic

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splines/polyn"
	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/mat"
)

// tracer writes to trace with key 'natcubic'
func tracer() tracing.Trace {
	return tracing.Select("natcubic")
}

// DefaultSegments is the maximum number of segments of the editor's curves.
const DefaultSegments = 11

// DefaultSamples is the number of parameter values each segment is
// evaluated at.
const DefaultSamples = 40

// singular values below rcond·σ_max count as zero
const rcond = 1e-12

var (
	// ErrDegenerateSystem indicates fewer than 2 active data points. The
	// solution is trivial and there is no curve to draw.
	ErrDegenerateSystem = errors.New("natural spline needs at least 2 data points")
	// ErrTooManyPoints indicates more data points than the system has room for.
	ErrTooManyPoints = errors.New("too many data points for linear system")
	// ErrSolveFailed indicates that the decomposition of A did not converge.
	ErrSolveFailed = errors.New("cannot solve linear system")
	// ErrIllegalSegments indicates a segment count < 1.
	ErrIllegalSegments = errors.New("number of segments must be at least 1")
)

// System is the linear system A·c = b of a natural cubic spline with a fixed
// maximum number of segments.
type System struct {
	n       int        // number of segments
	a       *mat.Dense // 4n × 4n coefficient matrix
	b       *mat.Dense // 4n × 3 right-hand side, one column per axis
	c       *mat.Dense // 4n × 3 solution
	active  int        // data points of the last arrangement
	k       int        // data points of the last successful solution
	samples int        // samples per segment
}

// factorize decomposes A; replaceable for tests
var factorize = func(svd *mat.SVD, a mat.Matrix) bool {
	return svd.Factorize(a, mat.SVDThin)
}

// NewSystem creates a linear system for up to segments segments, i.e.
// segments+1 data points. The structural rows of A are set up immediately.
func NewSystem(segments int) (*System, error) {
	if segments < 1 {
		tracer().Errorf("cannot create linear system for %d segments", segments)
		return nil, fmt.Errorf("%w: %d", ErrIllegalSegments, segments)
	}
	m := 4 * segments
	s := &System{
		n:       segments,
		a:       mat.NewDense(m, m, nil),
		b:       mat.NewDense(m, 3, nil),
		c:       mat.NewDense(m, 3, nil),
		samples: DefaultSamples,
	}
	s.build()
	return s, nil
}

// MustNewSystem is like NewSystem, but panics for illegal segment counts.
func MustNewSystem(segments int) *System {
	s, err := NewSystem(segments)
	if err != nil {
		panic(err)
	}
	return s
}

// WithSamples sets the number of samples per segment. n must be at least 2,
// otherwise the setting is ignored.
func (s *System) WithSamples(n int) *System {
	if n < 2 {
		tracer().Errorf("need at least 2 samples per segment, ignoring %d", n)
		return s
	}
	s.samples = n
	return s
}

// SampleCount returns the number of samples per segment.
func (s *System) SampleCount() int {
	return s.samples
}

// Capacity returns the maximum number of data points, N+1.
func (s *System) Capacity() int {
	return s.n + 1
}

// Active returns the number of data points of the last arrangement.
func (s *System) Active() int {
	return s.active
}

// Segments returns the number of segments of the curve, which is one less
// than the number of data points of the last successful solution.
func (s *System) Segments() int {
	if s.k < 2 {
		return 0
	}
	return s.k - 1
}

// Dim returns the number of rows (and columns) of A.
func (s *System) Dim() int {
	return 4 * s.n
}

// --- Structural build ------------------------------------------------------

// term position of coefficient c_k^seg within a row polynomial
func cx(seg, k int) int {
	return 4*seg + k + 1
}

// equation creates 0 = Σ terms
func equation(terms ...polyn.X) polyn.Polynomial {
	p, err := polyn.New(0, terms...)
	if err != nil {
		panic(err) // term positions are always ≥ 1
	}
	return p
}

// at is the derivative of the given order of segment seg at parameter t,
// as a polynomial in the coefficients of seg:
//
//	p^(order)(t) = Σ k!/(k-order)! · c_k · t^(k-order),  k ≥ order
func at(seg int, t float64, order int) polyn.Polynomial {
	terms := make([]polyn.X, 0, 4)
	for k := order; k < 4; k++ {
		f := 1.0
		for j := k; j > k-order; j-- {
			f *= float64(j)
		}
		terms = append(terms, polyn.X{I: cx(seg, k), C: f * math.Pow(t, float64(k-order))})
	}
	return equation(terms...).Zap()
}

func (s *System) build() {
	row := 0
	for i := 0; i < s.n; i++ { // position at t=0 and t=1
		s.setRow(row, at(i, 0, 0))
		s.setRow(row+1, at(i, 1, 0))
		row += 2
	}
	for i := 0; i < s.n-1; i++ { // tangent continuity
		s.setRow(row, at(i, 1, 1).Subtract(at(i+1, 0, 1)))
		row++
	}
	for i := 0; i < s.n-1; i++ { // curvature continuity
		s.setRow(row, at(i, 1, 2).Subtract(at(i+1, 0, 2)))
		row++
	}
	s.setRow(row, at(0, 0, 2)) // natural start
	tracer().Debugf("linear system of %d×%d built, %d structural rows", s.Dim(), s.Dim(), row+1)
	if tracer().GetTraceLevel() >= tracing.LevelDebug {
		for r := 0; r <= row; r++ {
			tracer().Debugf("  %2d: 0 = %s", r, s.Row(r).TraceString(Names))
		}
	}
}

// setRow lays out an equation as row r of A. Columns not mentioned by the
// equation are zeroed. Rows of A are homogeneous, constants belong to b.
func (s *System) setRow(r int, p polyn.Polynomial) {
	if c := p.GetConstantValue(); c != 0 {
		tracer().Errorf("row %d: dropping constant %g of %s", r, c, p.TraceString(Names))
	}
	row := s.a.RawRowView(r)
	for j := range row {
		row[j] = 0
	}
	for _, pos := range p.Exponents() {
		if pos > 0 {
			row[pos-1] = p.GetCoeffForTerm(pos)
		}
	}
}

// Row returns row r of A as a polynomial Σ a_rj·x.(j+1).
// Use Names to print coefficient names.
func (s *System) Row(r int) polyn.Polynomial {
	p := polyn.NewConstantPolynomial(0)
	for j, a := range s.a.RawRowView(r) {
		if a != 0 {
			p.SetTerm(j+1, a)
		}
	}
	return p
}

// Equation returns row r of A·c = b for axis as a polynomial
// Σ a_rj·x.(j+1) - b_r. The polynomial evaluates to 0 for a solution.
func (s *System) Equation(r, axis int) polyn.Polynomial {
	return s.Row(r).Subtract(polyn.NewConstantPolynomial(s.b.At(r, axis)))
}

type names struct{}

func (names) GetVariableName(pos int) string {
	j := pos - 1
	return fmt.Sprintf("c%d[%d]", j%4, j/4)
}

// Names resolves term positions of row polynomials to coefficient names,
// e.g. "c2[3]" for c_2 of segment 3.
var Names polyn.VariableResolver = names{}

// --- Per-mutation refresh --------------------------------------------------

// Arrange re-populates b from points and moves the natural end condition to
// the last active segment. The structural rows of A are untouched.
//
// With fewer than 2 points b is all zero and the end condition row stays
// empty. Points exceeding the capacity are ignored and ErrTooManyPoints is
// returned.
func (s *System) Arrange(points []vec3.T) error {
	var err error
	if len(points) > s.Capacity() {
		tracer().Errorf("%d data points exceed capacity of %d", len(points), s.Capacity())
		err = fmt.Errorf("%w: %d > %d", ErrTooManyPoints, len(points), s.Capacity())
		points = points[:s.Capacity()]
	}
	s.active = len(points)
	s.b.Zero()
	for i := 0; i < s.active-1; i++ {
		s.b.SetRow(2*i, points[i][:])
		s.b.SetRow(2*i+1, points[i+1][:])
	}
	last := s.Dim() - 1
	if s.active >= 2 {
		seg := s.active - 2
		s.setRow(last, at(seg, 1, 2))
	} else {
		s.setRow(last, polyn.NewConstantPolynomial(0))
	}
	tracer().Debugf("arranged %d data points, end condition 0 = %s",
		s.active, s.Row(last).TraceString(Names))
	return err
}

// Solve solves A·c = b for all three axes. Only a successful solution
// takes over the data point count of the last arrangement; if the
// decomposition fails, the previous curve is kept as a whole and
// ErrSolveFailed is returned. With fewer than 2 active data points a trivial
// solution is computed and ErrDegenerateSystem is returned.
func (s *System) Solve() error {
	var svd mat.SVD
	if ok := factorize(&svd, s.a); !ok {
		tracer().Errorf("singular value decomposition of %d×%d system failed", s.Dim(), s.Dim())
		return ErrSolveFailed
	}
	rank := svd.Rank(rcond)
	tracer().Debugf("solving for %d data points: rank = %d, cond = %.4g", s.active, rank, svd.Cond())
	if rank == 0 {
		s.c.Zero()
	} else {
		svd.SolveTo(s.c, s.b, rank)
	}
	s.k = s.active
	if tracer().GetTraceLevel() >= tracing.LevelDebug {
		tracer().Debugf("max residual %.4g", s.residual())
	}
	if s.k < 2 {
		return fmt.Errorf("%w: have %d", ErrDegenerateSystem, s.k)
	}
	return nil
}

// residual returns max |Σ a_rj·c_j - b_r| over all rows and axes.
func (s *System) residual() float64 {
	var res float64
	for axis := 0; axis < 3; axis++ {
		x := s.Solution(axis)
		for r := 0; r < s.Dim(); r++ {
			res = math.Max(res, math.Abs(s.Equation(r, axis).Evaluate(x)))
		}
	}
	return res
}

// Rebuild arranges the system for points and solves it. Errors are traced,
// not returned: the curve of a degenerate system simply has no segments.
func (s *System) Rebuild(points []vec3.T) {
	if err := s.Arrange(points); err != nil {
		tracer().Debugf("arrange: %v", err)
	}
	if err := s.Solve(); err != nil {
		tracer().Debugf("solve: %v", err)
		return
	}
	tracer().Debugf("natural spline rebuilt: %d points, %d segments", s.k, s.Segments())
}

// Coefficients returns c0…c3 of segment i.
func (s *System) Coefficients(i int) [4]vec3.T {
	var c [4]vec3.T
	for k := 0; k < 4; k++ {
		row := s.c.RawRowView(4*i + k)
		c[k] = vec3.T{row[0], row[1], row[2]}
	}
	return c
}

// Solution returns the solution value of coefficient x.pos for axis, with
// term positions as in Row.
func (s *System) Solution(axis int) func(int) float64 {
	return func(pos int) float64 {
		return s.c.At(pos-1, axis)
	}
}
