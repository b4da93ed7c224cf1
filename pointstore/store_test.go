package pointstore

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/bspline"
	"github.com/npillmayer/splines/natcubic"
	"github.com/npillmayer/splines/polygon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

type recorder struct {
	calls int
	last  []vec3.T
}

func (r *recorder) Rebuild(points []vec3.T) {
	r.calls++
	r.last = points
}

func fill(t *testing.T, s *Store, points ...vec3.T) {
	t.Helper()
	for _, p := range points {
		require.NoError(t, s.Add(p))
	}
}

func TestAddAndCapacity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := &recorder{}
	s := New(3, r)
	fill(t, s, splines.P(0, 0), splines.P(10, 0), splines.P(10, 10))
	assert.Equal(t, 3, r.calls)
	assert.Equal(t, s.Snapshot(), r.last)
	err := s.Add(splines.P(20, 20))
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Equal(t, 3, s.N())
	assert.Equal(t, 3, r.calls, "rejected add must not re-build")
	_, err = s.InsertOnNearestEdge(splines.P(5, 1))
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Equal(t, 3, r.calls)
}

func TestIllegalInput(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := New(0, nil)
	assert.Equal(t, DefaultCapacity, s.Capacity())
	err := s.Add(splines.P(math.NaN(), 0))
	assert.True(t, errors.Is(err, ErrInvalidPoint))
	assert.Equal(t, 0, s.N())
}

func TestSelectNearest(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := New(DefaultCapacity, nil)
	_, err := s.SelectNearest(splines.P(0, 0))
	assert.True(t, errors.Is(err, ErrNotFound), "empty store")
	fill(t, s, splines.P(0, 0), splines.P(20, 0), splines.P(10, 0))
	i, err := s.SelectNearest(splines.P(11, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	i, err = s.SelectNearest(splines.P(5, 0)) // tie between #0 and #2
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	_, err = s.SelectNearest(splines.P(0, 15)) // radius is exclusive
	assert.True(t, errors.Is(err, ErrNotFound))
	i, err = s.SelectNearest(splines.P3(20, 14, 100)) // z does not count
	require.NoError(t, err)
	assert.Equal(t, 1, i)
}

func TestRemoveNearest(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := &recorder{}
	s := New(DefaultCapacity, r)
	fill(t, s, splines.P(0, 0), splines.P(10, 0), splines.P(10, 10))
	i, err := s.RemoveNearest(splines.P(9, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, []vec3.T{splines.P(0, 0), splines.P(10, 10)}, s.Snapshot())
	assert.Equal(t, 4, r.calls)
	_, err = s.RemoveNearest(splines.P(50, 50))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 4, r.calls)
}

func TestFewPointsAreNoOps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := &recorder{}
	s := New(DefaultCapacity, r)
	_, err := s.RemoveNearest(splines.P(0, 0))
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.InsertOnNearestEdge(splines.P(0, 0))
	assert.True(t, errors.Is(err, ErrNotFound))
	fill(t, s, splines.P(0, 0))
	_, err = s.RemoveNearest(splines.P(0, 0))
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.InsertOnNearestEdge(splines.P(0, 1))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, []vec3.T{splines.P(0, 0)}, s.Snapshot())
	assert.Equal(t, 1, r.calls)
}

func TestInsertOnNearestEdge(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := New(DefaultCapacity, nil)
	fill(t, s, splines.P(0, 0), splines.P(100, 0), splines.P(100, 100))
	i, err := s.InsertOnNearestEdge(splines.P(95, 50))
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	assert.Equal(t, splines.P(95, 50), s.At(2))
	assert.Equal(t, splines.P(100, 100), s.At(3))
	i, err = s.InsertOnNearestEdge(splines.P(40, -3))
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, 5, s.N())
	_, err = s.InsertOnNearestEdge(splines.P(-5, 0)) // beyond the first point
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.InsertOnNearestEdge(splines.P(50, 10)) // radius is exclusive
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInsertRemoveRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, repetition := range []int{0, 2} {
		b := bspline.MustNewBuilder(repetition)
		s := New(DefaultCapacity, b)
		fill(t, s, splines.P(0, 0), splines.P(100, 0), splines.P(100, 100), splines.P(0, 100))
		before, ctrl := s.Snapshot(), b.ControlPoints()
		q := splines.P(50, 4)
		_, err := s.InsertOnNearestEdge(q)
		require.NoError(t, err)
		assert.NotEqual(t, before, s.Snapshot())
		_, err = s.RemoveNearest(q)
		require.NoError(t, err)
		assert.Equal(t, before, s.Snapshot())
		assert.Equal(t, ctrl, b.ControlPoints())
	}
	sys := natcubic.MustNewSystem(natcubic.DefaultSegments)
	s := New(sys.Capacity(), sys)
	fill(t, s, splines.P(0, 0), splines.P(100, 0), splines.P(100, 100))
	c := sys.Coefficients(1)
	_, err := s.InsertOnNearestEdge(splines.P(100, 30))
	require.NoError(t, err)
	_, err = s.RemoveNearest(splines.P(100, 30))
	require.NoError(t, err)
	assert.Equal(t, c, sys.Coefficients(1))
}

func TestDrag(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := &recorder{}
	s := New(DefaultCapacity, r)
	fill(t, s, splines.P(0, 0), splines.P(10, 0))
	_, dragging := s.Dragging()
	assert.False(t, dragging)
	assert.True(t, errors.Is(s.BeginDrag(5), ErrNotFound))
	require.NoError(t, s.BeginDrag(1))
	i, dragging := s.Dragging()
	assert.True(t, dragging)
	assert.Equal(t, 1, i)
	calls := r.calls
	for k := 1; k <= 3; k++ {
		require.NoError(t, s.UpdatePosition(i, 10+float64(k), float64(k)))
	}
	assert.Equal(t, calls+3, r.calls, "every position update re-builds")
	assert.Equal(t, splines.P(13, 3), r.last[1])
	s.EndDrag()
	_, dragging = s.Dragging()
	assert.False(t, dragging)
	assert.True(t, errors.Is(s.UpdatePosition(2, 0, 0), ErrNotFound))
}

func TestStructuralChangeEndsDrag(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := New(DefaultCapacity, nil)
	fill(t, s, splines.P(0, 0), splines.P(10, 0), splines.P(20, 0))
	require.NoError(t, s.BeginDrag(2))
	_, err := s.RemoveNearest(splines.P(0, 0))
	require.NoError(t, err)
	_, dragging := s.Dragging()
	assert.False(t, dragging)
}

func TestWithRadii(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := New(DefaultCapacity, nil).WithRadii(30, 0)
	fill(t, s, splines.P(0, 0), splines.P(100, 0))
	i, err := s.SelectNearest(splines.P(20, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	_, err = s.InsertOnNearestEdge(splines.P(50, 12))
	assert.True(t, errors.Is(err, ErrNotFound), "edge radius keeps its default")
	assert.Equal(t, "(0,0) -- (100,0)", polygon.AsString(s.Polygon()))
}
