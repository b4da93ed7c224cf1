/*
Package pointstore holds the points of an editable curve: an ordered
sequence with a fixed capacity. Points are addressed by their position in
the sequence; positions are re-numbered on removal and insertion.

Every successful mutation, including each position update during a drag,
notifies a Rebuilder with a snapshot of the points, so that derived curve
state is always re-computed from the current points.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package pointstore

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/polygon"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'pointstore'
func tracer() tracing.Trace {
	return tracing.Select("pointstore")
}

// Defaults for capacity and hit test radii.
const (
	DefaultCapacity     = 12
	DefaultSelectRadius = 15.0
	DefaultEdgeRadius   = 10.0
)

var (
	// ErrCapacityExceeded indicates an attempt to add a point to a full store.
	ErrCapacityExceeded = errors.New("maximum number of points reached")
	// ErrNotFound indicates that no point or edge is within reach.
	ErrNotFound = errors.New("no point or edge near query position")
	// ErrInvalidPoint indicates a point with a NaN or infinite coordinate.
	ErrInvalidPoint = errors.New("point has invalid coordinate")
)

// Rebuilder is notified whenever the points of a store change.
// bspline.Builder and natcubic.System are Rebuilders.
type Rebuilder interface {
	Rebuild(points []vec3.T)
}

// Store is a bounded, ordered sequence of points.
type Store struct {
	points       []vec3.T
	capacity     int
	rebuilder    Rebuilder
	selectRadius float64
	edgeRadius   float64
	drag         int // index of point being dragged, or -1
}

// New creates an empty store for up to capacity points. r may be nil.
func New(capacity int, r Rebuilder) *Store {
	if capacity < 1 {
		tracer().Errorf("illegal capacity %d for point store, using %d", capacity, DefaultCapacity)
		capacity = DefaultCapacity
	}
	return &Store{
		points:       make([]vec3.T, 0, capacity),
		capacity:     capacity,
		rebuilder:    r,
		selectRadius: DefaultSelectRadius,
		edgeRadius:   DefaultEdgeRadius,
		drag:         -1,
	}
}

// WithRadii sets the radius for selecting points and the radius for
// selecting edges. Values ≤ 0 leave the respective setting unchanged.
func (s *Store) WithRadii(selectRadius, edgeRadius float64) *Store {
	if selectRadius > 0 {
		s.selectRadius = selectRadius
	}
	if edgeRadius > 0 {
		s.edgeRadius = edgeRadius
	}
	return s
}

// N returns the number of points.
func (s *Store) N() int {
	return len(s.points)
}

// Capacity returns the maximum number of points.
func (s *Store) Capacity() int {
	return s.capacity
}

// IsFull is a predicate: has the store reached its capacity?
func (s *Store) IsFull() bool {
	return len(s.points) >= s.capacity
}

// At returns point #i.
func (s *Store) At(i int) vec3.T {
	return s.points[i]
}

// Snapshot returns a copy of the current points, in order.
func (s *Store) Snapshot() []vec3.T {
	snap := make([]vec3.T, len(s.points))
	copy(snap, s.points)
	return snap
}

// Polygon returns the open polygon through the current points.
func (s *Store) Polygon() *polygon.Polygon {
	return polygon.FromPoints(s.points)
}

// Rebuild notifies the rebuilder with the current points.
func (s *Store) Rebuild() {
	if s.rebuilder != nil {
		s.rebuilder.Rebuild(s.Snapshot())
	}
}

// Add appends p. If the store is full, p is rejected with
// ErrCapacityExceeded and nothing is re-built.
func (s *Store) Add(p vec3.T) error {
	if s.IsFull() {
		tracer().Debugf("cannot add %s: store is full", splines.PointString(p))
		return fmt.Errorf("%w: %d", ErrCapacityExceeded, s.capacity)
	}
	if !splines.IsFinite(p) {
		tracer().Errorf("rejecting non-finite point %s", splines.PointString(p))
		return fmt.Errorf("%w: %s", ErrInvalidPoint, splines.PointString(p))
	}
	s.points = append(s.points, p)
	tracer().Debugf("added point #%d = %s", len(s.points)-1, splines.PointString(p))
	s.Rebuild()
	return nil
}

// SelectNearest returns the index of the point closest to q, measured in the
// drawing plane. Only points at a distance strictly less than the selection
// radius are considered; on ties the lower index wins.
func (s *Store) SelectNearest(q vec3.T) (int, error) {
	nearest, minDist := -1, s.selectRadius
	for i, p := range s.points {
		if d := math.Hypot(q[0]-p[0], q[1]-p[1]); d < minDist {
			nearest, minDist = i, d
		}
	}
	if nearest < 0 {
		return -1, fmt.Errorf("%w: no point within %g of %s", ErrNotFound,
			s.selectRadius, splines.PointString(q))
	}
	return nearest, nil
}

// RemoveNearest removes the point closest to q (see SelectNearest) and
// returns its former index. With fewer than 2 points this is a no-op and
// ErrNotFound is returned.
func (s *Store) RemoveNearest(q vec3.T) (int, error) {
	if len(s.points) < 2 {
		return -1, fmt.Errorf("%w: need at least 2 points to remove one", ErrNotFound)
	}
	i, err := s.SelectNearest(q)
	if err != nil {
		return -1, err
	}
	s.endStructuralDrag()
	tracer().Debugf("removing point #%d = %s", i, splines.PointString(s.points[i]))
	s.points = append(s.points[:i], s.points[i+1:]...)
	s.Rebuild()
	return i, nil
}

// InsertOnNearestEdge inserts q between the end points of the closest edge
// of the polygon through the points, and returns the index of the new point.
//
// An edge i (from point i to point i+1) qualifies only if the perpendicular
// projection of q lies strictly between its end points, and the perpendicular
// distance is strictly less than the edge radius. If the store is full,
// ErrCapacityExceeded is returned. If there are fewer than 2 points or no edge
// qualifies, ErrNotFound is returned. In both cases nothing changes.
func (s *Store) InsertOnNearestEdge(q vec3.T) (int, error) {
	if s.IsFull() {
		return -1, fmt.Errorf("%w: %d", ErrCapacityExceeded, s.capacity)
	}
	if len(s.points) < 2 {
		return -1, fmt.Errorf("%w: need at least 2 points for an edge", ErrNotFound)
	}
	edge, _ := s.Polygon().NearEdge(q, s.edgeRadius)
	if edge < 0 {
		return -1, fmt.Errorf("%w: no edge within %g of %s", ErrNotFound,
			s.edgeRadius, splines.PointString(q))
	}
	s.endStructuralDrag()
	i := edge + 1
	s.points = append(s.points, vec3.T{})
	copy(s.points[i+1:], s.points[i:])
	s.points[i] = q
	tracer().Debugf("inserted point #%d = %s", i, splines.PointString(q))
	s.Rebuild()
	return i, nil
}

// --- Dragging --------------------------------------------------------------

// BeginDrag starts dragging point #i.
func (s *Store) BeginDrag(i int) error {
	if i < 0 || i >= len(s.points) {
		return fmt.Errorf("%w: no point #%d to drag", ErrNotFound, i)
	}
	s.drag = i
	tracer().Debugf("begin drag of point #%d", i)
	return nil
}

// Dragging returns the index of the point being dragged, if any.
func (s *Store) Dragging() (int, bool) {
	return s.drag, s.drag >= 0
}

// UpdatePosition moves point #i to (x,y), keeping its z-coordinate, and
// re-builds.
func (s *Store) UpdatePosition(i int, x, y float64) error {
	if i < 0 || i >= len(s.points) {
		return fmt.Errorf("%w: no point #%d to move", ErrNotFound, i)
	}
	if !splines.IsFinite(splines.P(x, y)) {
		tracer().Errorf("rejecting non-finite position (%g,%g)", x, y)
		return fmt.Errorf("%w: (%g,%g)", ErrInvalidPoint, x, y)
	}
	s.points[i][0] = x
	s.points[i][1] = y
	s.Rebuild()
	return nil
}

// EndDrag ends a drag, if any.
func (s *Store) EndDrag() {
	if s.drag >= 0 {
		tracer().Debugf("end drag of point #%d", s.drag)
	}
	s.drag = -1
}

// indices shift on removal and insertion
func (s *Store) endStructuralDrag() {
	if s.drag >= 0 {
		tracer().Infof("structural change ends drag of point #%d", s.drag)
		s.drag = -1
	}
}
