/*
Package editor implements an interactive curve editing session.

A session owns the points of a curve, the curve engine which re-computes the
curve whenever points change, the current interaction mode and the state of
a drag gesture. Clients feed pointer events in window coordinates (origin at
the top left, y growing downwards); the session maps them to curve
coordinates with the origin at the center of the window and y growing
upwards.

Pressing the pointer button does, depending on the mode:

	Add      append a point, if capacity is left
	Remove   remove the point nearest to the pointer
	Drag     start dragging the point nearest to the pointer
	Insert   insert a point on the polygon edge nearest to the pointer

Requests which cannot be fulfilled (capacity exhausted, nothing near the
pointer) are silently ignored.

All methods of a session may be called concurrently. Every mutation and the
re-build of the curve it triggers happen under a single lock, so readers
never observe a half-updated curve.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package editor

import (
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/pointstore"
	"github.com/npillmayer/splines/polygon"
	"github.com/ungerik/go3d/float64/vec3"
	"honnef.co/go/curve"
)

// tracer writes to trace with key 'editor'
func tracer() tracing.Trace {
	return tracing.Select("editor")
}

// Curve is a curve engine. It is re-built from the points of a session and
// sampled for rendering. bspline.Builder and natcubic.System are curves.
type Curve interface {
	pointstore.Rebuilder
	Segments() int
	Samples() iter.Seq2[int, vec3.T]
	Bezier() curve.BezPath
}

// ErrUnknownMode indicates a key which does not select a mode.
var ErrUnknownMode = errors.New("press the 'a', 'r', 'd', 'i' key to change the mode")

// Mode is the interaction mode of a session.
type Mode int

// Modes of interaction. A new session starts out in Idle mode, ignoring
// pointer presses until a mode is selected.
const (
	Idle Mode = iota
	Add
	Remove
	Drag
	Insert
)

var modeNames = [...]string{"IDLE", "ADD", "REMOVE", "DRAG", "INSERT"}

func (m Mode) String() string {
	if m < Idle || m > Insert {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode maps a key to a mode: 'a' for Add, 'r' for Remove, 'd' for
// Drag and 'i' for Insert.
func ParseMode(key string) (Mode, error) {
	switch key {
	case "a", "A":
		return Add, nil
	case "r", "R":
		return Remove, nil
	case "d", "D":
		return Drag, nil
	case "i", "I":
		return Insert, nil
	}
	return Idle, fmt.Errorf("%w: %q", ErrUnknownMode, key)
}

// Session is an editing session for a single curve.
type Session struct {
	mu       sync.Mutex
	settings Settings
	store    *pointstore.Store
	curve    Curve
	mode     Mode
	w2c      splines.AT // window to curve coordinates
}

// NewSession creates an editing session with no points, in Idle mode.
func NewSession(settings Settings) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	c, err := settings.newCurve()
	if err != nil {
		return nil, err
	}
	s := &Session{
		settings: settings,
		curve:    c,
		store: pointstore.New(settings.Capacity, c).
			WithRadii(settings.SelectRadius, settings.EdgeRadius),
	}
	s.w2c = windowTransform(settings.Width, settings.Height)
	s.store.Rebuild()
	tracer().Infof("%s editor session with a maximum of %d points", settings.Curve, settings.Capacity)
	if tracer().GetTraceLevel() >= tracing.LevelDebug {
		tracing.With(tracer()).Dump("settings", settings)
	}
	return s, nil
}

func windowTransform(width, height int) splines.AT {
	return splines.WindowToCore(float64(width)/2, float64(height)/2)
}

// Settings returns the settings of the session.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Curve returns the kind of curve being edited.
func (s *Session) Curve() CurveKind {
	return s.Settings().Curve
}

// Resize adapts the mapping of window coordinates to a new window size.
func (s *Session) Resize(width, height int) {
	if width < 1 || height < 1 {
		tracer().Errorf("ignoring illegal window size %d×%d", width, height)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Width, s.settings.Height = width, height
	s.w2c = windowTransform(width, height)
}

// ToCurve maps window coordinates to curve coordinates.
func (s *Session) ToCurve(x, y float64) vec3.T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toCurve(x, y)
}

func (s *Session) toCurve(x, y float64) vec3.T {
	cx, cy := s.w2c.TransformXY(x, y)
	return splines.P(cx, cy)
}

// SetMode switches the interaction mode. A drag in progress ends.
func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m == s.mode {
		return
	}
	s.store.EndDrag()
	s.mode = m
	tracer().Infof("%s MODE", m)
}

// Mode returns the current interaction mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Press handles a press of the pointer button at window position (x,y).
func (s *Session) Press(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.toCurve(x, y)
	var err error
	switch s.mode {
	case Add:
		err = s.store.Add(q)
	case Remove:
		_, err = s.store.RemoveNearest(q)
	case Drag:
		var i int
		if i, err = s.store.SelectNearest(q); err == nil {
			err = s.store.BeginDrag(i)
		}
	case Insert:
		_, err = s.store.InsertOnNearestEdge(q)
	default:
		err = ErrUnknownMode
	}
	if err != nil {
		tracer().Debugf("%s at %s ignored: %v", s.mode, splines.PointString(q), err)
	}
}

// Move handles a pointer movement to window position (x,y). If a point is
// being dragged, it follows the pointer and the curve is re-built.
func (s *Session) Move(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.store.Dragging()
	if !ok {
		return
	}
	q := s.toCurve(x, y)
	if err := s.store.UpdatePosition(i, q[0], q[1]); err != nil {
		tracer().Debugf("drag to %s ignored: %v", splines.PointString(q), err)
	}
}

// Release handles a release of the pointer button and ends a drag.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.EndDrag()
}

// Dragging returns the index of the point being dragged, if any.
func (s *Session) Dragging() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Dragging()
}

// Points returns a snapshot of the points, in curve coordinates.
func (s *Session) Points() []vec3.T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Polygon returns the polygon through the points for display. It is shown in
// Insert mode only; for other modes Polygon returns nil.
func (s *Session) Polygon() *polygon.Polygon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != Insert {
		return nil
	}
	return s.store.Polygon()
}

// Segments returns the number of curve segments.
func (s *Session) Segments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curve.Segments()
}

// Samples returns sample points along the curve, in curve coordinates,
// together with their segment index. The samples are taken from a consistent
// state of the curve; later edits do not affect an iterator already returned.
func (s *Session) Samples() iter.Seq2[int, vec3.T] {
	s.mu.Lock()
	var segs []int
	var pts []vec3.T
	for i, p := range s.curve.Samples() {
		segs = append(segs, i)
		pts = append(pts, p)
	}
	s.mu.Unlock()
	return func(yield func(int, vec3.T) bool) {
		for k, p := range pts {
			if !yield(segs[k], p) {
				return
			}
		}
	}
}

// Bezier returns the curve as a path of cubic Bézier segments, in curve
// coordinates.
func (s *Session) Bezier() curve.BezPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curve.Bezier()
}

// segment colors of a curve
type hued interface {
	Hue(i int) float64
}

// Hue returns the color hue in degrees of curve segment i. The flag is false
// for curves which do not color their segments individually.
func (s *Session) Hue(i int) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.curve.(hued); ok {
		return h.Hue(i), true
	}
	return 0, false
}
