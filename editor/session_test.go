package editor

import (
	"errors"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/splines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

// window positions for curve coordinates, in a 1000×1000 window
func wx(x float64) float64 { return x + 500 }
func wy(y float64) float64 { return 500 - y }

func newSession(t *testing.T, settings Settings) *Session {
	t.Helper()
	s, err := NewSession(settings)
	require.NoError(t, err)
	return s
}

func press(s *Session, points ...vec3.T) {
	for _, p := range points {
		s.Press(wx(p[0]), wy(p[1]))
	}
}

func count(s *Session) int {
	n := 0
	for range s.Samples() {
		n++
	}
	return n
}

func TestParseMode(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for key, mode := range map[string]Mode{"a": Add, "r": Remove, "d": Drag, "i": Insert, "I": Insert} {
		m, err := ParseMode(key)
		require.NoError(t, err)
		assert.Equal(t, mode, m)
	}
	_, err := ParseMode("x")
	assert.True(t, errors.Is(err, ErrUnknownMode))
	assert.Equal(t, "INSERT", Insert.String())
}

func TestSettingsFrom(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := SettingsFrom(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	conf := testconfig.Conf{}
	conf.Set(KeyCurve, "natural")
	conf.Set(KeyCapacity, "8")
	conf.Set(KeySelectRadius, "20.5")
	conf.Set(KeyWidth, "800")
	s, err = SettingsFrom(conf)
	require.NoError(t, err)
	assert.Equal(t, Natural, s.Curve)
	assert.Equal(t, 8, s.Capacity)
	assert.Equal(t, 20.5, s.SelectRadius)
	assert.Equal(t, 10.0, s.EdgeRadius)
	assert.Equal(t, 800, s.Width)
	assert.Equal(t, 1000, s.Height)
}

func TestIllegalSettings(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for key, value := range map[string]string{
		KeyCurve:      "hobby",
		KeyRepetition: "-1",
		KeySamples:    "1",
		KeyEdgeRadius: "ten",
		KeyHeight:     "0",
	} {
		conf := testconfig.Conf{}
		conf.Set(key, value)
		_, err := SettingsFrom(conf)
		assert.True(t, errors.Is(err, ErrConfig), "%s = %s", key, value)
	}
	settings := DefaultSettings()
	settings.Curve = Natural
	settings.Capacity = 1
	_, err := NewSession(settings)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestWindowMapping(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newSession(t, DefaultSettings())
	s.SetMode(Add)
	s.Press(510, 480)
	assert.Equal(t, []vec3.T{splines.P(10, 20)}, s.Points())
	s.Resize(800, 600)
	assert.True(t, splines.Equal(splines.P(-400, 300), s.ToCurve(0, 0)))
}

func TestIdlePressIsIgnored(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newSession(t, DefaultSettings())
	assert.Equal(t, Idle, s.Mode())
	press(s, splines.P(0, 0))
	assert.Empty(t, s.Points())
}

func TestAddUpToCapacity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newSession(t, DefaultSettings())
	s.SetMode(Add)
	for i := 0; i < 15; i++ {
		press(s, splines.P(float64(20*i), 0))
	}
	assert.Equal(t, 12, len(s.Points()))
	assert.Equal(t, 12-3, s.Segments())
	assert.Equal(t, 9*40, count(s))
}

func TestBSplineScenario(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	settings := DefaultSettings()
	s := newSession(t, settings)
	s.SetMode(Add)
	press(s, splines.P(0, 0), splines.P(10, 0), splines.P(10, 10))
	assert.Equal(t, 0, count(s), "three control points make no segment")
	settings.Repetition = 2
	s = newSession(t, settings)
	s.SetMode(Add)
	press(s, splines.P(0, 0), splines.P(10, 0), splines.P(10, 10))
	assert.Equal(t, 4, s.Segments())
	assert.Equal(t, 4*40, count(s))
	assert.Equal(t, 5, len(s.Bezier()))
}

func TestSegmentHue(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	settings := DefaultSettings()
	settings.Repetition = 2
	s := newSession(t, settings)
	s.SetMode(Add)
	press(s, splines.P(0, 0), splines.P(10, 0), splines.P(10, 10))
	require.Equal(t, 4, s.Segments())
	h, ok := s.Hue(1)
	assert.True(t, ok)
	assert.Equal(t, 90.0, h)
	h, _ = s.Hue(3)
	assert.Equal(t, 270.0, h)
	settings.Curve = Natural
	s = newSession(t, settings)
	s.SetMode(Add)
	press(s, splines.P(0, 0), splines.P(10, 0))
	_, ok = s.Hue(0)
	assert.False(t, ok, "natural splines have no segment colors")
}

func TestNaturalSession(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	settings := DefaultSettings()
	settings.Curve = Natural
	s := newSession(t, settings)
	assert.Equal(t, Natural, s.Curve())
	s.SetMode(Add)
	press(s, splines.P(0, 0))
	assert.Equal(t, 0, count(s))
	press(s, splines.P(100, 0))
	n := 0
	for i, p := range s.Samples() {
		assert.Equal(t, 0, i)
		assert.InDelta(t, 100*float64(n)/39, p[0], 1e-3)
		assert.InDelta(t, 0.0, p[1], 1e-3)
		n++
	}
	assert.Equal(t, 40, n)
	for i := 0; i < 12; i++ {
		press(s, splines.P(float64(-200+30*i), 50))
	}
	assert.Equal(t, 12, len(s.Points()))
	assert.Equal(t, 11, s.Segments())
}

func TestRemoveAndInsert(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newSession(t, DefaultSettings())
	s.SetMode(Add)
	press(s, splines.P(0, 0), splines.P(100, 0), splines.P(100, 100))
	before := s.Points()
	assert.Nil(t, s.Polygon(), "polygon is shown in insert mode only")
	s.SetMode(Insert)
	require.NotNil(t, s.Polygon())
	assert.Equal(t, 2, s.Polygon().EdgeCount())
	press(s, splines.P(50, 3))
	assert.Equal(t, 4, len(s.Points()))
	press(s, splines.P(50, 60)) // nothing near, ignored
	assert.Equal(t, 4, len(s.Points()))
	s.SetMode(Remove)
	press(s, splines.P(50, 3))
	assert.Equal(t, before, s.Points())
	press(s, splines.P(300, 300))
	assert.Equal(t, before, s.Points())
}

func TestDragGesture(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	settings := DefaultSettings()
	settings.Curve = Natural
	s := newSession(t, settings)
	s.SetMode(Add)
	press(s, splines.P(0, 0), splines.P(100, 0))
	s.SetMode(Drag)
	press(s, splines.P(95, 5))
	i, ok := s.Dragging()
	require.True(t, ok)
	assert.Equal(t, 1, i)
	var last vec3.T
	for y := 10.0; y <= 50; y += 10 {
		s.Move(wx(100), wy(y))
		for _, p := range s.Samples() {
			last = p
		}
		assert.InDelta(t, y, last[1], 1e-3, "curve follows the dragged point")
	}
	s.Release()
	_, ok = s.Dragging()
	assert.False(t, ok)
	s.Move(wx(0), wy(0))
	assert.Equal(t, splines.P(100, 50), s.Points()[1])
	press(s, splines.P(300, 300)) // nothing to drag
	_, ok = s.Dragging()
	assert.False(t, ok)
}

func TestModeChangeEndsDrag(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := newSession(t, DefaultSettings())
	s.SetMode(Add)
	press(s, splines.P(0, 0), splines.P(100, 0))
	s.SetMode(Drag)
	press(s, splines.P(0, 0))
	_, ok := s.Dragging()
	require.True(t, ok)
	s.SetMode(Add)
	_, ok = s.Dragging()
	assert.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	settings := DefaultSettings()
	settings.Curve = Natural
	s := newSession(t, settings)
	s.SetMode(Add)
	press(s, splines.P(-100, 0), splines.P(0, 50), splines.P(100, 0))
	s.SetMode(Drag)
	press(s, splines.P(0, 50))
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for k := 0; k < 50; k++ {
			s.Move(wx(0), wy(float64(k)))
		}
	}()
	go func() {
		defer wg.Done()
		for k := 0; k < 50; k++ {
			n := count(s)
			assert.Equal(t, 2*40, n)
		}
	}()
	wg.Wait()
	s.Release()
	assert.Equal(t, splines.P(0, 49), s.Points()[1])
}
