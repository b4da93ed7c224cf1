package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/splines/bspline"
	"github.com/npillmayer/splines/natcubic"
	"github.com/npillmayer/splines/pointstore"
)

// ErrConfig indicates an illegal configuration value.
var ErrConfig = errors.New("illegal editor configuration")

// CurveKind selects the curve engine of a session.
type CurveKind int

// Kinds of curves
const (
	BSpline CurveKind = iota // uniform cubic B-spline
	Natural                  // natural cubic spline
)

func (k CurveKind) String() string {
	switch k {
	case BSpline:
		return "bspline"
	case Natural:
		return "natural"
	}
	return fmt.Sprintf("CurveKind(%d)", int(k))
}

// ParseCurveKind parses "bspline" or "natural", ignoring case.
func ParseCurveKind(s string) (CurveKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bspline", "b-spline":
		return BSpline, nil
	case "natural", "natcubic":
		return Natural, nil
	}
	return BSpline, fmt.Errorf("%w: unknown curve kind %q", ErrConfig, s)
}

// Settings configure an editing session.
type Settings struct {
	Curve        CurveKind // curve engine
	Repetition   int       // end point repetition of B-splines
	Capacity     int       // maximum number of points
	Samples      int       // samples per curve segment
	SelectRadius float64   // radius for selecting points
	EdgeRadius   float64   // radius for selecting polygon edges
	Width        int       // window width in pixels
	Height       int       // window height in pixels
}

// DefaultSettings returns the settings of a B-spline editor with 12 points
// in a 1000×1000 window.
func DefaultSettings() Settings {
	return Settings{
		Curve:        BSpline,
		Repetition:   0,
		Capacity:     pointstore.DefaultCapacity,
		Samples:      bspline.DefaultSamples,
		SelectRadius: pointstore.DefaultSelectRadius,
		EdgeRadius:   pointstore.DefaultEdgeRadius,
		Width:        1000,
		Height:       1000,
	}
}

// Configuration keys read by SettingsFrom.
const (
	KeyCurve        = "editor.curve"
	KeyRepetition   = "editor.repetition"
	KeyCapacity     = "editor.capacity"
	KeySamples      = "editor.samples"
	KeySelectRadius = "editor.select-radius"
	KeyEdgeRadius   = "editor.edge-radius"
	KeyWidth        = "editor.width"
	KeyHeight       = "editor.height"
)

// SettingsFrom reads settings from a configuration. Keys not set in conf
// keep their default values.
func SettingsFrom(conf schuko.Configuration) (Settings, error) {
	s := DefaultSettings()
	if conf == nil {
		return s, nil
	}
	var err error
	if conf.IsSet(KeyCurve) {
		if s.Curve, err = ParseCurveKind(conf.GetString(KeyCurve)); err != nil {
			return s, err
		}
	}
	ints := []struct {
		key string
		dst *int
	}{
		{KeyRepetition, &s.Repetition},
		{KeyCapacity, &s.Capacity},
		{KeySamples, &s.Samples},
		{KeyWidth, &s.Width},
		{KeyHeight, &s.Height},
	}
	for _, i := range ints {
		if conf.IsSet(i.key) {
			*i.dst = conf.GetInt(i.key)
		}
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{KeySelectRadius, &s.SelectRadius},
		{KeyEdgeRadius, &s.EdgeRadius},
	}
	for _, f := range floats {
		if !conf.IsSet(f.key) {
			continue
		}
		if *f.dst, err = strconv.ParseFloat(conf.GetString(f.key), 64); err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrConfig, f.key, err)
		}
	}
	return s, s.Validate()
}

// Validate checks settings for consistency.
func (s Settings) Validate() error {
	switch {
	case s.Curve != BSpline && s.Curve != Natural:
		return fmt.Errorf("%w: unknown curve kind %d", ErrConfig, s.Curve)
	case s.Repetition < 0:
		return fmt.Errorf("%w: repetition %d < 0", ErrConfig, s.Repetition)
	case s.Capacity < 1 || (s.Curve == Natural && s.Capacity < 2):
		return fmt.Errorf("%w: capacity %d too small for %s", ErrConfig, s.Capacity, s.Curve)
	case s.Samples < 2:
		return fmt.Errorf("%w: need at least 2 samples per segment, have %d", ErrConfig, s.Samples)
	case s.SelectRadius <= 0 || s.EdgeRadius <= 0:
		return fmt.Errorf("%w: radii must be positive", ErrConfig)
	case s.Width < 1 || s.Height < 1:
		return fmt.Errorf("%w: window size %d×%d", ErrConfig, s.Width, s.Height)
	}
	return nil
}

// newCurve creates the curve engine for the settings.
func (s Settings) newCurve() (Curve, error) {
	if s.Curve == Natural {
		sys, err := natcubic.NewSystem(s.Capacity - 1)
		if err != nil {
			return nil, err
		}
		return sys.WithSamples(s.Samples), nil
	}
	b, err := bspline.NewBuilder(s.Repetition)
	if err != nil {
		return nil, err
	}
	return b.WithSamples(s.Samples), nil
}
