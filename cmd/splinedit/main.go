/*
Splinedit replays a script of editing events on a curve and reports the
result.

A script is a sequence of lines, each holding one event. Coordinates are
window coordinates, with the origin at the top left of the window.

	mode a|r|d|i     select Add, Remove, Drag or Insert mode
	press x y        press the pointer button at (x,y)
	move x y         move the pointer to (x,y)
	release          release the pointer button
	click x y        press and release at (x,y)
	resize w h       change the window size
	# …              comment

After replaying the script, splinedit prints the points and the curve
samples, both in curve coordinates. With flag -bezier it prints the curve as
a path of cubic Bézier segments instead. With flag -png it renders a preview
of the curve to a PNG file.

Usage:

	splinedit [flags] [script]

If no script file is given, the script is read from stdin.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/editor"
)

// tracer writes to trace with key 'splinedit'
func tracer() tracing.Trace {
	return tracing.Select("splinedit")
}

func main() {
	conf, opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	initTracing(conf)
	os.Exit(run(conf, opts, os.Stdin, os.Stdout, os.Stderr))
}

// options of splinedit which are not part of the editor configuration
type options struct {
	script  string // empty for stdin
	pngfile string
	bezier  bool
}

// parseArgs turns command line arguments into an editor configuration.
// Flag errors and usage are reported to stderr.
func parseArgs(args []string, stderr io.Writer) (testconfig.Conf, options, error) {
	flags := flag.NewFlagSet("splinedit", flag.ContinueOnError)
	flags.SetOutput(stderr)
	curveKind := flags.String("curve", "bspline", "curve to edit: bspline or natural")
	repetition := flags.Int("r", 0, "end point repetition of B-splines")
	capacity := flags.Int("n", 0, "maximum number of points")
	samples := flags.Int("samples", 0, "samples per curve segment")
	width := flags.Int("width", 0, "window width")
	height := flags.Int("height", 0, "window height")
	level := flags.String("trace", "Error", "trace level: Error, Info or Debug")
	var opts options
	flags.StringVar(&opts.pngfile, "png", "", "render a preview to this PNG file")
	flags.BoolVar(&opts.bezier, "bezier", false, "print Bézier segments instead of samples")
	if err := flags.Parse(args); err != nil {
		return nil, opts, err
	}
	opts.script = flags.Arg(0)

	conf := testconfig.Conf{}
	conf.Set("tracing.adapter", "go")
	conf.Set("tracing.level", *level)
	conf.Set(editor.KeyCurve, *curveKind)
	conf.Set(editor.KeyRepetition, strconv.Itoa(*repetition))
	for key, value := range map[string]int{
		editor.KeyCapacity: *capacity,
		editor.KeySamples:  *samples,
		editor.KeyWidth:    *width,
		editor.KeyHeight:   *height,
	} {
		if value > 0 {
			conf.Set(key, strconv.Itoa(value))
		}
	}
	return conf, opts, nil
}

// run replays a script and reports the result. It returns the exit code of
// splinedit: 2 for an invalid configuration, 1 for an unreadable or invalid
// script.
func run(conf schuko.Configuration, opts options, stdin io.Reader, stdout, stderr io.Writer) int {
	session, err := newSession(conf)
	if err != nil {
		fmt.Fprintf(stderr, "splinedit: %v\n", err)
		return 2
	}
	in := stdin
	if opts.script != "" {
		f, err := os.Open(opts.script)
		if err != nil {
			fmt.Fprintf(stderr, "splinedit: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}
	if err = Replay(session, in); err != nil {
		fmt.Fprintf(stderr, "splinedit: %v\n", err)
		return 1
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()
	if opts.bezier {
		PrintBezier(out, session)
	} else {
		PrintSamples(out, session)
	}
	if opts.pngfile != "" {
		if err = WritePNG(opts.pngfile, session); err != nil {
			tracer().Errorf("cannot write preview: %v", err)
		}
	}
	return 0
}

// initTracing installs a Go logger for all tracers, at the level configured
// with key "tracing.level".
func initTracing(conf schuko.Configuration) {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	adapter := tracing.GetAdapterFromConfiguration(conf, "tracing.adapter")
	tracing.SetTraceSelector(tracing.SelectorForAdapter(adapter))
	tracer().SetTraceLevel(tracing.TraceLevelFromString(conf.GetString("tracing.level")))
}

func newSession(conf schuko.Configuration) (*editor.Session, error) {
	settings, err := editor.SettingsFrom(conf)
	if err != nil {
		return nil, err
	}
	tracer().Infof("Maximum of points: %d", settings.Capacity)
	return editor.NewSession(settings)
}

// PrintSamples prints the points and the curve samples of a session, one
// per line, in curve coordinates.
func PrintSamples(w io.Writer, s *editor.Session) {
	for i, p := range s.Points() {
		fmt.Fprintf(w, "point %d %s\n", i, splines.PointString(p))
	}
	for seg, p := range s.Samples() {
		fmt.Fprintf(w, "sample %d %s\n", seg, splines.PointString(p))
	}
}

// PrintBezier prints the points of a session and its curve as Bézier path
// elements.
func PrintBezier(w io.Writer, s *editor.Session) {
	for i, p := range s.Points() {
		fmt.Fprintf(w, "point %d %s\n", i, splines.PointString(p))
	}
	for _, el := range s.Bezier() {
		fmt.Fprintln(w, el)
	}
}
