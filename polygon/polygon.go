/*
Package polygon implements the control polygon of a curve: the straight
line path through an ordered sequence of points. Editors use it to draw
the skeleton of a spline and to hit-test its edges.

Polygons are built with a small builder API, similar to paths:

	pg := polygon.NullPolygon().Knot(splines.P(0, 0)).Knot(splines.P(1, 3)).End()

Internally a polygon is stored as a contour of
github.com/akavel/polyclip-go, which gives us bounding boxes for free.
Edges are handed out as lines of honnef.co/go/curve.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"fmt"
	"math"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splines"
	"github.com/ungerik/go3d/float64/vec3"
	"honnef.co/go/curve"
)

// L traces to the 'polygon' tracer.
func L() tracing.Trace {
	return tracing.Select("polygon")
}

// Polygon is a sequence of knots, connected by straight lines. Knots keep
// their z-component; geometric operations work in the drawing plane.
type Polygon struct {
	knots   []vec3.T
	contour polyclip.Contour
	cycle   bool
}

// NullPolygon creates an empty polygon, to be extended by subsequent
// builder calls.
func NullPolygon() *Polygon {
	return &Polygon{}
}

// FromPoints creates an open polygon through a copy of points.
func FromPoints(points []vec3.T) *Polygon {
	pg := &Polygon{
		knots:   make([]vec3.T, 0, len(points)),
		contour: make(polyclip.Contour, 0, len(points)),
	}
	for _, p := range points {
		pg.Knot(p)
	}
	return pg
}

// Box creates a rectangular polygon from two opposite corners.
func Box(ll, ur vec3.T) *Polygon {
	return NullPolygon().Knot(ll).
		Knot(splines.P(ur[0], ll[1])).
		Knot(ur).
		Knot(splines.P(ll[0], ur[1])).
		Cycle()
}

// Knot appends a knot to a polygon. Part of builder functionality.
func (pg *Polygon) Knot(p vec3.T) *Polygon {
	pg.knots = append(pg.knots, p)
	pg.contour.Add(polyclip.Point{X: p[0], Y: p[1]})
	return pg
}

// End an open polygon. Part of builder functionality.
func (pg *Polygon) End() *Polygon {
	return pg
}

// Cycle closes a polygon. Part of builder functionality.
func (pg *Polygon) Cycle() *Polygon {
	pg.cycle = true
	return pg
}

// IsCycle is a predicate: is this polygon closed?
func (pg *Polygon) IsCycle() bool {
	return pg.cycle
}

// N returns the number of knots.
func (pg *Polygon) N() int {
	if pg == nil {
		return 0
	}
	return len(pg.knots)
}

// Z returns knot #i.
func (pg *Polygon) Z(i int) vec3.T {
	return pg.knots[i]
}

// EdgeCount returns the number of edges. An open polygon of n knots has
// n-1 edges, a closed one n edges.
func (pg *Polygon) EdgeCount() int {
	n := pg.N()
	switch {
	case n < 2:
		return 0
	case pg.cycle:
		return n
	}
	return n - 1
}

// Edge returns edge #i, which runs from knot i to knot i+1, as a line
// in the drawing plane.
func (pg *Polygon) Edge(i int) curve.Line {
	j := (i + 1) % pg.N()
	return curve.Line{P0: splines.Flat(pg.knots[i]), P1: splines.Flat(pg.knots[j])}
}

// BoundingBox returns the axis-aligned bounding box of the knots.
func (pg *Polygon) BoundingBox() polyclip.Rectangle {
	return pg.contour.BoundingBox()
}

// NearEdge finds the edge i closest to q, considering only edges for which the
// perpendicular projection of q falls strictly between the edge's endpoints.
// The perpendicular distance must be strictly less than radius; on ties the
// lower edge index wins. Returns the edge index and the distance, or -1 if no
// edge qualifies.
func (pg *Polygon) NearEdge(q vec3.T, radius float64) (int, float64) {
	nearest, minDist := -1, radius
	if pg.EdgeCount() == 0 {
		return nearest, math.Inf(1)
	}
	pt := splines.Flat(q)
	probe := polyclip.Rectangle{
		Min: polyclip.Point{X: q[0] - radius, Y: q[1] - radius},
		Max: polyclip.Point{X: q[0] + radius, Y: q[1] + radius},
	}
	if !pg.BoundingBox().Overlaps(probe) {
		return nearest, math.Inf(1)
	}
	for i := 0; i < pg.EdgeCount(); i++ {
		edge := pg.Edge(i)
		if edge.P0 == edge.P1 {
			continue // degenerate edge, no projection
		}
		distSq, t := edge.Nearest(pt, 0)
		if t <= 0 || t >= 1 {
			continue // projection at or beyond an endpoint
		}
		if d := math.Sqrt(distSq); d < minDist {
			L().Debugf("edge %d at distance %.4g, t = %.4g", i, d, t)
			nearest, minDist = i, d
		}
	}
	if nearest < 0 {
		return nearest, math.Inf(1)
	}
	return nearest, minDist
}

// Length returns the summed length of all edges.
func (pg *Polygon) Length() float64 {
	var l float64
	for i := 0; i < pg.EdgeCount(); i++ {
		l += pg.Edge(i).Length()
	}
	return l
}

// AsString returns a polygon as a (debugging) string, e.g.
//
//	(0,0) -- (1,3) -- (3,0) -- cycle
func AsString(pg *Polygon) string {
	if pg == nil {
		return "<nil polygon>"
	}
	var sb strings.Builder
	for i, k := range pg.knots {
		if i > 0 {
			sb.WriteString(" -- ")
		}
		sb.WriteString(fmt.Sprintf("(%.4g,%.4g)", splines.Round(k[0]), splines.Round(k[1])))
	}
	if pg.cycle {
		sb.WriteString(" -- cycle")
	}
	return sb.String()
}
