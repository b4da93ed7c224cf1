package main

import (
	"image"
	"image/color"
	"image/png"
	"iter"
	"math"
	"os"

	"github.com/npillmayer/splines"
	"github.com/npillmayer/splines/editor"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
	"honnef.co/go/curve"
)

// Appearance of the preview, in pixels.
const (
	curveWidth   = 3.0
	polygonWidth = 1.0
	pointRadius  = 5.0
	tolerance    = 0.1
)

var (
	curveColor   = color.RGBA{0, 0, 0, 255}
	polygonColor = color.RGBA{0, 0, 255, 255}
	pointColor   = color.RGBA{255, 0, 0, 255}
)

// painter fills shapes given in curve coordinates into a window-sized image.
type painter struct {
	r   *vector.Rasterizer
	dst *image.RGBA
	c2w splines.AT
}

// Render draws a preview of a session on a white background: the polygon
// through the points (in Insert mode only), the curve, and the points.
// Segments of B-splines are colored with hues going round the color wheel,
// natural splines are black.
func Render(s *editor.Session) *image.RGBA {
	settings := s.Settings()
	w, h := settings.Width, settings.Height
	p := &painter{
		r:   vector.NewRasterizer(w, h),
		dst: image.NewRGBA(image.Rect(0, 0, w, h)),
		c2w: splines.CoreToWindow(float64(w)/2, float64(h)/2),
	}
	draw.Draw(p.dst, p.dst.Bounds(), image.White, image.Point{}, draw.Src)
	if pg := s.Polygon(); pg.EdgeCount() > 0 {
		var path curve.BezPath
		path.MoveTo(pg.Edge(0).P0)
		for i := 0; i < pg.EdgeCount(); i++ {
			path.LineTo(pg.Edge(i).P1)
		}
		p.stroke(path, polygonWidth, polygonColor)
	}
	i := 0
	for seg := range s.Bezier().Segments() {
		c := curveColor
		if h, ok := s.Hue(i); ok {
			c = hue(h)
		}
		p.stroke(curve.BezPath{curve.MoveTo(seg.Start()), seg.PathElement()}, curveWidth, c)
		i++
	}
	for _, pt := range s.Points() {
		dot := curve.Circle{Center: splines.Flat(pt), Radius: pointRadius}
		p.fill(dot.PathElements(tolerance), pointColor)
	}
	return p.dst
}

// WritePNG renders a preview of a session to a PNG file.
func WritePNG(filename string, s *editor.Session) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = png.Encode(f, Render(s)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (p *painter) stroke(path curve.BezPath, width float64, c color.Color) {
	style := curve.DefaultStroke.WithWidth(width)
	p.fill(curve.StrokePath(path.Elements(), style, curve.StrokeOpts{}, tolerance), c)
}

func (p *painter) fill(elements iter.Seq[curve.PathElement], c color.Color) {
	b := p.dst.Bounds()
	p.r.Reset(b.Dx(), b.Dy())
	open := false
	for el := range elements {
		switch el.Kind {
		case curve.MoveToKind:
			if open {
				p.r.ClosePath()
			}
			p.r.MoveTo(p.xy(el.P0))
			open = true
		case curve.LineToKind:
			p.r.LineTo(p.xy(el.P0))
		case curve.QuadToKind:
			x1, y1 := p.xy(el.P0)
			x2, y2 := p.xy(el.P1)
			p.r.QuadTo(x1, y1, x2, y2)
		case curve.CubicToKind:
			x1, y1 := p.xy(el.P0)
			x2, y2 := p.xy(el.P1)
			x3, y3 := p.xy(el.P2)
			p.r.CubeTo(x1, y1, x2, y2, x3, y3)
		case curve.ClosePathKind:
			p.r.ClosePath()
			open = false
		}
	}
	if open {
		p.r.ClosePath()
	}
	p.r.Draw(p.dst, b, image.NewUniform(c), image.Point{})
}

func (p *painter) xy(pt curve.Point) (float32, float32) {
	x, y := p.c2w.TransformXY(pt.X, pt.Y)
	return float32(x), float32(y)
}

// hue returns a fully saturated color for a hue angle in degrees.
func hue(h float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	x := 1 - math.Abs(math.Mod(h/60, 2)-1)
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = 1, x, 0
	case h < 120:
		r, g, b = x, 1, 0
	case h < 180:
		r, g, b = 0, 1, x
	case h < 240:
		r, g, b = 0, x, 1
	case h < 300:
		r, g, b = x, 0, 1
	default:
		r, g, b = 1, 0, x
	}
	return color.RGBA{uint8(255*r + 0.5), uint8(255*g + 0.5), uint8(255*b + 0.5), 255}
}
