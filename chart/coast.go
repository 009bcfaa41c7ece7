package chart

import (
	"fmt"
	"image/color"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/geal-ai/ncgallery"
)

// Outlines draws polylines in lon/lat degrees, e.g. coastlines. When Fill is
// set, closed rings are also filled (continent shading).
type Outlines struct {
	Lines     [][]geom.Point
	LineStyle draw.LineStyle
	Fill      color.Color
}

// LoadOutlines reads the line and polygon features of a shapefile that
// overlap extent. Coordinates must be lon/lat degrees, as in the Natural
// Earth coastline files.
func LoadOutlines(path string, extent ncgallery.Extent) (*Outlines, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("outlines %s: %w", path, err)
	}
	defer d.Close()

	bounds := extent.Bounds()
	o := &Outlines{LineStyle: draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}}
	for {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		if g == nil || !g.Bounds().Overlaps(bounds) {
			continue
		}
		o.add(g)
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("outlines %s: %w", path, err)
	}
	return o, nil
}

func (o *Outlines) add(g geom.Geom) {
	switch t := g.(type) {
	case geom.LineString:
		o.Lines = append(o.Lines, []geom.Point(t))
	case geom.MultiLineString:
		for _, l := range t {
			o.Lines = append(o.Lines, []geom.Point(l))
		}
	case geom.Polygon:
		for _, ring := range t {
			o.Lines = append(o.Lines, []geom.Point(ring))
		}
	case geom.MultiPolygon:
		for _, poly := range t {
			for _, ring := range poly {
				o.Lines = append(o.Lines, []geom.Point(ring))
			}
		}
	}
}

// Plot implements plot.Plotter.
func (o *Outlines) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, l := range o.Lines {
		pts := make([]vg.Point, len(l))
		for i, pt := range l {
			pts[i] = vg.Point{X: trX(pt.X), Y: trY(pt.Y)}
		}
		if o.Fill != nil && len(l) > 2 && l[0] == l[len(l)-1] {
			c.FillPolygon(o.Fill, c.ClipPolygonXY(pts))
		}
		if o.LineStyle.Width > 0 {
			c.StrokeLines(o.LineStyle, c.ClipLinesXY(pts)...)
		}
	}
}
