package gallery

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/geal-ai/ncgallery"
	"github.com/geal-ai/ncgallery/chart"
)

var (
	polygonExtent = ncgallery.Extent{West: -130, East: 0, South: -20, North: 40}

	// Approximate spots for contour labels; each gets the label of the
	// nearest labelled level if the field is close enough to it there.
	polygonLabelSpots = [][2]float64{
		{-123, 35}, {-116, 17}, {-94, 4}, {-85, -6}, {-95, -10},
		{-85, -15}, {-70, 35}, {-42, 28}, {-54, 7}, {-53, -5},
		{-39, -11}, {-28, 11}, {-16, -1}, {-8, -9},
	}
	polygonLabelLevels = []float64{-8, 0, 8, 16}

	purple      = color.RGBA{R: 0x80, B: 0x80, A: 0xff}
	brown       = color.RGBA{R: 0xa5, G: 0x2a, B: 0x2a, A: 0xff}
	blue        = color.RGBA{B: 0xff, A: 0xff}
	forestGreen = color.RGBA{R: 0x22, G: 0x8b, B: 0x22, A: 0xff}
)

// box is the outlined rectangle with text on its sides.
const (
	boxLeft, boxBottom  = -90.0, 0.0
	boxWidth, boxHeight = 45.0, 30.0
)

func runPolygons(ctx context.Context, env *Env) ([]string, error) {
	var u *ncgallery.Field
	err := withDataset(ctx, env, uvFile, func(ds *ncgallery.Dataset) error {
		all, err := ds.Variable("U")
		if err != nil {
			return err
		}
		if u, err = all.Isel("time", 1); err != nil {
			return err
		}
		u, err = u.ToSigned()
		return err
	})
	if err != nil {
		return nil, err
	}
	outs, err := drawPolygons(u, env)
	if err != nil {
		return nil, err
	}
	return env.saveAll("polygons", outs)
}

func drawPolygons(u *ncgallery.Field, env *Env) ([]output, error) {
	w, h := env.Config.Size("polygons", 10, 6)
	var outs []output
	for i, decorate := range []func(*plot.Plot) error{polygonsText, polygonsHatch} {
		p, err := polygonBase(u, env, decorate)
		if err != nil {
			return nil, err
		}
		outs = append(outs, output{suffix: fmt.Sprint(i + 1), fig: chart.NewFigure(w, h).Add(p, 1, 1)})
	}
	return outs, nil
}

// polygonBase draws the zoomed contour map shared by both figures. decorate
// adds figure-specific plotters beneath the contours.
func polygonBase(u *ncgallery.Field, env *Env, decorate func(*plot.Plot) error) (*plot.Plot, error) {
	grid, err := chart.GridFromField(u, "lon", "lat")
	if err != nil {
		return nil, err
	}
	p := mapPlot(polygonExtent,
		chart.LonTicks(30, 3),
		chart.AutoMinor{Major: chart.Multiple{Major: 20, Label: ncgallery.LatLabel}, N: 4})
	env.addOutlines(p, polygonExtent, lightGray)
	if err := decorate(p); err != nil {
		return nil, err
	}
	p.Add(chart.ContourLines(grid, chart.Arange(-12, 44, 4), gray, vg.Points(0.5)))

	for _, at := range polygonLabelSpots {
		lon, lat := at[0], at[1]
		level, ok := nearestLevel(u.Lookup(lat, lon), polygonLabelLevels, 2)
		if !ok {
			continue
		}
		p.Add(chart.NewTextBox(p, lon, lat, fmt.Sprintf("%.0f", level), vg.Points(8)))
	}

	box, err := chart.Outline(rectangle(boxLeft, boxBottom, boxWidth, boxHeight),
		color.NRGBA{R: 0xff, A: 0x80}, vg.Points(1))
	if err != nil {
		return nil, err
	}
	p.Add(box)
	right, top := boxLeft+boxWidth, boxBottom+boxHeight
	for _, t := range []struct {
		x, y   float64
		rot    float64
		bg     color.Color
		xalign draw.XAlignment
	}{
		{boxLeft + 0.6*boxWidth, top, 0, color.White, draw.XRight},
		{boxLeft + 0.5*boxWidth, boxBottom, 0, lightGray, draw.XRight},
		{boxLeft, top - 4, math.Pi / 2, color.White, draw.XCenter},
		{right, boxBottom + 4, -math.Pi / 2, color.White, draw.XCenter},
	} {
		tb := chart.NewTextBox(p, t.x, t.y, "test", vg.Points(8))
		tb.Style.Rotation = t.rot
		tb.Style.XAlign = t.xalign
		tb.Background = t.bg
		p.Add(tb)
	}

	chart.CornerTitles(p, "Zonal Wind", "m/s")
	p.X.Label.Text = "CONTOUR FROM -12 TO 40 BY 4"
	p.X.Label.Position = draw.PosRight
	chart.NCLize(p, vg.Points(6))
	return p, nil
}

// polygonsText writes a word inside the box.
func polygonsText(p *plot.Plot) error {
	p.Add(chart.NewTextBox(p, -60, 15, "sample", vg.Points(11)))
	return nil
}

// polygonsHatch dots the box and hatches three triangles of decreasing
// density.
func polygonsHatch(p *plot.Plot) error {
	p.Add(&chart.Hatch{
		Poly:    rectangle(boxLeft, boxBottom, boxWidth, boxHeight),
		Pattern: "...",
		Color:   color.NRGBA{R: purple.R, B: purple.B, A: 0x66},
		Spacing: vg.Points(12),
	})
	xs, ys := []float64{-125, -115, -120}, []float64{-15, -10, 5}
	for i, t := range []struct {
		clr     color.Color
		pattern string
	}{
		{brown, "++++"},
		{blue, "+++"},
		{forestGreen, "++"},
	} {
		tri := make(plotter.XYs, len(xs))
		for k := range xs {
			tri[k] = plotter.XY{X: xs[k] + 10*float64(i), Y: ys[k]}
		}
		p.Add(&chart.Hatch{Poly: tri, Pattern: t.pattern, Color: t.clr, Spacing: vg.Points(16)})
	}
	return nil
}

// nearestLevel returns the level closest to v if it lies within tol.
func nearestLevel(v float64, levels []float64, tol float64) (float64, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	best, dist := 0.0, math.Inf(1)
	for _, l := range levels {
		if d := math.Abs(v - l); d < dist {
			best, dist = l, d
		}
	}
	return best, dist <= tol
}

func rectangle(x, y, w, h float64) plotter.XYs {
	return plotter.XYs{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
}
