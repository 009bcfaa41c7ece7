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

// barData is a monthly index series; Dates are yyyymm/100 (e.g. 1866.01).
type barData struct {
	Dates  []float64
	Values []float64
}

func runBar(ctx context.Context, env *Env) ([]string, error) {
	var d barData
	err := withDataset(ctx, env, soiFile, func(ds *ncgallery.Dataset) error {
		var err error
		d, err = loadBar(ds)
		return err
	})
	if err != nil {
		return nil, err
	}
	outs, err := drawBar(d, env)
	if err != nil {
		return nil, err
	}
	return env.saveAll("bar", outs)
}

func loadBar(ds *ncgallery.Dataset) (barData, error) {
	vs, err := variables(ds, "SOI_SIGNAL", "yyyymm")
	if err != nil {
		return barData{}, err
	}
	soi, ym := vs[0], vs[1]
	if soi.Len() != ym.Len() {
		return barData{}, fmt.Errorf("SOI_SIGNAL has %d values, yyyymm %d: %w", soi.Len(), ym.Len(), ncgallery.ErrShapeMismatch)
	}
	d := barData{Dates: make([]float64, ym.Len()), Values: soi.Vals}
	for i, v := range ym.Vals {
		d.Dates[i] = v / 100
	}
	return d, nil
}

func drawBar(d barData, env *Env) ([]output, error) {
	n := len(d.Values)
	if n == 0 || len(d.Dates) != n {
		return nil, fmt.Errorf("bar: %d dates for %d values", len(d.Dates), n)
	}
	pos := make(plotter.Values, n)
	neg := make(plotter.Values, n)
	for i, v := range d.Values {
		switch {
		case math.IsNaN(v):
		case v > 0:
			pos[i] = v
		default:
			neg[i] = v
		}
	}

	w, h := env.Config.Size("bar", 5, 5)
	width := vg.Length(w) * vg.Inch * 0.8 / vg.Length(n)
	p := plot.New()
	for _, s := range []struct {
		vals plotter.Values
		clr  color.Color
	}{{pos, color.RGBA{R: 0xff, A: 0xff}}, {neg, color.RGBA{B: 0xff, A: 0xff}}} {
		bars, err := plotter.NewBarChart(s.vals, width)
		if err != nil {
			return nil, fmt.Errorf("bar: %w", err)
		}
		bars.Color = s.clr
		bars.LineStyle = draw.LineStyle{Color: s.clr, Width: width / 4}
		p.Add(bars)
	}

	// Bars sit at their index; label every 20 years from the first date.
	var ticks chart.Fixed
	first := math.Floor(d.Dates[0])
	for i, t := range d.Dates {
		yr := math.Floor(t)
		if math.Mod(yr-first, 20) == 0 && (i == 0 || math.Floor(d.Dates[i-1]) != yr) {
			ticks.Values = append(ticks.Values, float64(i))
			ticks.Labels = append(ticks.Labels, fmt.Sprintf("%.0f", yr))
		}
	}
	p.X.Tick.Marker = ticks
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Title.Text = "Darwin Southern Oscillation Index"
	p.Y.Label.Text = "Anomalies"
	return []output{{fig: chart.NewFigure(w, h).Add(p, 1, 1)}}, nil
}
