package gallery

import (
	"context"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"go.uber.org/zap"

	"github.com/geal-ai/ncgallery"
	"github.com/geal-ai/ncgallery/chart"
)

const scatterWindow = 40

// scatterData is a smoothed point series plus the regression line fitted
// to it and evaluated over the unsmoothed time axis.
type scatterData struct {
	Time, Smoothed []float64
	FullTime, Fit  []float64
	Slope, Offset  float64
}

func runScatter(ctx context.Context, env *Env) ([]string, error) {
	var d scatterData
	err := withDataset(ctx, env, tsFile, func(ds *ncgallery.Dataset) error {
		ts, err := ds.Variable("TS")
		if err != nil {
			return err
		}
		d, err = loadScatter(ts)
		return err
	})
	if err != nil {
		return nil, err
	}
	env.Log.Debug("regression line", zap.Float64("slope", d.Slope), zap.Float64("intercept", d.Offset))
	outs, err := drawScatter(d, env)
	if err != nil {
		return nil, err
	}
	return env.saveAll("scatter", outs)
}

// loadScatter takes the grid point nearest 60N 180E, smooths it with a
// centred running mean and fits a line through the smoothed values.
func loadScatter(ts *ncgallery.Field) (scatterData, error) {
	pt, err := ts.Sel("lat", 60)
	if err != nil {
		return scatterData{}, err
	}
	if pt, err = pt.Sel("lon", 180); err != nil {
		return scatterData{}, err
	}
	rolled, err := pt.RollingMean("time", scatterWindow, true)
	if err != nil {
		return scatterData{}, err
	}
	if rolled, err = rolled.DropNaN("time"); err != nil {
		return scatterData{}, err
	}
	t, err := rolled.Coord("time")
	if err != nil {
		return scatterData{}, err
	}
	slope, offset, err := ncgallery.LinearFit(t, rolled.Vals)
	if err != nil {
		return scatterData{}, err
	}
	full, err := pt.Coord("time")
	if err != nil {
		return scatterData{}, err
	}
	return scatterData{
		Time: t, Smoothed: rolled.Vals,
		FullTime: full, Fit: ncgallery.Line(slope, offset, full),
		Slope: slope, Offset: offset,
	}, nil
}

func drawScatter(d scatterData, env *Env) ([]output, error) {
	pts := make(plotter.XYs, len(d.Time))
	for i := range d.Time {
		pts[i] = plotter.XY{X: d.Time[i], Y: d.Smoothed[i]}
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	sc.GlyphStyle = draw.GlyphStyle{Color: color.RGBA{R: 0xff, A: 0xff}, Radius: vg.Points(1), Shape: draw.CircleGlyph{}}

	fit := make(plotter.XYs, len(d.FullTime))
	for i := range d.FullTime {
		fit[i] = plotter.XY{X: d.FullTime[i], Y: d.Fit[i]}
	}
	line, err := plotter.NewLine(fit)
	if err != nil {
		return nil, fmt.Errorf("scatter regression line: %w", err)
	}
	line.LineStyle = draw.LineStyle{Color: color.Black, Width: vg.Points(1)}

	p := plot.New()
	p.Add(sc, line)
	p.X.Min, p.X.Max = 6000, 9500
	p.Y.Min, p.Y.Max = 268, 271.5
	p.X.Tick.Marker = chart.AutoMinor{Major: plot.DefaultTicks{}, N: 5}
	p.Y.Tick.Marker = chart.AutoMinor{Major: plot.DefaultTicks{}, N: 5}
	p.Title.Text = "Output from regline"
	p.X.Label.Text = "simulated time"
	p.Y.Label.Text = "Surface temperature"
	chart.NCLize(p, vg.Points(6))

	w, h := env.Config.Size("scatter", 6, 6)
	return []output{{fig: chart.NewFigure(w, h).Add(p, 1, 1)}}, nil
}
