package gallery

import (
	"context"
	"fmt"
	"image/color"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"go.uber.org/zap"

	"github.com/geal-ai/ncgallery/chart"
)

var explicitYears = []float64{1950, 1960, 1970, 1980, 1990, 2000, 2005}

func runTicks(ctx context.Context, env *Env) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	xs, ys := tickSeries(uint64(env.Config.Seed))
	env.Log.Info("generated series", zap.Int("x", len(xs)), zap.Int("y", len(ys)))
	outs, err := drawTicks(xs, ys, env)
	if err != nil {
		return nil, err
	}
	return env.saveAll("ticks", outs)
}

// tickSeries returns the years 1950..2005 and one uniform value in [-4, 4)
// per year. The same seed gives the same series.
func tickSeries(seed uint64) (xs, ys []float64) {
	r := rand.New(rand.NewPCG(seed, seed))
	for yr := 1950; yr <= 2005; yr++ {
		xs = append(xs, float64(yr))
		ys = append(ys, r.Float64()*8-4)
	}
	return xs, ys
}

func drawTicks(xs, ys []float64, env *Env) ([]output, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("ticks: %d x values for %d y values", len(xs), len(ys))
	}

	// Explicit major years plus unlabelled minor ticks every year.
	var explicit chart.Fixed
	for yr := 1949.0; yr <= 2006; yr++ {
		explicit.Values = append(explicit.Values, yr)
		label := ""
		if slices.Contains(explicitYears, yr) {
			label = fmt.Sprintf("%d", int(yr))
		}
		explicit.Labels = append(explicit.Labels, label)
	}

	panels := []struct {
		title string
		x     plot.Ticker
	}{
		{"Tick Spacing = 5", chart.Multiple{Major: 5, Minor: 1.25, Format: "%d"}},
		{"Ticks Set Explicitly", explicit},
	}
	w, h := env.Config.Size("ticks", 8, 6)
	fig := chart.NewFigure(w, h)
	for _, pn := range panels {
		xys := make(plotter.XYs, len(xs))
		for i := range xs {
			xys[i] = plotter.XY{X: xs[i], Y: ys[i]}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("ticks: %w", err)
		}
		l.LineStyle = draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}

		p := plot.New()
		p.Add(l)
		p.X.Min, p.X.Max = 1949, 2006
		p.Y.Min, p.Y.Max = -4.2, 4.2
		p.X.Tick.Marker = pn.x
		p.Y.Tick.Marker = chart.Multiple{Major: 2, Minor: 0.5, Format: "%.1f"}
		chart.CornerTitles(p, pn.title, "")
		chart.NCLize(p, vg.Points(10))
		fig.Add(p, 1, 1)
	}
	return []output{{fig: fig}}, nil
}
