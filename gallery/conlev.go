package gallery

import (
	"context"

	"gonum.org/v1/plot/vg"

	"github.com/geal-ai/ncgallery"
	"github.com/geal-ai/ncgallery/chart"
)

var anomalyLevels = []float64{-12, -10, -8, -6, -4, -2, -1, 1, 2, 4, 6, 8, 10, 12}

func runConLev(ctx context.Context, env *Env) ([]string, error) {
	var anom *ncgallery.Field
	err := withDataset(ctx, env, tsFile, func(ds *ncgallery.Dataset) error {
		ts, err := ds.Variable("TS")
		if err != nil {
			return err
		}
		anom, err = loadConLev(ts)
		return err
	})
	if err != nil {
		return nil, err
	}
	outs, err := drawConLev(anom, env)
	if err != nil {
		return nil, err
	}
	return env.saveAll("conlev", outs)
}

// loadConLev removes the time mean from the first time step, the
// dim_rmvmean_n idiom, and closes the longitude seam.
func loadConLev(ts *ncgallery.Field) (*ncgallery.Field, error) {
	mean, err := ts.Mean("time")
	if err != nil {
		return nil, err
	}
	first, err := ts.Isel("time", 0)
	if err != nil {
		return nil, err
	}
	anom, err := first.Sub(mean)
	if err != nil {
		return nil, err
	}
	return signedCyclic(anom)
}

func drawConLev(anom *ncgallery.Field, env *Env) ([]output, error) {
	grid, err := chart.GridFromField(anom, "lon", "lat")
	if err != nil {
		return nil, err
	}
	cm, err := chart.Named("BlRe")
	if err != nil {
		return nil, err
	}
	pal := cm.Palette(len(anomalyLevels) - 1).WithWhiteCenter()
	fc, err := chart.NewFilledContour(grid, anomalyLevels, pal)
	if err != nil {
		return nil, err
	}

	extent := ncgallery.GlobalExtent
	p := mapPlot(extent, chart.LonTicks(30, 3), chart.LatTicks(30, 3))
	p.Add(fc)
	env.addOutlines(p, extent, nil)
	chart.CornerTitles(p, "Anomalies: Surface Temperature", "K")
	p.Title.TextStyle.Font.Size = vg.Points(18)
	p.X.Tick.Label.Font.Size = vg.Points(16)
	p.Y.Tick.Label.Font.Size = vg.Points(16)
	chart.NCLize(p, vg.Points(10))

	w, h := env.Config.Size("conlev", 15, 9)
	return []output{{fig: colorbarFigure(p, fc, anomalyLevels, "%g", w, h)}}, nil
}
