package gallery

import (
	"context"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/geal-ai/ncgallery"
	"github.com/geal-ai/ncgallery/chart"
)

func runConwomap(ctx context.Context, env *Env) ([]string, error) {
	var u *ncgallery.Field
	err := withDataset(ctx, env, coneFile, func(ds *ncgallery.Dataset) error {
		all, err := ds.Variable("u")
		if err != nil {
			return err
		}
		u, err = all.Isel("time", 4)
		return err
	})
	if err != nil {
		return nil, err
	}
	outs, err := drawConwomap(u, env)
	if err != nil {
		return nil, err
	}
	return env.saveAll("conwomap", outs)
}

func drawConwomap(u *ncgallery.Field, env *Env) ([]output, error) {
	if len(u.Dims) != 2 {
		return nil, fmt.Errorf("conwomap: want a 2-d field, got dims %v", u.Dims)
	}
	grid, err := chart.GridFromField(u, u.Dims[1], u.Dims[0])
	if err != nil {
		return nil, err
	}
	// Twelve levels over vmin=-1, vmax=10.
	levels := chart.NiceLevels(-1, 10, 11)
	cm, err := chart.Named("BlueYellowRed")
	if err != nil {
		return nil, err
	}
	fc, err := chart.NewFilledContour(grid, levels, cm.Palette(len(levels)-1))
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Add(fc, chart.ContourLines(grid, levels, color.Black, vg.Points(0.5)))
	p.X.Min, p.X.Max = 0, 49
	p.Y.Min, p.Y.Max = 0, 29
	p.X.Tick.Marker = chart.Multiple{Major: 10, Minor: 2}
	p.Y.Tick.Marker = chart.Multiple{Major: 5, Minor: 1}
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.X.Label.TextStyle.Font.Size = vg.Points(18)
	p.Y.Label.TextStyle.Font.Size = vg.Points(18)
	p.X.Tick.Label.Font.Size = vg.Points(16)
	p.Y.Tick.Label.Font.Size = vg.Points(16)
	chart.CornerTitles(p, "Cone amplitude", "ndim")
	p.Title.TextStyle.Font.Size = vg.Points(18)
	chart.NCLize(p, vg.Points(8))

	w, h := env.Config.Size("conwomap", 10, 6)
	return []output{{fig: colorbarFigure(p, fc, chart.Linspace(0, 9, 10), "%g", w, h)}}, nil
}
