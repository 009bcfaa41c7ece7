package gallery

import (
	"context"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/geal-ai/ncgallery"
	"github.com/geal-ai/ncgallery/chart"
)

func runLegend(ctx context.Context, env *Env) ([]string, error) {
	var u, v *ncgallery.Field
	err := withDataset(ctx, env, uvFile, func(ds *ncgallery.Dataset) error {
		vs, err := variables(ds, "U", "V")
		if err != nil {
			return err
		}
		if u, err = zonalAt(vs[0], 0); err != nil {
			return err
		}
		v, err = zonalAt(vs[1], 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	outs, err := drawLegend(u, v, env)
	if err != nil {
		return nil, err
	}
	return env.saveAll("legend", outs)
}

// zonalAt is the zonal mean of f at time index t.
func zonalAt(f *ncgallery.Field, t int) (*ncgallery.Field, error) {
	s, err := f.Isel("time", t)
	if err != nil {
		return nil, err
	}
	return s.ZonalMean()
}

// latLine pairs a 1-d latitude profile with its coordinate.
func latLine(f *ncgallery.Field) (plotter.XYs, error) {
	lat, err := f.Coord("lat")
	if err != nil {
		return nil, err
	}
	if len(f.Dims) != 1 {
		return nil, fmt.Errorf("%s: want a latitude profile, got dims %v", f.Name, f.Dims)
	}
	xys := make(plotter.XYs, 0, len(lat))
	for i, y := range lat {
		xys = append(xys, plotter.XY{X: y, Y: f.Vals[i]})
	}
	return xys, nil
}

func drawLegend(u, v *ncgallery.Field, env *Env) ([]output, error) {
	p := plot.New()
	for _, s := range []struct {
		f      *ncgallery.Field
		label  string
		dashes []vg.Length
	}{
		{v, "V", []vg.Length{vg.Points(4), vg.Points(2)}},
		{u, "U", nil},
	} {
		xys, err := latLine(s.f)
		if err != nil {
			return nil, err
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("legend %s: %w", s.label, err)
		}
		l.LineStyle = draw.LineStyle{Color: gray, Width: vg.Points(1), Dashes: s.dashes}
		p.Add(l)
		p.Legend.Add(s.label, l)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = vg.Points(10)
	p.Legend.YOffs = -vg.Points(10)

	p.X.Min, p.X.Max = -90, 90
	p.Y.Min, p.Y.Max = -10, 40
	lats := chart.Arange(-90, 91, 30)
	labels := make([]string, len(lats))
	for i, l := range lats {
		labels[i] = ncgallery.LatLabelNCL(l)
	}
	var ticks chart.Fixed
	for _, m := range chart.Arange(-90, 91, 10) {
		ticks.Values = append(ticks.Values, m)
		label := ""
		for i, l := range lats {
			if l == m {
				label = labels[i]
			}
		}
		ticks.Labels = append(ticks.Labels, label)
	}
	p.X.Tick.Marker = ticks
	p.Y.Tick.Marker = chart.Multiple{Major: 10, Minor: 5}
	chart.NCLize(p, vg.Points(6))

	w, h := env.Config.Size("legend", 5, 5)
	return []output{{fig: chart.NewFigure(w, h).Add(p, 1, 1)}}, nil
}
