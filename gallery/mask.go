package gallery

import (
	"context"

	"gonum.org/v1/plot/vg"

	"github.com/geal-ai/ncgallery"
	"github.com/geal-ai/ncgallery/chart"
)

// Land-sea mask values in ORO.
const (
	oroOcean = 0
	oroLand  = 1
)

// maskPanel describes one of the two masked figures.
type maskPanel struct {
	suffix  string
	title   string
	keep    float64
	levels  []float64
	cmapLo  float64
	cbTicks []float64
}

var maskPanels = []maskPanel{
	{
		suffix: "ocean", title: "Ocean Only", keep: oroOcean,
		levels: chart.Arange(260, 305, 2), cmapLo: 0.1,
		cbTicks: chart.Arange(262, 304, 4),
	},
	{
		suffix: "land", title: "Land Only", keep: oroLand,
		levels: chart.Arange(215, 316, 4), cmapLo: 0.1,
		cbTicks: chart.Arange(219, 304, 12),
	},
}

func runMask(ctx context.Context, env *Env) ([]string, error) {
	var ts, oro *ncgallery.Field
	err := withDataset(ctx, env, atmosFile, func(ds *ncgallery.Dataset) error {
		vs, err := variables(ds, "TS", "ORO")
		if err != nil {
			return err
		}
		if ts, err = vs[0].Isel("time", 0); err != nil {
			return err
		}
		oro, err = vs[1].Isel("time", 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	outs, err := drawMask(ts, oro, env)
	if err != nil {
		return nil, err
	}
	return env.saveAll("mask", outs)
}

func drawMask(ts, oro *ncgallery.Field, env *Env) ([]output, error) {
	cm, err := chart.Named("BlAqGrYeOrRe")
	if err != nil {
		return nil, err
	}
	w, h := env.Config.Size("mask", 10, 6)
	extent := ncgallery.GlobalExtent

	var outs []output
	for _, mp := range maskPanels {
		masked, err := ts.Where(oro, ncgallery.Equals(mp.keep))
		if err != nil {
			return nil, err
		}
		if masked, err = signedCyclic(masked); err != nil {
			return nil, err
		}
		grid, err := chart.GridFromField(masked, "lon", "lat")
		if err != nil {
			return nil, err
		}
		pal := cm.Truncate(mp.cmapLo, 1).Palette(len(mp.levels) - 1)
		fc, err := chart.NewFilledContour(grid, mp.levels, pal)
		if err != nil {
			return nil, err
		}

		p := mapPlot(extent, chart.LonTicks(30, 3), chart.LatTicks(30, 3))
		p.Add(fc)
		env.addOutlines(p, extent, nil)
		chart.CornerTitles(p, ts.Attr("long_name"), ts.Attr("units"))
		chart.NCLize(p, vg.Points(8))

		fig := colorbarFigure(p, fc, mp.cbTicks, "%g", w, h)
		fig.Suptitle = mp.title
		outs = append(outs, output{suffix: mp.suffix, fig: fig})
	}
	return outs, nil
}
