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

// Sample dataset names, relative to the data server root.
const (
	soiFile   = "netcdf_files/SOI.nc"
	tsFile    = "netcdf_files/b003_TS_200-299.nc"
	coneFile  = "netcdf_files/cone.nc"
	uvFile    = "netcdf_files/uv300.nc"
	atmosFile = "netcdf_files/atmos.nc"
)

var (
	lightGray = color.Gray{Y: 0xd3}
	gray      = color.Gray{Y: 0x80}
)

// output is one figure an example produces. suffix tells apart the files
// of examples with several figures.
type output struct {
	suffix string
	fig    *chart.Figure
}

// saveAll writes every figure and returns the file paths.
func (e *Env) saveAll(name string, outs []output) ([]string, error) {
	var files []string
	for _, o := range outs {
		path := e.OutPath(name, o.suffix)
		if err := e.save(o.fig, path); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

// withDataset opens a sample dataset, hands it to fn and closes it.
func withDataset(ctx context.Context, env *Env, name string, fn func(*ncgallery.Dataset) error) error {
	ds, err := env.Open(ctx, name)
	if err != nil {
		return err
	}
	defer ds.Close()
	if err := fn(ds); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// variables reads several variables from ds.
func variables(ds *ncgallery.Dataset, names ...string) ([]*ncgallery.Field, error) {
	out := make([]*ncgallery.Field, len(names))
	for i, n := range names {
		f, err := ds.Variable(n)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// mapPlot returns a plate carrée plot over extent with degree-labelled ticks.
func mapPlot(extent ncgallery.Extent, lon, lat plot.Ticker) *plot.Plot {
	p := plot.New()
	p.X.Min, p.X.Max = extent.West, extent.East
	p.Y.Min, p.Y.Max = extent.South, extent.North
	p.X.Tick.Marker = lon
	p.Y.Tick.Marker = lat
	return p
}

// addOutlines puts coastlines (and land shading when fill is set) under
// the other plotters of p, if a coastline file is configured.
func (e *Env) addOutlines(p *plot.Plot, extent ncgallery.Extent, fill color.Color) {
	o := e.Outlines(extent)
	if o == nil {
		return
	}
	o.Fill = fill
	p.Add(o)
}

// colorbarFigure stacks a map over a horizontal colorbar half its width.
func colorbarFigure(main *plot.Plot, fc *chart.FilledContour, ticks []float64, format string, w, h float64) *chart.Figure {
	cb := chart.NewColorbar(fc, ticks, format)
	cb.X.Tick.Label.Font.Size = vg.Points(10)
	return chart.NewFigure(w, h).Add(main, 6, 1).Add(cb, 1, 0.5)
}

// signedCyclic rotates a field's longitudes to -180..180 and closes the seam.
func signedCyclic(f *ncgallery.Field) (*ncgallery.Field, error) {
	s, err := f.ToSigned()
	if err != nil {
		return nil, err
	}
	return s.AddCyclic("lon")
}
