package gallery

import (
	"context"
	"fmt"
	"slices"

	"gonum.org/v1/plot/vg"

	"github.com/geal-ai/ncgallery"
	"github.com/geal-ai/ncgallery/chart"
)

const vectorRef = 20

func runVectors(ctx context.Context, env *Env) ([]string, error) {
	var u, v *ncgallery.Field
	err := withDataset(ctx, env, uvFile, func(ds *ncgallery.Dataset) error {
		vs, err := variables(ds, "U", "V")
		if err != nil {
			return err
		}
		if u, err = thinWinds(vs[0]); err != nil {
			return err
		}
		v, err = thinWinds(vs[1])
		return err
	})
	if err != nil {
		return nil, err
	}
	outs, err := drawVectors(u, v, env)
	if err != nil {
		return nil, err
	}
	return env.saveAll("vectors", outs)
}

// thinWinds keeps time step 1 and every third grid point, skipping the last
// longitude and both polar rows.
func thinWinds(f *ncgallery.Field) (*ncgallery.Field, error) {
	s, err := f.Isel("time", 1)
	if err != nil {
		return nil, err
	}
	if s, err = s.Slice("lon", 0, -1, 3); err != nil {
		return nil, err
	}
	if s, err = s.Slice("lat", 1, -1, 3); err != nil {
		return nil, err
	}
	return s.ToSigned()
}

func drawVectors(u, v *ncgallery.Field, env *Env) ([]output, error) {
	for _, f := range []*ncgallery.Field{u, v} {
		if !slices.Equal(f.Dims, []string{"lat", "lon"}) {
			return nil, fmt.Errorf("vectors: %s has dims %v, want [lat lon]", f.Name, f.Dims)
		}
	}
	lon, err := u.Coord("lon")
	if err != nil {
		return nil, err
	}
	lat, err := u.Coord("lat")
	if err != nil {
		return nil, err
	}
	q, err := chart.NewQuiver(lon, lat, u.Vals, v.Vals, vectorRef)
	if err != nil {
		return nil, err
	}

	extent := ncgallery.GlobalExtent
	p := mapPlot(extent,
		chart.Multiple{Major: 30, Label: ncgallery.LonLabel},
		chart.Multiple{Major: 30, Label: ncgallery.LatLabel})
	env.addOutlines(p, extent, lightGray)
	p.Add(q, chart.QuiverKey{Q: q, X: 167.5, Y: 72.5, Label: fmt.Sprint(vectorRef)})
	chart.CornerTitles(p, "Zonal Wind", "m/s")
	p.X.Label.Text = "Created: " + env.Now().Format("2006-01-02 15:04:05")
	chart.NCLize(p, vg.Points(6))

	w, h := env.Config.Size("vectors", 10, 5.25)
	return []output{{fig: chart.NewFigure(w, h).Add(p, 1, 1)}}, nil
}
