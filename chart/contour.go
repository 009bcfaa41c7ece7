package chart

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/geal-ai/ncgallery"
)

// Grid adapts a 2-D field to plotter.GridXYZ. Z is row-major with one row
// per Y value: Z[r*len(X)+c].
type Grid struct {
	Xs, Ys []float64
	Zs     []float64
}

var _ plotter.GridXYZ = (*Grid)(nil)

// GridFromField builds a Grid from a 2-D field whose dims are (ydim, xdim).
func GridFromField(f *ncgallery.Field, xdim, ydim string) (*Grid, error) {
	if len(f.Dims) != 2 || f.Dims[0] != ydim || f.Dims[1] != xdim {
		return nil, fmt.Errorf("grid from %q: dims %v, want [%s %s]: %w", f.Name, f.Dims, ydim, xdim, ncgallery.ErrShapeMismatch)
	}
	return &Grid{Xs: f.Coords[1].Values, Ys: f.Coords[0].Values, Zs: f.Vals}, nil
}

// Dims implements plotter.GridXYZ.
func (g *Grid) Dims() (c, r int) { return len(g.Xs), len(g.Ys) }

// Z implements plotter.GridXYZ.
func (g *Grid) Z(c, r int) float64 { return g.Zs[r*len(g.Xs)+c] }

// X implements plotter.GridXYZ.
func (g *Grid) X(c int) float64 { return g.Xs[c] }

// Y implements plotter.GridXYZ.
func (g *Grid) Y(r int) float64 { return g.Ys[r] }

// Bands partitions values by ascending level boundaries. Band k covers
// [Levels[k], Levels[k+1]); the top level belongs to the last band.
type Bands struct {
	Levels []float64
}

// Index returns the band containing v, or -1 for NaN and values outside
// [Levels[0], Levels[len-1]].
func (b Bands) Index(v float64) int {
	n := len(b.Levels)
	if n < 2 || math.IsNaN(v) || v < b.Levels[0] || v > b.Levels[n-1] {
		return -1
	}
	k := sort.SearchFloat64s(b.Levels, v)
	// SearchFloat64s returns the first level >= v.
	if k < n && b.Levels[k] == v {
		if k == n-1 {
			return n - 2
		}
		return k
	}
	return k - 1
}

// Len is the number of bands.
func (b Bands) Len() int { return max(len(b.Levels)-1, 0) }

// bandGrid reports band indices in place of values.
type bandGrid struct {
	plotter.GridXYZ
	bands Bands
}

func (g bandGrid) Z(c, r int) float64 {
	return float64(g.bands.Index(g.GridXYZ.Z(c, r)))
}

// FilledContour draws the cells of g coloured by the band their value falls
// in. Cells outside the level range or NaN are left empty.
type FilledContour struct {
	*plotter.HeatMap
	Bands Bands
	Pal   Palette
}

// NewFilledContour fills the bands between levels with colours sampled from
// cm, one colour per band.
func NewFilledContour(g plotter.GridXYZ, levels []float64, pal Palette) (*FilledContour, error) {
	if len(levels) < 2 {
		return nil, fmt.Errorf("filled contour: need at least 2 levels, got %d", len(levels))
	}
	if !sort.Float64sAreSorted(levels) {
		return nil, fmt.Errorf("filled contour: levels %v are not ascending", levels)
	}
	b := Bands{Levels: levels}
	if len(pal) != b.Len() {
		return nil, fmt.Errorf("filled contour: %d colours for %d bands", len(pal), b.Len())
	}
	// One extra colour so band k maps exactly onto palette entry k with
	// Min=0 and Max=Len: index = (k-0)*Len/Len.
	hp := append(Palette(nil), pal...)
	hp = append(hp, pal[len(pal)-1])
	h := plotter.NewHeatMap(bandGrid{GridXYZ: g, bands: b}, hp)
	h.Min, h.Max = 0, float64(b.Len())
	// Out-of-range and NaN cells report -1 and fall into Underflow.
	h.Underflow = nil
	h.Overflow = nil
	return &FilledContour{HeatMap: h, Bands: b, Pal: pal}, nil
}

// ContourLines draws iso-lines at levels in a single colour.
func ContourLines(g plotter.GridXYZ, levels []float64, clr color.Color, width vg.Length) *plotter.Contour {
	c := plotter.NewContour(g, levels, Palette{clr})
	c.LineStyles = []draw.LineStyle{{Color: clr, Width: width}}
	return c
}

// NewColorbar returns a plot showing one box per band with ticks at the
// given level values. Ticks that are not band boundaries are skipped.
func NewColorbar(f *FilledContour, ticks []float64, format string) *plot.Plot {
	p := plot.New()
	n := f.Bands.Len()
	for k := 0; k < n; k++ {
		box := plotter.XYs{{X: float64(k), Y: 0}, {X: float64(k + 1), Y: 0}, {X: float64(k + 1), Y: 1}, {X: float64(k), Y: 1}}
		poly, err := plotter.NewPolygon(box)
		if err != nil {
			continue
		}
		poly.Color = f.Pal[k]
		poly.LineStyle = draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}
		p.Add(poly)
	}
	if format == "" {
		format = "%g"
	}
	var fx Fixed
	for _, t := range ticks {
		for k, l := range f.Bands.Levels {
			if l == t {
				fx.Values = append(fx.Values, float64(k))
				fx.Labels = append(fx.Labels, fmt.Sprintf(format, t))
			}
		}
	}
	p.X.Tick.Marker = fx
	p.X.Min, p.X.Max = 0, float64(n)
	p.Y.Min, p.Y.Max = 0, 1
	p.HideY()
	p.X.LineStyle.Width = 0
	return p
}
