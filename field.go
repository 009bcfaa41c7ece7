package ncgallery

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

var (
	// ErrNoDimension is returned when a dimension name or axis index does not exist.
	ErrNoDimension = errors.New("no such dimension")
	// ErrShapeMismatch is returned when two arrays that must agree in shape do not.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrUnsupportedGrid is returned for coordinate layouts the helpers refuse to guess about
	// (descending, non-finite, unevenly spaced or regional axes).
	ErrUnsupportedGrid = errors.New("unsupported grid")
)

// Coord is a named 1-D coordinate array attached to one dimension of a Field.
type Coord struct {
	Name   string
	Values []float64
}

// Field is a gridded numeric variable: a flat float64 buffer plus named,
// ordered dimensions and their coordinates.
// Values are stored row-major with the last dimension varying fastest.
type Field struct {
	Name   string
	Dims   []string
	Shape  []int
	Coords []Coord // one per dimension, in Dims order
	Vals   []float64
	Attrs  map[string]string
}

// NewField builds a field and fills in index coordinates for any dimension
// that has none. len(vals) must equal the product of shape.
func NewField(name string, dims []string, shape []int, coords []Coord, vals []float64) (*Field, error) {
	if len(dims) != len(shape) {
		return nil, fmt.Errorf("field %q: %d dims but %d shape entries: %w", name, len(dims), len(shape), ErrShapeMismatch)
	}
	if n := product(shape); n != len(vals) {
		return nil, fmt.Errorf("field %q: shape %v holds %d values, got %d: %w", name, shape, n, len(vals), ErrShapeMismatch)
	}
	cs := make([]Coord, len(dims))
	for i, d := range dims {
		cs[i] = Coord{Name: d, Values: indexCoord(shape[i])}
	}
	for _, c := range coords {
		ax := slices.Index(dims, c.Name)
		if ax < 0 {
			return nil, fmt.Errorf("field %q: coordinate %q: %w", name, c.Name, ErrNoDimension)
		}
		if len(c.Values) != shape[ax] {
			return nil, fmt.Errorf("field %q: coordinate %q has %d values, dim has %d: %w",
				name, c.Name, len(c.Values), shape[ax], ErrShapeMismatch)
		}
		cs[ax] = Coord{Name: c.Name, Values: c.Values}
	}
	return &Field{
		Name:   name,
		Dims:   slices.Clone(dims),
		Shape:  slices.Clone(shape),
		Coords: cs,
		Vals:   vals,
		Attrs:  map[string]string{},
	}, nil
}

// Axis resolves a dimension name to its axis index.
func (f *Field) Axis(dim string) (int, error) {
	ax := slices.Index(f.Dims, dim)
	if ax < 0 {
		return -1, fmt.Errorf("field %q has dims %v, not %q: %w", f.Name, f.Dims, dim, ErrNoDimension)
	}
	return ax, nil
}

// Coord returns the coordinate values of dim.
func (f *Field) Coord(dim string) ([]float64, error) {
	ax, err := f.Axis(dim)
	if err != nil {
		return nil, err
	}
	return f.Coords[ax].Values, nil
}

// Len returns the number of values.
func (f *Field) Len() int { return len(f.Vals) }

// Attr returns a string attribute, or "" if unset.
func (f *Field) Attr(key string) string {
	if f.Attrs == nil {
		return ""
	}
	return f.Attrs[key]
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	return &Field{
		Name:   f.Name,
		Dims:   slices.Clone(f.Dims),
		Shape:  slices.Clone(f.Shape),
		Coords: f.cloneCoords(),
		Vals:   slices.Clone(f.Vals),
		Attrs:  f.cloneAttrs(),
	}
}

func (f *Field) cloneCoords() []Coord {
	cs := make([]Coord, len(f.Coords))
	for i, c := range f.Coords {
		cs[i] = Coord{Name: c.Name, Values: slices.Clone(c.Values)}
	}
	return cs
}

func (f *Field) cloneAttrs() map[string]string {
	if f.Attrs == nil {
		return map[string]string{}
	}
	return maps.Clone(f.Attrs)
}

// At returns the value at the given per-axis indices.
func (f *Field) At(idx ...int) float64 {
	return f.Vals[f.offset(idx)]
}

func (f *Field) offset(idx []int) int {
	off := 0
	for ax, i := range idx {
		off = off*f.Shape[ax] + i
	}
	return off
}

// Isel selects index i along dim and drops that dimension.
func (f *Field) Isel(dim string, i int) (*Field, error) {
	ax, err := f.Axis(dim)
	if err != nil {
		return nil, err
	}
	n := f.Shape[ax]
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("isel %s=%d: dim has length %d: %w", dim, i, n, ErrShapeMismatch)
	}
	outer, inner := splitShape(f.Shape, ax)
	vals := make([]float64, 0, outer*inner)
	for o := 0; o < outer; o++ {
		base := (o*n + i) * inner
		vals = append(vals, f.Vals[base:base+inner]...)
	}
	out := &Field{
		Name:   f.Name,
		Dims:   slices.Delete(slices.Clone(f.Dims), ax, ax+1),
		Shape:  slices.Delete(slices.Clone(f.Shape), ax, ax+1),
		Coords: slices.Delete(f.cloneCoords(), ax, ax+1),
		Vals:   vals,
		Attrs:  f.cloneAttrs(),
	}
	return out, nil
}

// Slice keeps every step-th index of dim in [start, stop). Negative start and
// stop count from the end, so Slice("lon", 0, -1, 3) matches lon[0:-1:3].
func (f *Field) Slice(dim string, start, stop, step int) (*Field, error) {
	ax, err := f.Axis(dim)
	if err != nil {
		return nil, err
	}
	if step <= 0 {
		return nil, fmt.Errorf("slice %s: step %d must be positive", dim, step)
	}
	n := f.Shape[ax]
	start, stop = clampIndex(start, n), clampIndex(stop, n)
	var keep []int
	for i := start; i < stop; i += step {
		keep = append(keep, i)
	}
	outer, inner := splitShape(f.Shape, ax)
	vals := make([]float64, 0, outer*len(keep)*inner)
	for o := 0; o < outer; o++ {
		for _, i := range keep {
			base := (o*n + i) * inner
			vals = append(vals, f.Vals[base:base+inner]...)
		}
	}
	coord := make([]float64, len(keep))
	for k, i := range keep {
		coord[k] = f.Coords[ax].Values[i]
	}
	out := f.Clone()
	out.Shape[ax] = len(keep)
	out.Coords[ax].Values = coord
	out.Vals = vals
	return out, nil
}

// Nearest returns the index along dim whose coordinate is closest to v.
func (f *Field) Nearest(dim string, v float64) (int, error) {
	c, err := f.Coord(dim)
	if err != nil {
		return -1, err
	}
	if len(c) == 0 {
		return -1, fmt.Errorf("nearest %s=%g: empty coordinate: %w", dim, v, ErrShapeMismatch)
	}
	best, bestD := 0, math.Inf(1)
	for i, x := range c {
		if d := math.Abs(x - v); d < bestD {
			best, bestD = i, d
		}
	}
	return best, nil
}

// Sel performs nearest-neighbour selection along dim and drops it.
func (f *Field) Sel(dim string, v float64) (*Field, error) {
	i, err := f.Nearest(dim, v)
	if err != nil {
		return nil, err
	}
	return f.Isel(dim, i)
}

// Lookup returns the nearest-neighbour value at (lat, lon) on a 2-D lat/lon
// field. Returns math.NaN() when the field is not 2-D over lat and lon.
func (f *Field) Lookup(lat, lon float64) float64 {
	if len(f.Dims) != 2 {
		return math.NaN()
	}
	j, err := f.Nearest("lat", lat)
	if err != nil {
		return math.NaN()
	}
	i, err := f.Nearest("lon", lon)
	if err != nil {
		return math.NaN()
	}
	latAx, _ := f.Axis("lat")
	if latAx == 0 {
		return f.At(j, i)
	}
	return f.At(i, j)
}

// Row returns a view of the values of a 2-D field at index j of the first dimension.
func (f *Field) Row(j int) []float64 {
	nx := f.Shape[len(f.Shape)-1]
	return f.Vals[j*nx : (j+1)*nx]
}

// splitShape returns the products of the dimensions before and after ax.
func splitShape(shape []int, ax int) (outer, inner int) {
	return product(shape[:ax]), product(shape[ax+1:])
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

func indexCoord(n int) []float64 {
	c := make([]float64, n)
	for i := range c {
		c[i] = float64(i)
	}
	return c
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}
