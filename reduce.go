package ncgallery

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Mean averages f along dim and drops it. NaN samples are skipped; a slice
// that is entirely NaN averages to NaN.
func (f *Field) Mean(dim string) (*Field, error) {
	ax, err := f.Axis(dim)
	if err != nil {
		return nil, err
	}
	n := f.Shape[ax]
	outer, inner := splitShape(f.Shape, ax)
	vals := make([]float64, outer*inner)
	buf := make([]float64, 0, n)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			buf = buf[:0]
			for i := 0; i < n; i++ {
				v := f.Vals[(o*n+i)*inner+in]
				if !math.IsNaN(v) {
					buf = append(buf, v)
				}
			}
			if len(buf) == 0 {
				vals[o*inner+in] = math.NaN()
				continue
			}
			vals[o*inner+in] = floats.Sum(buf) / float64(len(buf))
		}
	}
	return &Field{
		Name:   f.Name,
		Dims:   slices.Delete(slices.Clone(f.Dims), ax, ax+1),
		Shape:  slices.Delete(slices.Clone(f.Shape), ax, ax+1),
		Coords: slices.Delete(f.cloneCoords(), ax, ax+1),
		Vals:   vals,
		Attrs:  f.cloneAttrs(),
	}, nil
}

// ZonalMean averages over longitude.
func (f *Field) ZonalMean() (*Field, error) {
	return f.Mean("lon")
}

// Sub returns f - other element-wise. Both fields must have the same shape.
func (f *Field) Sub(other *Field) (*Field, error) {
	if !slices.Equal(f.Shape, other.Shape) {
		return nil, fmt.Errorf("sub %q - %q: shapes %v and %v: %w", f.Name, other.Name, f.Shape, other.Shape, ErrShapeMismatch)
	}
	out := f.Clone()
	floats.Sub(out.Vals, other.Vals)
	return out, nil
}

// RollingMean computes a moving mean of width window along dim. Windows that
// extend past either end of the axis yield NaN, as do windows containing NaN.
// With center set the label sits at the middle of the window; for an even
// window at index i it covers [i-window/2, i+window/2-1].
func (f *Field) RollingMean(dim string, window int, center bool) (*Field, error) {
	ax, err := f.Axis(dim)
	if err != nil {
		return nil, err
	}
	if window < 1 {
		return nil, fmt.Errorf("rolling mean over %s: window %d must be positive", dim, window)
	}
	n := f.Shape[ax]
	outer, inner := splitShape(f.Shape, ax)
	out := f.Clone()
	lead := window - 1
	if center {
		lead = window / 2
	}
	buf := make([]float64, window)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			for i := 0; i < n; i++ {
				lo := i - lead
				hi := lo + window
				dst := (o*n+i)*inner + in
				if lo < 0 || hi > n {
					out.Vals[dst] = math.NaN()
					continue
				}
				for k := lo; k < hi; k++ {
					buf[k-lo] = f.Vals[(o*n+k)*inner+in]
				}
				// NaN propagates through the sum.
				out.Vals[dst] = floats.Sum(buf) / float64(window)
			}
		}
	}
	return out, nil
}

// DropNaN removes samples whose value is NaN from a 1-D field, together with
// their coordinate entries.
func (f *Field) DropNaN(dim string) (*Field, error) {
	ax, err := f.Axis(dim)
	if err != nil {
		return nil, err
	}
	if len(f.Dims) != 1 {
		return nil, fmt.Errorf("drop NaN along %s: field %q is %d-d, want 1-d: %w", dim, f.Name, len(f.Dims), ErrShapeMismatch)
	}
	out := f.Clone()
	out.Vals = out.Vals[:0]
	coord := out.Coords[ax].Values[:0]
	for i, v := range f.Vals {
		if math.IsNaN(v) {
			continue
		}
		out.Vals = append(out.Vals, v)
		coord = append(coord, f.Coords[ax].Values[i])
	}
	out.Coords[ax].Values = coord
	out.Shape[ax] = len(out.Vals)
	return out, nil
}

// Range returns the minimum and maximum non-NaN values. Both are NaN when
// the field holds no finite value.
func (f *Field) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range f.Vals {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return math.NaN(), math.NaN()
	}
	return lo, hi
}
