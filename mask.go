package ncgallery

import (
	"fmt"
	"math"
	"slices"
)

// Where returns a copy of f in which every cell whose mask value fails keep
// is replaced with NaN. mask must have the same shape as f.
func (f *Field) Where(mask *Field, keep func(float64) bool) (*Field, error) {
	if !slices.Equal(f.Shape, mask.Shape) {
		return nil, fmt.Errorf("where %q by %q: shapes %v and %v: %w", f.Name, mask.Name, f.Shape, mask.Shape, ErrShapeMismatch)
	}
	out := f.Clone()
	for i, m := range mask.Vals {
		if !keep(m) {
			out.Vals[i] = math.NaN()
		}
	}
	return out, nil
}

// Equals returns a keep predicate matching mask values equal to v.
func Equals(v float64) func(float64) bool {
	return func(m float64) bool { return m == v }
}

// applyFill replaces every value equal to one of fills with NaN.
// NaN fill values are ignored since NaN already marks missing data.
func applyFill(vals []float64, fills []float64) {
	fills = slices.DeleteFunc(slices.Clone(fills), math.IsNaN)
	if len(fills) == 0 {
		return
	}
	for i, v := range vals {
		if slices.Contains(fills, v) {
			vals[i] = math.NaN()
		}
	}
}

// applyScale applies CF packing: v*scale + offset.
func applyScale(vals []float64, scale, offset float64) {
	if scale == 1 && offset == 0 {
		return
	}
	for i, v := range vals {
		vals[i] = v*scale + offset
	}
}
