package ncgallery

import (
	"fmt"
	"math"
)

// DegreesPeriod is the period of a longitude axis in degrees.
const DegreesPeriod = 360.0

// AddCyclicPoint appends one sample along axis that repeats the first sample,
// closing the seam of a periodic grid. vals is row-major over shape.
//
// The appended coordinate is coord[0] + k*period for the smallest k >= 1 that
// lies beyond coord[N-1]. For a global grid that omits the seam this is
// coord[0] + period; applying it again adds coord[0] + 2*period.
//
// coord must be finite, strictly ascending, evenly spaced and cover the
// period, i.e. span plus one step reaches it. Descending, uneven and
// regional axes return ErrUnsupportedGrid.
func AddCyclicPoint(vals []float64, shape []int, axis int, coord []float64, period float64) ([]float64, []int, []float64, error) {
	if axis < 0 || axis >= len(shape) {
		return nil, nil, nil, fmt.Errorf("cyclic point: axis %d of %d-d array: %w", axis, len(shape), ErrNoDimension)
	}
	n := shape[axis]
	if n == 0 || len(coord) != n {
		return nil, nil, nil, fmt.Errorf("cyclic point: %d coordinate values for axis of length %d: %w", len(coord), n, ErrShapeMismatch)
	}
	if product(shape) != len(vals) {
		return nil, nil, nil, fmt.Errorf("cyclic point: shape %v holds %d values, got %d: %w", shape, product(shape), len(vals), ErrShapeMismatch)
	}
	if !(period > 0) || math.IsInf(period, 0) {
		return nil, nil, nil, fmt.Errorf("cyclic point: period %g: %w", period, ErrUnsupportedGrid)
	}
	for i, c := range coord {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, nil, nil, fmt.Errorf("cyclic point: coord[%d] = %g: %w", i, c, ErrUnsupportedGrid)
		}
		if i > 0 && c <= coord[i-1] {
			return nil, nil, nil, fmt.Errorf("cyclic point: coord not strictly ascending at %d (%g <= %g): %w",
				i, c, coord[i-1], ErrUnsupportedGrid)
		}
	}

	if err := checkGlobal(coord, period); err != nil {
		return nil, nil, nil, err
	}

	outShape := append([]int(nil), shape...)
	outShape[axis] = n + 1

	outer, inner := splitShape(shape, axis)
	out := make([]float64, 0, outer*(n+1)*inner)
	for o := 0; o < outer; o++ {
		row := vals[o*n*inner : (o+1)*n*inner]
		out = append(out, row...)
		out = append(out, row[:inner]...)
	}

	outCoord := make([]float64, n+1)
	copy(outCoord, coord)
	outCoord[n] = wrapCoord(coord[0], coord[n-1], period)
	if !(outCoord[n] > coord[n-1]) {
		return nil, nil, nil, fmt.Errorf("cyclic point: period %g lost in rounding at %g: %w", period, coord[n-1], ErrUnsupportedGrid)
	}
	return out, outShape, outCoord, nil
}

// spacingTol is the relative tolerance on grid steps; coordinates stored
// as float32 are not exactly even.
const spacingTol = 1e-4

// checkGlobal rejects uneven axes and axes that do not span the period.
// A single point is treated as a global grid of one cell.
func checkGlobal(coord []float64, period float64) error {
	if len(coord) < 2 {
		return nil
	}
	step := coord[1] - coord[0]
	for i := 2; i < len(coord); i++ {
		if d := coord[i] - coord[i-1]; math.Abs(d-step) > spacingTol*step {
			return fmt.Errorf("cyclic point: uneven spacing at %d (%g, want %g): %w", i, d, step, ErrUnsupportedGrid)
		}
	}
	if span := coord[len(coord)-1] - coord[0] + step; span < period*(1-spacingTol) {
		return fmt.Errorf("cyclic point: axis covers %g of period %g: %w", span, period, ErrUnsupportedGrid)
	}
	return nil
}

// wrapCoord returns first + k*period for the smallest k >= 1 with a result
// greater than last.
func wrapCoord(first, last, period float64) float64 {
	k := math.Floor((last-first)/period) + 1
	if k < 1 {
		k = 1
	}
	if v := first + k*period; v <= last {
		return first + (k+1)*period
	}
	return first + k*period
}

// AddCyclic returns a copy of f with a cyclic point added along dim using a
// 360° period. Other dimensions, coordinates and attributes are unchanged.
func (f *Field) AddCyclic(dim string) (*Field, error) {
	ax, err := f.Axis(dim)
	if err != nil {
		return nil, err
	}
	vals, shape, coord, err := AddCyclicPoint(f.Vals, f.Shape, ax, f.Coords[ax].Values, DegreesPeriod)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}
	out := f.Clone()
	out.Vals = vals
	out.Shape = shape
	out.Coords[ax].Values = coord
	return out, nil
}
