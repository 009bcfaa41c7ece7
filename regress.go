package ncgallery

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// LinearFit returns the least-squares line y = slope*x + intercept.
func LinearFit(x, y []float64) (slope, intercept float64, err error) {
	if len(x) != len(y) {
		return 0, 0, fmt.Errorf("linear fit: %d x values, %d y values: %w", len(x), len(y), ErrShapeMismatch)
	}
	if len(x) < 2 {
		return 0, 0, fmt.Errorf("linear fit: need at least 2 points, got %d", len(x))
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return beta, alpha, nil
}

// Line evaluates slope*x + intercept at each x.
func Line(slope, intercept float64, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = slope*v + intercept
	}
	return out
}
