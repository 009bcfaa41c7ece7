package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"

	"github.com/geal-ai/ncgallery"
)

// Multiple places major ticks at multiples of Major and unlabelled minor
// ticks at multiples of Minor. Label formats a major tick; when nil, Format
// is used with fmt.Sprintf (default "%g").
type Multiple struct {
	Major, Minor float64
	Format       string
	Label        func(float64) string
}

// Ticks implements plot.Ticker.
func (m Multiple) Ticks(lo, hi float64) []plot.Tick {
	var ticks []plot.Tick
	if m.Major > 0 {
		for _, v := range multiples(lo, hi, m.Major) {
			ticks = append(ticks, plot.Tick{Value: v, Label: m.label(v)})
		}
	}
	if m.Minor > 0 {
		for _, v := range multiples(lo, hi, m.Minor) {
			if m.Major > 0 && isMultiple(v, m.Major) {
				continue
			}
			ticks = append(ticks, plot.Tick{Value: v})
		}
	}
	return ticks
}

func (m Multiple) label(v float64) string {
	if m.Label != nil {
		return m.Label(v)
	}
	f := m.Format
	if f == "" {
		f = "%g"
	}
	if f == "%d" {
		return fmt.Sprintf(f, int(math.Round(v)))
	}
	return fmt.Sprintf(f, v)
}

// multiples returns k*step for every integer k with lo <= k*step <= hi.
func multiples(lo, hi, step float64) []float64 {
	var out []float64
	for k := math.Ceil(lo/step - 1e-9); k*step <= hi+1e-9*step; k++ {
		v := k * step
		if math.Abs(v) < 1e-12*step {
			v = 0
		}
		out = append(out, v)
	}
	return out
}

func isMultiple(v, step float64) bool {
	r := math.Abs(math.Remainder(v, step))
	return r < 1e-9*step
}

// AutoMinor adds N-1 evenly spaced minor ticks between consecutive major
// ticks of the wrapped ticker, subdividing each interval into N parts.
type AutoMinor struct {
	Major plot.Ticker
	N     int
}

// Ticks implements plot.Ticker.
func (a AutoMinor) Ticks(lo, hi float64) []plot.Tick {
	var majors []plot.Tick
	for _, t := range a.Major.Ticks(lo, hi) {
		if !t.IsMinor() {
			majors = append(majors, t)
		}
	}
	out := append([]plot.Tick(nil), majors...)
	if a.N < 2 || len(majors) < 2 {
		return out
	}
	step := (majors[1].Value - majors[0].Value) / float64(a.N)
	// Extend one interval past each end so the edges get minor ticks too.
	start := majors[0].Value - float64(a.N)*step
	end := majors[len(majors)-1].Value + float64(a.N)*step
	for i := 0; start+float64(i)*step <= end+1e-9*math.Abs(step); i++ {
		if i%a.N == 0 {
			continue
		}
		v := start + float64(i)*step
		if v < lo || v > hi {
			continue
		}
		out = append(out, plot.Tick{Value: v})
	}
	return out
}

// Fixed places ticks at explicit values with explicit labels. A missing or
// empty label makes a minor tick.
type Fixed struct {
	Values []float64
	Labels []string
}

// Ticks implements plot.Ticker.
func (f Fixed) Ticks(lo, hi float64) []plot.Tick {
	var out []plot.Tick
	for i, v := range f.Values {
		if v < lo || v > hi {
			continue
		}
		t := plot.Tick{Value: v}
		if i < len(f.Labels) {
			t.Label = f.Labels[i]
		}
		out = append(out, t)
	}
	return out
}

// LonTicks labels longitudes every step degrees (120°W, 0°, 60°E) with
// minor ticks at step/minorN.
func LonTicks(step float64, minorN int) plot.Ticker {
	return AutoMinor{Major: Multiple{Major: step, Label: ncgallery.LonLabel}, N: minorN}
}

// LatTicks labels latitudes every step degrees (30°S, 0°, 30°N).
func LatTicks(step float64, minorN int) plot.Ticker {
	return AutoMinor{Major: Multiple{Major: step, Label: ncgallery.LatLabel}, N: minorN}
}

// Arange returns start, start+step, ... up to but excluding stop.
func Arange(start, stop, step float64) []float64 {
	var out []float64
	n := int(math.Ceil((stop - start) / step))
	for i := 0; i < n; i++ {
		out = append(out, start+float64(i)*step)
	}
	return out
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// NiceLevels picks at most n+1 round contour levels covering [lo, hi], with
// steps of 1, 2, 2.5 or 5 times a power of ten.
func NiceLevels(lo, hi float64, n int) []float64 {
	if n < 1 || !(hi > lo) {
		return []float64{lo}
	}
	raw := (hi - lo) / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	var step float64
	for _, s := range []float64{1, 2, 2.5, 5, 10} {
		step = s * mag
		if math.Floor(hi/step)-math.Ceil(lo/step) <= float64(n) {
			break
		}
	}
	var out []float64
	for k := math.Floor(lo / step); k*step <= hi+1e-9*step; k++ {
		out = append(out, k*step)
	}
	if out[len(out)-1] < hi {
		out = append(out, out[len(out)-1]+step)
	}
	return out
}
