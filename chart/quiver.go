package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Quiver draws one arrow per grid point, centred on the point. U and V are
// row-major with one row per Y value. An arrow of magnitude Ref is RefLength
// long on the canvas.
type Quiver struct {
	X, Y      []float64
	U, V      []float64
	Ref       float64
	RefLength vg.Length
	HeadSize  vg.Length
	LineStyle draw.LineStyle
}

// NewQuiver checks that U and V cover the X by Y grid.
func NewQuiver(x, y, u, v []float64, ref float64) (*Quiver, error) {
	n := len(x) * len(y)
	if len(u) != n || len(v) != n {
		return nil, fmt.Errorf("quiver: %dx%d grid with %d u and %d v values", len(x), len(y), len(u), len(v))
	}
	if !(ref > 0) {
		return nil, fmt.Errorf("quiver: reference magnitude %g must be positive", ref)
	}
	return &Quiver{
		X: x, Y: y, U: u, V: v,
		Ref:       ref,
		RefLength: vg.Points(14),
		HeadSize:  vg.Points(2.5),
		LineStyle: draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)},
	}, nil
}

// Plot implements plot.Plotter.
func (q *Quiver) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for r, y := range q.Y {
		for i, x := range q.X {
			u, v := q.U[r*len(q.X)+i], q.V[r*len(q.X)+i]
			if math.IsNaN(u) || math.IsNaN(v) {
				continue
			}
			at := vg.Point{X: trX(x), Y: trY(y)}
			if !c.Contains(at) {
				continue
			}
			q.arrow(c, at, u, v)
		}
	}
}

// arrow draws an arrow for (u, v) centred on at.
func (q *Quiver) arrow(c draw.Canvas, at vg.Point, u, v float64) {
	mag := math.Hypot(u, v)
	if mag == 0 {
		return
	}
	l := float64(q.RefLength) * mag / q.Ref
	dx, dy := vg.Length(l*u/mag), vg.Length(l*v/mag)
	tail := vg.Point{X: at.X - dx/2, Y: at.Y - dy/2}
	head := vg.Point{X: at.X + dx/2, Y: at.Y + dy/2}
	c.StrokeLine2(q.LineStyle, tail.X, tail.Y, head.X, head.Y)

	h := math.Min(float64(q.HeadSize), l/2)
	ang := math.Atan2(float64(dy), float64(dx))
	for _, side := range []float64{-1, 1} {
		a := ang + math.Pi - side*math.Pi/7
		end := vg.Point{X: head.X + vg.Length(h*math.Cos(a)), Y: head.Y + vg.Length(h*math.Sin(a))}
		c.StrokeLine2(q.LineStyle, head.X, head.Y, end.X, end.Y)
	}
}

// DataRange implements plot.DataRanger.
func (q *Quiver) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = minMax(q.X)
	ymin, ymax = minMax(q.Y)
	return
}

// QuiverKey draws a boxed reference arrow of magnitude Ref at (X, Y) in data
// coordinates, labelled above with Label.
type QuiverKey struct {
	Q     *Quiver
	X, Y  float64
	Label string
}

// Plot implements plot.Plotter.
func (k QuiverKey) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	at := vg.Point{X: trX(k.X), Y: trY(k.Y)}
	pad := vg.Points(6)
	half := k.Q.RefLength/2 + pad
	box := []vg.Point{
		{X: at.X - half, Y: at.Y - pad},
		{X: at.X + half, Y: at.Y - pad},
		{X: at.X + half, Y: at.Y + 3*pad},
		{X: at.X - half, Y: at.Y + 3*pad},
	}
	c.FillPolygon(color.White, box)
	c.StrokeLines(draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}, append(box, box[0]))
	k.Q.arrow(c, at, k.Q.Ref, 0)

	sty := p.X.Tick.Label
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YBottom
	c.FillText(sty, vg.Point{X: at.X, Y: at.Y + pad/2}, k.Label)
}

func minMax(xs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
