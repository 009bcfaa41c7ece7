package chart

import (
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NCLize makes p look like an NCL plot: the bottom and left ticks are
// mirrored on the top and right edges and the data area gets a closed box.
func NCLize(p *plot.Plot, major vg.Length) {
	p.X.Tick.Length = major
	p.Y.Tick.Length = major
	p.X.Padding = 0
	p.Y.Padding = 0
	p.Add(mirror{major: major})
}

// mirror draws the top and right edges of the frame with the same ticks as
// the bottom and left axes.
type mirror struct {
	major vg.Length
}

func (m mirror) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	ls := p.X.LineStyle
	c.StrokeLine2(ls, c.Min.X, c.Max.Y, c.Max.X, c.Max.Y)
	c.StrokeLine2(ls, c.Max.X, c.Min.Y, c.Max.X, c.Max.Y)

	tick := p.X.Tick.LineStyle
	for _, t := range p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max) {
		x := trX(t.Value)
		if x < c.Min.X || x > c.Max.X {
			continue
		}
		l := m.length(t)
		c.StrokeLine2(tick, x, c.Max.Y, x, c.Max.Y-l)
	}
	for _, t := range p.Y.Tick.Marker.Ticks(p.Y.Min, p.Y.Max) {
		y := trY(t.Value)
		if y < c.Min.Y || y > c.Max.Y {
			continue
		}
		l := m.length(t)
		c.StrokeLine2(tick, c.Max.X, y, c.Max.X-l, y)
	}
}

func (m mirror) length(t plot.Tick) vg.Length {
	if t.IsMinor() {
		return m.major / 2
	}
	return m.major
}

// CornerTitles places a left and a right title above the data area, the
// NCL convention of "quantity" on the left and "units" on the right.
// The plot title is blanked to reserve the space.
func CornerTitles(p *plot.Plot, left, right string) {
	p.Title.Text = " "
	p.Add(cornerTitles{left: left, right: right})
}

type cornerTitles struct {
	left, right string
}

func (t cornerTitles) Plot(c draw.Canvas, p *plot.Plot) {
	sty := p.Title.TextStyle
	sty.YAlign = draw.YBottom
	at := c.Max.Y + vg.Points(4)
	sty.XAlign = draw.XLeft
	c.FillText(sty, vg.Point{X: c.Min.X, Y: at}, t.left)
	sty.XAlign = draw.XRight
	c.FillText(sty, vg.Point{X: c.Max.X, Y: at}, t.right)
}

// TextBox draws text at a data position on an optional filled background.
type TextBox struct {
	X, Y       float64
	Text       string
	Style      text.Style
	Background color.Color
	Border     color.Color
	Pad        vg.Length
}

// NewTextBox returns a text box using the plot's tick label style.
func NewTextBox(p *plot.Plot, x, y float64, s string, size vg.Length) *TextBox {
	sty := p.X.Tick.Label
	sty.Font.Size = size
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter
	return &TextBox{X: x, Y: y, Text: s, Style: sty}
}

// Plot implements plot.Plotter.
func (b *TextBox) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	at := vg.Point{X: trX(b.X), Y: trY(b.Y)}
	if b.Background != nil || b.Border != nil {
		r := b.Style.Rectangle(b.Text)
		box := []vg.Point{
			{X: at.X + r.Min.X - b.Pad, Y: at.Y + r.Min.Y - b.Pad},
			{X: at.X + r.Max.X + b.Pad, Y: at.Y + r.Min.Y - b.Pad},
			{X: at.X + r.Max.X + b.Pad, Y: at.Y + r.Max.Y + b.Pad},
			{X: at.X + r.Min.X - b.Pad, Y: at.Y + r.Max.Y + b.Pad},
		}
		if b.Background != nil {
			c.FillPolygon(b.Background, box)
		}
		if b.Border != nil {
			c.StrokeLines(draw.LineStyle{Color: b.Border, Width: vg.Points(0.5)}, append(box, box[0]))
		}
	}
	c.FillText(b.Style, at, b.Text)
}

// Hatch fills a polygon given in data coordinates with a repeated glyph
// pattern. The pattern follows matplotlib hatch strings: '.' for dots and
// '+' for crosses; repeating the character makes the pattern denser.
type Hatch struct {
	Poly    plotter.XYs
	Pattern string
	Color   color.Color
	Spacing vg.Length // at density 1
}

// Plot implements plot.Plotter.
func (h *Hatch) Plot(c draw.Canvas, p *plot.Plot) {
	if len(h.Poly) < 3 || h.Pattern == "" {
		return
	}
	trX, trY := p.Transforms(&c)
	pts := make([]vg.Point, len(h.Poly))
	lo, hi := vg.Point{X: c.Max.X, Y: c.Max.Y}, vg.Point{X: c.Min.X, Y: c.Min.Y}
	for i, xy := range h.Poly {
		pts[i] = vg.Point{X: trX(xy.X), Y: trY(xy.Y)}
		lo.X, lo.Y = min(lo.X, pts[i].X), min(lo.Y, pts[i].Y)
		hi.X, hi.Y = max(hi.X, pts[i].X), max(hi.Y, pts[i].Y)
	}
	mark := h.Pattern[0]
	density := strings.Count(h.Pattern, string(mark))
	step := h.Spacing / vg.Length(density)
	if step <= 0 {
		step = vg.Points(2)
	}
	sty := draw.LineStyle{Color: h.Color, Width: vg.Points(0.5)}
	for y := lo.Y + step/2; y < hi.Y; y += step {
		for x := lo.X + step/2; x < hi.X; x += step {
			at := vg.Point{X: x, Y: y}
			if !insidePolygon(at, pts) || !c.Contains(at) {
				continue
			}
			switch mark {
			case '+':
				d := step / 3
				c.StrokeLine2(sty, x-d, y, x+d, y)
				c.StrokeLine2(sty, x, y-d, x, y+d)
			default:
				c.DrawGlyph(draw.GlyphStyle{Color: h.Color, Radius: vg.Points(0.4), Shape: draw.CircleGlyph{}}, at)
			}
		}
	}
}

// insidePolygon is an even-odd ray-casting test.
func insidePolygon(pt vg.Point, poly []vg.Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// Outline returns a polygon plotter that only strokes its boundary.
func Outline(xys plotter.XYs, clr color.Color, width vg.Length) (*plotter.Polygon, error) {
	poly, err := plotter.NewPolygon(xys)
	if err != nil {
		return nil, err
	}
	poly.Color = nil
	poly.LineStyle = draw.LineStyle{Color: clr, Width: width}
	return poly, nil
}
