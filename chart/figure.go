package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Panel is one plot in a vertically stacked Figure.
type Panel struct {
	Plot   *plot.Plot
	Weight float64 // share of the figure height; 0 counts as 1
	Shrink float64 // fraction of the figure width, centred; 0 counts as 1
}

// Figure stacks panels top to bottom, e.g. a map over its colorbar.
type Figure struct {
	Width, Height vg.Length
	Suptitle      string
	Panels        []Panel
}

// NewFigure returns an empty figure sized in inches.
func NewFigure(width, height float64) *Figure {
	return &Figure{Width: vg.Length(width) * vg.Inch, Height: vg.Length(height) * vg.Inch}
}

// Add appends a panel.
func (f *Figure) Add(p *plot.Plot, weight, shrink float64) *Figure {
	f.Panels = append(f.Panels, Panel{Plot: p, Weight: weight, Shrink: shrink})
	return f
}

// Draw renders every panel onto c.
func (f *Figure) Draw(c draw.Canvas) {
	if f.Suptitle != "" {
		sty := plot.New().Title.TextStyle
		sty.Font.Size = vg.Points(20)
		sty.XAlign = draw.XCenter
		sty.YAlign = draw.YTop
		c.FillText(sty, vg.Point{X: c.Center().X, Y: c.Max.Y}, f.Suptitle)
		c = draw.Crop(c, 0, 0, 0, -sty.Height(f.Suptitle)-vg.Points(6))
	}
	var total float64
	for _, p := range f.Panels {
		total += weight(p.Weight)
	}
	h := c.Max.Y - c.Min.Y
	w := c.Max.X - c.Min.X
	top := vg.Length(0)
	for _, p := range f.Panels {
		ph := h * vg.Length(weight(p.Weight)/total)
		side := w * vg.Length(1-weight(p.Shrink)) / 2
		bottom := h - top - ph
		p.Plot.Draw(draw.Crop(c, side, -side, bottom, -top))
		top += ph
	}
}

func weight(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// Save writes the figure to path; the extension selects the format
// (png, jpg, svg, pdf, eps, tif).
func (f *Figure) Save(path string) error {
	if len(f.Panels) == 0 {
		return fmt.Errorf("save %s: figure has no panels", path)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	cw, err := draw.NewFormattedCanvas(f.Width, f.Height, format)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	f.Draw(draw.New(cw))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := cw.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return out.Close()
}
