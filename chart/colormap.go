// Package chart holds the gonum/plot building blocks shared by the gallery:
// colormaps, filled contours, colorbars, vector arrows, coastlines, tickers
// and multi-panel figures.
package chart

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"
)

// Colormap is a continuous colour ramp defined by evenly spaced anchor
// colours and blended in CIELAB.
type Colormap struct {
	Name    string
	anchors []colorful.Color
}

// NewColormap builds a colormap from hex anchor colours ("#rrggbb").
func NewColormap(name string, hexes ...string) (*Colormap, error) {
	if len(hexes) < 2 {
		return nil, fmt.Errorf("colormap %s: need at least 2 anchors, got %d", name, len(hexes))
	}
	cm := &Colormap{Name: name}
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("colormap %s: %w", name, err)
		}
		cm.anchors = append(cm.anchors, c)
	}
	return cm, nil
}

func mustColormap(name string, hexes ...string) *Colormap {
	cm, err := NewColormap(name, hexes...)
	if err != nil {
		panic(err)
	}
	return cm
}

// At returns the colour at t in [0, 1]; t is clamped.
func (cm *Colormap) At(t float64) color.Color {
	t = min(max(t, 0), 1)
	seg := t * float64(len(cm.anchors)-1)
	i := int(seg)
	if i >= len(cm.anchors)-1 {
		return cm.anchors[len(cm.anchors)-1]
	}
	return cm.anchors[i].BlendLab(cm.anchors[i+1], seg-float64(i)).Clamped()
}

// Palette samples n colours evenly across the ramp.
func (cm *Colormap) Palette(n int) Palette {
	p := make(Palette, n)
	for i := range p {
		if n == 1 {
			p[i] = cm.At(0.5)
			continue
		}
		p[i] = cm.At(float64(i) / float64(n-1))
	}
	return p
}

// Truncate returns the sub-ramp between lo and hi (fractions of the ramp).
func (cm *Colormap) Truncate(lo, hi float64) *Colormap {
	const samples = 16
	out := &Colormap{Name: fmt.Sprintf("%s[%.2f:%.2f]", cm.Name, lo, hi)}
	for i := 0; i <= samples; i++ {
		c, _ := colorful.MakeColor(cm.At(lo + (hi-lo)*float64(i)/samples))
		out.anchors = append(out.anchors, c)
	}
	return out
}

// Palette is a fixed list of colours. It satisfies palette.Palette.
type Palette []color.Color

var _ palette.Palette = Palette(nil)

// Colors implements palette.Palette.
func (p Palette) Colors() []color.Color { return p }

// WithWhiteCenter returns a copy with the middle entry set to white, as NCL
// anomaly plots do.
func (p Palette) WithWhiteCenter() Palette {
	out := append(Palette(nil), p...)
	if len(out) > 0 {
		out[len(out)/2] = color.White
	}
	return out
}

// Approximations of the NCL colour tables used by the gallery.
var named = map[string]*Colormap{
	"blre": mustColormap("BlRe",
		"#1f1f8f", "#2f55d6", "#6f9cf0", "#b4d2f5", "#f5c3aa", "#ee7f5f", "#d23c2d", "#8c1414"),
	"blwhre": mustColormap("BlWhRe",
		"#1f1f8f", "#3c6ee6", "#a5c8f5", "#ffffff", "#f5b4a0", "#e6503c", "#8c1414"),
	"blueyellowred": mustColormap("BlueYellowRed",
		"#283c96", "#3c78c8", "#78b4e6", "#c8e6f0", "#fff5aa", "#fac35a", "#f07d37", "#d73c23", "#a01419"),
	"blaqgryeorre": mustColormap("BlAqGrYeOrRe",
		"#0000c8", "#0064ff", "#00c8ff", "#00d28c", "#00b400", "#96dc00", "#fff000", "#ffaa00", "#ff5a00", "#c80000"),
}

// Named returns one of the built-in colormaps (case-insensitive).
func Named(name string) (*Colormap, error) {
	cm, ok := named[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return cm, nil
}

// Names lists the built-in colormaps.
func Names() []string {
	var out []string
	for _, cm := range named {
		out = append(out, cm.Name)
	}
	sort.Strings(out)
	return out
}
