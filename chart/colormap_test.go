package chart

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgba8(c color.Color) [3]uint8 {
	r, g, b, _ := c.RGBA()
	return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func TestColormapEnds(t *testing.T) {
	cm, err := NewColormap("test", "#000000", "#ffffff")
	require.NoError(t, err)

	assert.Equal(t, [3]uint8{0, 0, 0}, rgba8(cm.At(0)))
	assert.Equal(t, [3]uint8{255, 255, 255}, rgba8(cm.At(1)))
	assert.Equal(t, rgba8(cm.At(0)), rgba8(cm.At(-3)), "t below 0 clamps")
	assert.Equal(t, rgba8(cm.At(1)), rgba8(cm.At(7)), "t above 1 clamps")
}

func TestNewColormapErrors(t *testing.T) {
	_, err := NewColormap("one", "#ffffff")
	assert.Error(t, err)
	_, err = NewColormap("bad", "#ffffff", "not-a-colour")
	assert.Error(t, err)
}

func TestPalette(t *testing.T) {
	cm, err := Named("BlRe")
	require.NoError(t, err)

	p := cm.Palette(13)
	require.Len(t, p, 13)
	assert.Equal(t, rgba8(cm.At(0)), rgba8(p[0]))
	assert.Equal(t, rgba8(cm.At(1)), rgba8(p[12]))
	assert.Len(t, p.Colors(), 13)

	w := p.WithWhiteCenter()
	assert.Equal(t, [3]uint8{255, 255, 255}, rgba8(w[6]))
	assert.NotEqual(t, [3]uint8{255, 255, 255}, rgba8(p[6]), "WithWhiteCenter must not modify its receiver")

	assert.Len(t, cm.Palette(1), 1)
}

func TestTruncate(t *testing.T) {
	cm, err := Named("blaqgryeorre")
	require.NoError(t, err)
	tr := cm.Truncate(0.1, 1)
	assert.Equal(t, rgba8(cm.At(0.1)), rgba8(tr.At(0)))
	assert.Equal(t, rgba8(cm.At(1)), rgba8(tr.At(1)))
}

func TestNamed(t *testing.T) {
	for _, name := range []string{"BlRe", "blwhre", "BlueYellowRed", "BlAqGrYeOrRe"} {
		_, err := Named(name)
		assert.NoError(t, err, name)
	}
	_, err := Named("viridis")
	assert.ErrorContains(t, err, "unknown colormap")
	assert.Equal(t, []string{"BlAqGrYeOrRe", "BlRe", "BlWhRe", "BlueYellowRed"}, Names())
}
