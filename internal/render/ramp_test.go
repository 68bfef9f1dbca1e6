package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRampEndpoints(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0x44, G: 0x01, B: 0x54, A: 0xff}, Viridis.At(0))
	assert.Equal(t, color.NRGBA{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff}, Viridis.At(1))

	// Clamped outside [0, 1].
	assert.Equal(t, Viridis.At(0), Viridis.At(-3))
	assert.Equal(t, Viridis.At(1), Viridis.At(7))
}

func TestRampInterpolates(t *testing.T) {
	mid := Reds.At(0.5)
	lo := Reds.At(0)
	hi := Reds.At(1)
	assert.NotEqual(t, lo, mid)
	assert.NotEqual(t, hi, mid)
	assert.EqualValues(t, 0xff, mid.A)
}

func TestHexColor(t *testing.T) {
	c, ok := hexColor("#e8e8e8")
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}, c)

	_, ok = hexColor("e8e8e8")
	assert.False(t, ok)
	_, ok = hexColor("#xyzxyz")
	assert.False(t, ok)
	_, ok = hexColor("#fff")
	assert.False(t, ok)
}

func TestBivariatePalettesParse(t *testing.T) {
	for class, hex := range BivariateColors2 {
		_, ok := hexColor(hex)
		assert.True(t, ok, class)
	}
	for class, hex := range BivariateColors3 {
		_, ok := hexColor(hex)
		assert.True(t, ok, class)
	}
	assert.Len(t, BivariateColors2, 4)
	assert.Len(t, BivariateColors3, 9)
}

func TestClassColorMissingClass(t *testing.T) {
	assert.Equal(t, color.Transparent, classColor(BivariateColors2, "5-5"))
}
