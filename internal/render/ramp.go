// Package render draws choropleth and bivariate choropleth maps to PNG.
package render

import (
	"image/color"
)

// Ramp is a continuous color scale built from evenly spaced gradient stops.
type Ramp struct {
	Name  string
	stops []color.NRGBA
}

// NoData is the neutral fill for polygons without a metric value.
var NoData = color.NRGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}

// Continuous ramps used by the single-variable maps.
var (
	Viridis = Ramp{Name: "viridis", stops: mustStops(
		"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725",
	)}
	Plasma = Ramp{Name: "plasma", stops: mustStops(
		"#0d0887", "#7e03a8", "#cc4778", "#f89540", "#f0f921",
	)}
	Reds = Ramp{Name: "reds", stops: mustStops(
		"#fff5f0", "#fcbba1", "#fb6a4a", "#cb181d", "#67000d",
	)}
)

// At returns the ramp color for t in [0, 1], interpolating linearly between
// stops. Out-of-range values clamp to the ends.
func (r Ramp) At(t float64) color.NRGBA {
	if len(r.stops) == 0 {
		return NoData
	}
	if t <= 0 {
		return r.stops[0]
	}
	if t >= 1 {
		return r.stops[len(r.stops)-1]
	}

	scaled := t * float64(len(r.stops)-1)
	idx := int(scaled)
	frac := scaled - float64(idx)

	a, b := r.stops[idx], r.stops[idx+1]
	return color.NRGBA{
		R: lerpByte(a.R, b.R, frac),
		G: lerpByte(a.G, b.G, frac),
		B: lerpByte(a.B, b.B, frac),
		A: 0xff,
	}
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// hexColor parses a "#rrggbb" string.
func hexColor(s string) (color.NRGBA, bool) {
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, false
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[1+2*i])
		lo, ok2 := hexNibble(s[2+2*i])
		if !ok1 || !ok2 {
			return color.NRGBA{}, false
		}
		v[i] = hi<<4 | lo
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: 0xff}, true
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func mustStops(hexes ...string) []color.NRGBA {
	stops := make([]color.NRGBA, len(hexes))
	for i, h := range hexes {
		c, ok := hexColor(h)
		if !ok {
			panic("render: bad ramp stop " + h)
		}
		stops[i] = c
	}
	return stops
}
