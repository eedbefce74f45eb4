package tofviz

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// Colormap maps normalized values in [0, 1] to colors.
type Colormap interface {
	At(t float64) color.RGBA
}

// LinearColormap interpolates linearly between evenly spaced color stops.
// Values below 0 (and NaN) clip to the first stop, values above 1 to the last.
type LinearColormap struct {
	name  string
	stops []color.RGBA
}

// NewLinearColormap builds a colormap from at least two stops.
func NewLinearColormap(name string, stops ...color.RGBA) (LinearColormap, error) {
	if len(stops) < 2 {
		return LinearColormap{}, fmt.Errorf("colormap %q needs at least 2 stops, got %d", name, len(stops))
	}
	return LinearColormap{name: name, stops: append([]color.RGBA(nil), stops...)}, nil
}

// Name returns the colormap name.
func (c LinearColormap) Name() string { return c.name }

// At returns the color at position t.
func (c LinearColormap) At(t float64) color.RGBA {
	if !(t > 0) {
		return c.stops[0]
	}
	if t >= 1 {
		return c.stops[len(c.stops)-1]
	}

	idx := t * float64(len(c.stops)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(c.stops) {
		upper = len(c.stops) - 1
	}
	return lerpRGBA(c.stops[lower], c.stops[upper], idx-float64(lower))
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + t*(float64(y)-float64(x)) + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xFF}
}

// Viridis is the matplotlib viridis colormap sampled at 11 stops.
var Viridis = LinearColormap{
	name: "viridis",
	stops: []color.RGBA{
		{68, 1, 84, 255},
		{72, 35, 116, 255},
		{64, 67, 135, 255},
		{52, 94, 141, 255},
		{41, 120, 142, 255},
		{32, 144, 140, 255},
		{34, 167, 132, 255},
		{68, 190, 112, 255},
		{121, 209, 81, 255},
		{189, 222, 38, 255},
		{253, 231, 37, 255},
	},
}

// Plasma is the matplotlib plasma colormap.
var Plasma = LinearColormap{
	name: "plasma",
	stops: []color.RGBA{
		{13, 8, 135, 255},
		{75, 3, 161, 255},
		{125, 3, 168, 255},
		{168, 34, 150, 255},
		{203, 70, 121, 255},
		{229, 107, 93, 255},
		{248, 148, 65, 255},
		{253, 195, 40, 255},
		{240, 249, 33, 255},
	},
}

// Inferno is the matplotlib inferno colormap.
var Inferno = LinearColormap{
	name: "inferno",
	stops: []color.RGBA{
		{0, 0, 4, 255},
		{40, 11, 84, 255},
		{101, 21, 110, 255},
		{159, 42, 99, 255},
		{212, 72, 66, 255},
		{245, 125, 21, 255},
		{250, 193, 39, 255},
		{252, 255, 164, 255},
	},
}

// Magma is the matplotlib magma colormap.
var Magma = LinearColormap{
	name: "magma",
	stops: []color.RGBA{
		{0, 0, 4, 255},
		{28, 16, 68, 255},
		{79, 18, 123, 255},
		{129, 37, 129, 255},
		{181, 54, 122, 255},
		{229, 80, 100, 255},
		{251, 135, 97, 255},
		{254, 194, 135, 255},
		{252, 253, 191, 255},
	},
}

// Gray maps 0 to black and 1 to white.
var Gray = LinearColormap{
	name:  "gray",
	stops: []color.RGBA{{0, 0, 0, 255}, {255, 255, 255, 255}},
}

var builtinColormaps = map[string]LinearColormap{
	Viridis.name: Viridis,
	Plasma.name:  Plasma,
	Inferno.name: Inferno,
	Magma.name:   Magma,
	Gray.name:    Gray,
}

// ColormapByName resolves a built-in colormap.
func ColormapByName(name string) (Colormap, error) {
	if c, ok := builtinColormaps[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown colormap %q, available: %s", name, strings.Join(ColormapNames(), ", "))
}

// ColormapNames lists built-in colormaps in alphabetical order.
func ColormapNames() []string {
	names := make([]string, 0, len(builtinColormaps))
	for name := range builtinColormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
