// Package scene holds the in-memory description of what glint renders:
// primitives, lights, camera position and global render parameters.
package scene

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit per channel RGB value.
type Color struct {
	R, G, B uint8
}

// Named colors.
var (
	Black   = Color{0, 0, 0}
	White   = Color{255, 255, 255}
	Red     = Color{255, 0, 0}
	Green   = Color{0, 255, 0}
	Blue    = Color{0, 0, 255}
	Magenta = Color{255, 0, 255}
	Yellow  = Color{255, 255, 0}
	Cyan    = Color{0, 255, 255}

	// Background is the flat dark gray returned for rays that hit nothing.
	Background = Color{16, 16, 16}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// Add returns the channel-wise sum, saturating at 255.
func (c Color) Add(o Color) Color {
	return Color{
		R: addSat(c.R, o.R),
		G: addSat(c.G, o.G),
		B: addSat(c.B, o.B),
	}
}

// Mul blends two colors channel-wise: (a*b)/255.
func (c Color) Mul(o Color) Color {
	return Color{
		R: uint8((uint16(c.R) * uint16(o.R)) / 255),
		G: uint8((uint16(c.G) * uint16(o.G)) / 255),
		B: uint8((uint16(c.B) * uint16(o.B)) / 255),
	}
}

// Scale multiplies every channel by s and clamps the result to [0, 255].
// A NaN factor cannot be represented in 8 bits and yields black.
func (c Color) Scale(s float64) Color {
	return Color{
		R: clampChannel(float64(c.R) * s),
		G: clampChannel(float64(c.G) * s),
		B: clampChannel(float64(c.B) * s),
	}
}

// RGBA implements image/color.Color. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// String returns the color as a hex triple.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses "#rrggbb" or "r,g,b".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hc, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		r, g, b := hc.RGB255()
		return Color{r, g, b}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("parse color %q: want #rrggbb or r,g,b", s)
	}
	var ch [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}
	return Color{ch[0], ch[1], ch[2]}, nil
}

// ColorFromLinear converts a linear RGB triple in [0, 1] (the glTF
// convention) to an 8-bit sRGB color.
func ColorFromLinear(rgb [3]float64) Color {
	r, g, b := colorful.LinearRgb(rgb[0], rgb[1], rgb[2]).Clamped().RGB255()
	return Color{r, g, b}
}

func addSat(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

func clampChannel(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	if v > 0 {
		return uint8(v)
	}
	return 0
}
