package polyfit

import "github.com/gogpu/polyfit/internal/blend"

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1] and color channels are not
// premultiplied by alpha.
type RGBA struct {
	R float64 `json:"r" yaml:"r" toml:"r"`
	G float64 `json:"g" yaml:"g" toml:"g"`
	B float64 `json:"b" yaml:"b" toml:"b"`
	A float64 `json:"a" yaml:"a" toml:"a"`
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Gray creates an opaque gray color.
func Gray(v float64) RGBA {
	return RGBA{R: v, G: v, B: v, A: 1.0}
}

// Clamp returns c with every component clamped to [0, 1].
func (c RGBA) Clamp() RGBA {
	return RGBA{
		R: blend.Clamp(c.R),
		G: blend.Clamp(c.G),
		B: blend.Clamp(c.B),
		A: blend.Clamp(c.A),
	}
}

// Luma returns the gray value of c. Neutral colors map to their exact
// component value; others use Rec.601 luma weights.
func (c RGBA) Luma() float64 {
	if c.R == c.G && c.G == c.B {
		return c.R
	}
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// Pixel projects c onto a pixel with the given channel count:
// gray for 1, RGB for 3 and RGBA for 4.
func (c RGBA) Pixel(channels int) Pixel {
	switch channels {
	case 1:
		return Pixel{c.Luma()}
	case 3:
		return Pixel{c.R, c.G, c.B}
	default:
		return Pixel{c.R, c.G, c.B, c.A}
	}
}

// Common colors
var (
	Black = RGB(0, 0, 0)
	White = RGB(1, 1, 1)
	Red   = RGB(1, 0, 0)
)
