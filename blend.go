package polyfit

import (
	"fmt"

	"github.com/gogpu/polyfit/internal/blend"
)

// BlendMode selects the compositing formula used when a polygon is drawn.
//
// Every mode is a per-channel function B(s, d) of the source channel s and
// the backdrop channel d, mixed by the source alpha a:
//
//	d' = clamp(d*(1-a) + B(s, d)*a)
//
// The mode is a parameter of the render call rather than of the polygon, so
// the same primitive can be evaluated under several modes.
type BlendMode uint8

// Blend modes. Formulas follow W3C Compositing and Blending Level 1.
const (
	BlendAlpha      = BlendMode(blend.ModeAlpha)      // B = s (source-over)
	BlendMultiply   = BlendMode(blend.ModeMultiply)   // B = s*d
	BlendScreen     = BlendMode(blend.ModeScreen)     // B = 1 - (1-s)*(1-d)
	BlendOverlay    = BlendMode(blend.ModeOverlay)    // HardLight with swapped layers
	BlendDarken     = BlendMode(blend.ModeDarken)     // B = min(s, d)
	BlendLighten    = BlendMode(blend.ModeLighten)    // B = max(s, d)
	BlendColorDodge = BlendMode(blend.ModeColorDodge) // B = min(1, d/(1-s))
	BlendColorBurn  = BlendMode(blend.ModeColorBurn)  // B = 1 - min(1, (1-d)/s)
	BlendHardLight  = BlendMode(blend.ModeHardLight)  // Multiply or Screen by source
	BlendSoftLight  = BlendMode(blend.ModeSoftLight)  // soft HardLight
	BlendDifference = BlendMode(blend.ModeDifference) // B = |s - d|
	BlendExclusion  = BlendMode(blend.ModeExclusion)  // B = s + d - 2*s*d
)

// String returns the mode name, e.g. "alpha" or "burn".
func (m BlendMode) String() string {
	return blend.Mode(m).String()
}

// IsValid reports whether m is a known mode.
func (m BlendMode) IsValid() bool {
	return blend.Mode(m).IsValid()
}

// MarshalText implements encoding.TextMarshaler.
func (m BlendMode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("polyfit: invalid blend mode %d", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlendMode) UnmarshalText(text []byte) error {
	v, err := ParseBlendMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseBlendMode returns the mode with the given name.
func ParseBlendMode(name string) (BlendMode, error) {
	m, ok := blend.Parse(name)
	if !ok {
		return 0, fmt.Errorf("polyfit: unknown blend mode %q", name)
	}
	return BlendMode(m), nil
}

// BlendModes returns every supported mode.
func BlendModes() []BlendMode {
	modes := blend.Modes()
	out := make([]BlendMode, len(modes))
	for i, m := range modes {
		out[i] = BlendMode(m)
	}
	return out
}

// BlendPixel composites color c onto pixel dst of a buffer with the given
// channel count. On 4-channel buffers the fourth channel is the buffer's own
// alpha and always composes source-over.
func BlendPixel(dst Pixel, c RGBA, channels int, mode BlendMode) Pixel {
	src := c.Pixel(channels)
	return blendPixel(dst, &src, c.A, channels, blend.Mode(mode))
}

func blendPixel(dst Pixel, src *Pixel, a float64, channels int, mode blend.Mode) Pixel {
	colorChannels := channels
	if channels == 4 {
		colorChannels = 3
		dst[3] = blend.Alpha(a, dst[3])
	}
	for c := 0; c < colorChannels; c++ {
		dst[c] = blend.Channel(mode, src[c], dst[c], a)
	}
	return dst
}

// Composite blends color c into every pixel of cov on dst using mode.
// It fails with ErrShapeMismatch when the coverage was computed for a
// different shape.
func Composite(dst *Canvas, cov Coverage, c RGBA, mode BlendMode) error {
	if cov.Shape != dst.shape {
		return fmt.Errorf("%w: coverage %v, canvas %v", ErrShapeMismatch, cov.Shape, dst.shape)
	}
	if !mode.IsValid() {
		return fmt.Errorf("polyfit: invalid blend mode %d", mode)
	}

	c = c.Clamp()
	ch := dst.shape.Channels
	src := c.Pixel(ch)
	m := blend.Mode(mode)

	var px Pixel
	for _, s := range cov.Spans {
		i := dst.offset(s.X0, s.Y)
		for x := s.X0; x < s.X1; x++ {
			copy(px[:ch], dst.data[i:i+ch])
			px = blendPixel(px, &src, c.A, ch, m)
			copy(dst.data[i:i+ch], px[:ch])
			i += ch
		}
	}
	return nil
}
