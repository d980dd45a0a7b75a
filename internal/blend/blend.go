// Package blend implements per-channel compositing formulas.
//
// Every mode is a separable blend function B(s, d) from the W3C Compositing
// and Blending Level 1 specification, operating on unmultiplied channel
// values in [0, 1]. The result is mixed with the backdrop by the source alpha:
//
//	d' = clamp(d*(1-a) + B(s, d)*a)
//
// References:
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
//   - PDF Blend Modes: Addendum (ISO 32000-1:2008)
package blend

// Mode represents a blending mode.
type Mode uint8

const (
	ModeAlpha      Mode = iota // Result: S (source-over)
	ModeMultiply               // Result: S * D
	ModeScreen                 // Result: 1 - (1-S)*(1-D)
	ModeOverlay                // HardLight with swapped layers
	ModeDarken                 // min(S, D)
	ModeLighten                // max(S, D)
	ModeColorDodge             // D / (1 - S)
	ModeColorBurn              // 1 - (1 - D) / S
	ModeHardLight              // Multiply or Screen depending on source
	ModeSoftLight              // Soft version of HardLight
	ModeDifference             // |S - D|
	ModeExclusion              // S + D - 2*S*D

	modeCount
)

// Func is a separable blend function on unmultiplied channel values.
type Func func(s, d float64) float64

var funcs = [modeCount]Func{
	ModeAlpha:      blendAlpha,
	ModeMultiply:   blendMultiply,
	ModeScreen:     blendScreen,
	ModeOverlay:    blendOverlay,
	ModeDarken:     blendDarken,
	ModeLighten:    blendLighten,
	ModeColorDodge: blendColorDodge,
	ModeColorBurn:  blendColorBurn,
	ModeHardLight:  blendHardLight,
	ModeSoftLight:  blendSoftLight,
	ModeDifference: blendDifference,
	ModeExclusion:  blendExclusion,
}

var names = [modeCount]string{
	ModeAlpha:      "alpha",
	ModeMultiply:   "multiply",
	ModeScreen:     "screen",
	ModeOverlay:    "overlay",
	ModeDarken:     "darken",
	ModeLighten:    "lighten",
	ModeColorDodge: "color-dodge",
	ModeColorBurn:  "burn",
	ModeHardLight:  "hard-light",
	ModeSoftLight:  "soft-light",
	ModeDifference: "difference",
	ModeExclusion:  "exclusion",
}

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m < modeCount
}

// String returns the mode name.
func (m Mode) String() string {
	if !m.IsValid() {
		return "unknown"
	}
	return names[m]
}

// Parse returns the mode with the given name.
func Parse(name string) (Mode, bool) {
	for m, n := range names {
		if n == name {
			return Mode(m), true
		}
	}
	return 0, false
}

// Modes returns all modes in declaration order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// GetFunc returns the blend function for the given mode.
// Returns the alpha (source-over) function for unknown modes.
func GetFunc(m Mode) Func {
	if !m.IsValid() {
		return blendAlpha
	}
	return funcs[m]
}

// Channel composites source channel s with alpha a onto backdrop d.
func Channel(m Mode, s, d, a float64) float64 {
	b := GetFunc(m)(s, d)
	return Clamp(d*(1-a) + b*a)
}

// Alpha composites a source alpha onto a backdrop alpha (source-over).
// The alpha channel of a buffer composes this way under every mode.
func Alpha(a, d float64) float64 {
	return Clamp(a + d*(1-a))
}
