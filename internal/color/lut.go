package color

// srgbToLinearLUT maps every 8-bit sRGB value to linear light.
var srgbToLinearLUT [256]float64

func init() {
	for i := range srgbToLinearLUT {
		srgbToLinearLUT[i] = SRGBToLinear(float64(i) / 255)
	}
}

// DecodeByte converts an 8-bit sRGB sample to a linear value in [0,1].
func DecodeByte(s uint8) float64 {
	return srgbToLinearLUT[s]
}

// EncodeByte converts a linear value in [0,1] to an 8-bit sRGB sample with
// rounding. Out-of-range input is clamped.
func EncodeByte(l float64) uint8 {
	if !(l > 0) {
		return 0
	}
	if l >= 1 {
		return 255
	}
	return uint8(LinearToSRGB(l)*255 + 0.5)
}
