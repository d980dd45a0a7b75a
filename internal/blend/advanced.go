package blend

import "math"

// blendAlpha replaces the backdrop with the source.
// Formula: B(Cb, Cs) = Cs
func blendAlpha(s, _ float64) float64 {
	return s
}

// blendMultiply multiplies source and destination colors.
// Formula: B(Cb, Cs) = Cb * Cs
func blendMultiply(s, d float64) float64 {
	return s * d
}

// blendScreen produces a lighter result than multiply.
// Formula: B(Cb, Cs) = 1 - (1 - Cb) * (1 - Cs)
func blendScreen(s, d float64) float64 {
	return 1 - (1-s)*(1-d)
}

// blendOverlay combines Multiply and Screen.
// Formula: B(Cb, Cs) = HardLight(Cs, Cb) (swapped parameters)
func blendOverlay(s, d float64) float64 {
	return blendHardLight(d, s)
}

// blendDarken selects the darker of source and destination.
// Formula: B(Cb, Cs) = min(Cb, Cs)
func blendDarken(s, d float64) float64 {
	return math.Min(s, d)
}

// blendLighten selects the lighter of source and destination.
// Formula: B(Cb, Cs) = max(Cb, Cs)
func blendLighten(s, d float64) float64 {
	return math.Max(s, d)
}

// blendColorDodge brightens the destination to reflect the source.
// Formula: B(Cb, Cs) = if Cb == 0: 0, if Cs == 1: 1, else: min(1, Cb / (1 - Cs))
func blendColorDodge(s, d float64) float64 {
	if d == 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	return math.Min(1, d/(1-s))
}

// blendColorBurn darkens the destination to reflect the source.
// Formula: B(Cb, Cs) = if Cb == 1: 1, if Cs == 0: 0, else: 1 - min(1, (1 - Cb) / Cs)
func blendColorBurn(s, d float64) float64 {
	if d >= 1 {
		return 1
	}
	if s <= 0 {
		return 0
	}
	return 1 - math.Min(1, (1-d)/s)
}

// blendHardLight combines Multiply and Screen based on source.
// Formula: B(Cb, Cs) = if Cs <= 0.5: Multiply(Cb, 2*Cs), else: Screen(Cb, 2*Cs - 1)
func blendHardLight(s, d float64) float64 {
	if s <= 0.5 {
		return blendMultiply(2*s, d)
	}
	return blendScreen(2*s-1, d)
}

// blendSoftLight is a softer version of HardLight.
func blendSoftLight(s, d float64) float64 {
	if s <= 0.5 {
		// B(Cb, Cs) = Cb - (1 - 2*Cs) * Cb * (1 - Cb)
		return d - (1-2*s)*d*(1-d)
	}
	// B(Cb, Cs) = Cb + (2*Cs - 1) * (D(Cb) - Cb)
	// where D(x) = if x <= 0.25: ((16*x - 12)*x + 4)*x, else: sqrt(x)
	var dx float64
	if d <= 0.25 {
		dx = ((16*d-12)*d + 4) * d
	} else {
		dx = math.Sqrt(d)
	}
	return d + (2*s-1)*(dx-d)
}

// blendDifference produces the absolute difference between source and destination.
// Formula: B(Cb, Cs) = |Cb - Cs|
func blendDifference(s, d float64) float64 {
	return math.Abs(s - d)
}

// blendExclusion is similar to Difference but with lower contrast.
// Formula: B(Cb, Cs) = Cb + Cs - 2 * Cb * Cs
func blendExclusion(s, d float64) float64 {
	return s + d - 2*s*d
}
