package blend

// Clamp clamps x to [0, 1]. NaN maps to 0.
func Clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x >= 0 {
		return x
	}
	return 0
}
