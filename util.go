package tofviz

import "math"

func powf(v, e float32) float32 { return float32(math.Pow(float64(v), float64(e))) }

func srgbInvOetf(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(math.Pow(float64((v+0.055)/1.055), 2.4))
}

// clampByte truncates a [0, 255] scaled value to a byte, NaN maps to 0.
func clampByte(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
