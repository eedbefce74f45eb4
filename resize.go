package tofviz

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/nfnt/resize"
)

// Interpolation selects the resampling kernel used when resizing exports.
type Interpolation int

const (
	// InterpolationNearest is nearest-neighbor sampling.
	InterpolationNearest Interpolation = iota
	// InterpolationBilinear is linear sampling.
	InterpolationBilinear
	// InterpolationBicubic is cubic sampling.
	InterpolationBicubic
	// InterpolationMitchellNetravali is Mitchell-Netravali sampling.
	InterpolationMitchellNetravali
	// InterpolationLanczos2 is Lanczos sampling with a=2.
	InterpolationLanczos2
	// InterpolationLanczos3 is Lanczos sampling with a=3.
	InterpolationLanczos3
)

var interpolationNames = map[string]Interpolation{
	"nearest":  InterpolationNearest,
	"bilinear": InterpolationBilinear,
	"bicubic":  InterpolationBicubic,
	"mitchell": InterpolationMitchellNetravali,
	"lanczos2": InterpolationLanczos2,
	"lanczos3": InterpolationLanczos3,
}

// ParseInterpolation resolves an interpolation by name, e.g. "bilinear".
func ParseInterpolation(name string) (Interpolation, error) {
	if i, ok := interpolationNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return i, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q", name)
}

func (i Interpolation) kernel() resize.InterpolationFunction {
	switch i {
	case InterpolationNearest:
		return resize.NearestNeighbor
	case InterpolationBicubic:
		return resize.Bicubic
	case InterpolationMitchellNetravali:
		return resize.MitchellNetravali
	case InterpolationLanczos2:
		return resize.Lanczos2
	case InterpolationLanczos3:
		return resize.Lanczos3
	default:
		return resize.Bilinear
	}
}

// scaledSize returns round(w*factor) x round(h*factor), at least 1x1.
func scaledSize(w, h int, factor float64) (uint, uint) {
	sw := math.Round(float64(w) * factor)
	sh := math.Round(float64(h) * factor)
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	return uint(sw), uint(sh)
}

// resizeByFactor scales img uniformly, a factor of 1 returns img unchanged.
func resizeByFactor(img image.Image, factor float64, interp Interpolation) (image.Image, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("invalid resize factor %v", factor)
	}
	if factor == 1 {
		return img, nil
	}
	b := img.Bounds()
	w, h := scaledSize(b.Dx(), b.Dy(), factor)
	return resize.Resize(w, h, img, interp.kernel()), nil
}
