package tofviz

import (
	"fmt"
	"image"
)

func defaultFalseColorOptions() FalseColorOptions {
	return FalseColorOptions{
		Colormap:       Viridis,
		VMinPercentile: DefaultVMinPercentile,
		VMaxPercentile: DefaultVMaxPercentile,
		Resize:         1,
		Interpolation:  InterpolationBilinear,
		JPEGQuality:    defaultJPEGQuality,
	}
}

func falseColorOptions(opts []func(o *FalseColorOptions)) FalseColorOptions {
	opt := defaultFalseColorOptions()
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	if opt.Colormap == nil {
		opt.Colormap = Viridis
	}
	return opt
}

// WithRange pins the false-color normalization range.
func WithRange(vmin, vmax float64) func(o *FalseColorOptions) {
	return func(o *FalseColorOptions) {
		o.VMin = &vmin
		o.VMax = &vmax
	}
}

// scalarField reduces a buffer to one value per pixel: three channels are
// collapsed to relative luminance, a single channel is used as is.
func scalarField(b *Buffer) ([]float32, error) {
	l, err := Luminance(b)
	if err != nil {
		return nil, err
	}
	return l.Pix, nil
}

// normRange resolves the normalization bounds. degenerate is true when both bounds
// were derived from percentiles of a field with no spread.
func normRange(field []float32, opt *FalseColorOptions) (vmin, vmax float64, degenerate bool, err error) {
	if opt.VMin == nil || opt.VMax == nil {
		if opt.VMinPercentile > opt.VMaxPercentile {
			return 0, 0, false, fmt.Errorf("%w: percentile %v above %v", ErrInvalidRange,
				opt.VMinPercentile, opt.VMaxPercentile)
		}
		values := make([]float64, len(field))
		for i, v := range field {
			values[i] = float64(v)
		}
		sorted, err := sortedFinite(values)
		if err != nil {
			return 0, 0, false, err
		}
		if vmin, err = percentileSorted(sorted, opt.VMinPercentile); err != nil {
			return 0, 0, false, err
		}
		if vmax, err = percentileSorted(sorted, opt.VMaxPercentile); err != nil {
			return 0, 0, false, err
		}
	}
	if opt.VMin != nil {
		vmin = *opt.VMin
	}
	if opt.VMax != nil {
		vmax = *opt.VMax
	}

	if !isFinite(vmin) || !isFinite(vmax) {
		return 0, 0, false, fmt.Errorf("%w: [%v, %v] is not finite", ErrInvalidRange, vmin, vmax)
	}
	if vmin == vmax && opt.VMin == nil && opt.VMax == nil {
		return vmin, vmax, true, nil
	}
	if vmin >= vmax {
		return 0, 0, false, fmt.Errorf("%w: vmin %v must be below vmax %v", ErrInvalidRange, vmin, vmax)
	}
	return vmin, vmax, false, nil
}

// NormalizationRange returns the [vmin, vmax] range FalseColor would map onto the colormap.
func NormalizationRange(b *Buffer, opts ...func(o *FalseColorOptions)) (vmin, vmax float64, err error) {
	opt := falseColorOptions(opts)
	field, err := scalarField(b)
	if err != nil {
		return 0, 0, err
	}
	vmin, vmax, _, err = normRange(field, &opt)
	return vmin, vmax, err
}

// FalseColor renders a scalar field through a colormap. Three-channel buffers are
// reduced to relative luminance first. Values are normalized to [vmin, vmax] and
// clipped to the colormap endpoints, NaN samples take the low endpoint.
//
// When neither bound is given and the field has no spread between the configured
// percentiles, every pixel takes the colormap midpoint. Explicit bounds with
// vmin >= vmax fail with ErrInvalidRange.
func FalseColor(b *Buffer, opts ...func(o *FalseColorOptions)) (*image.RGBA, error) {
	opt := falseColorOptions(opts)
	return falseColor(b, &opt)
}

func falseColor(b *Buffer, opt *FalseColorOptions) (*image.RGBA, error) {
	field, err := scalarField(b)
	if err != nil {
		return nil, err
	}
	vmin, vmax, degenerate, err := normRange(field, opt)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	scale := 0.0
	if !degenerate {
		scale = 1 / (vmax - vmin)
	}
	for i, v := range field {
		t := 0.5
		if !degenerate {
			t = (float64(v) - vmin) * scale
		}
		c := opt.Colormap.At(t)
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 0xFF
	}
	return img, nil
}

// SaveFalseColor renders b with FalseColor and writes it to outputDir/filename,
// creating outputDir when missing.
func SaveFalseColor(b *Buffer, outputDir, filename string, opts ...func(o *FalseColorOptions)) error {
	opt := falseColorOptions(opts)
	if err := checkFormat(filename); err != nil {
		return err
	}
	img, err := falseColor(b, &opt)
	if err != nil {
		return fmt.Errorf("false color: %w", err)
	}
	out, err := resizeByFactor(img, opt.Resize, opt.Interpolation)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	if _, err := writeImageFile(out, outputDir, filename, opt.JPEGQuality); err != nil {
		return err
	}
	return nil
}
