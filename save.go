package tofviz

import (
	"fmt"
	"image"
)

func defaultSaveOptions() SaveOptions {
	return SaveOptions{
		Resize:        1,
		Interpolation: InterpolationBilinear,
		JPEGQuality:   defaultJPEGQuality,
		ToneMapLimit:  DefaultToneMapLimit,
	}
}

// SaveImage tone-maps an HDR buffer and writes it to outputDir/filename.
// Single-channel buffers are replicated to three channels. The image format follows
// the filename extension (.png, .jpg, .jpeg, .tif, .tiff, .bmp). outputDir is created
// when missing, an existing directory is not an error.
func SaveImage(b *Buffer, outputDir, filename string, opts ...func(o *SaveOptions)) error {
	opt := defaultSaveOptions()
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	if err := checkFormat(filename); err != nil {
		return err
	}

	img, err := renderImage(b, opt)
	if err != nil {
		return err
	}
	if _, err := writeImageFile(img, outputDir, filename, opt.JPEGQuality); err != nil {
		return err
	}
	return nil
}

// renderImage produces the byte image SaveImage writes.
func renderImage(b *Buffer, opt SaveOptions) (image.Image, error) {
	img, err := toByteImage(b, opt.ToneMapLimit)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	out, err := resizeByFactor(img, opt.Resize, opt.Interpolation)
	if err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}
	return out, nil
}
