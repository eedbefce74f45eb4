package tofviz

import (
	"fmt"
	"image"
)

// ToByteImage converts a linear HDR buffer into an 8-bit RGB image using the
// default display transform. Single-channel buffers become gray images.
// Values are scaled by 255, clipped to [0, 255] and truncated.
func ToByteImage(b *Buffer) (*image.RGBA, error) {
	return toByteImage(b, DefaultToneMapLimit)
}

func toByteImage(b *Buffer, limit float32) (*image.RGBA, error) {
	src := b
	if err := requireChannels(b, 1, 3); err != nil {
		return nil, err
	}
	if b.Channels == 1 {
		var err error
		if src, err = b.ExpandChannels(); err != nil {
			return nil, err
		}
	}
	d, err := ToDisplayBuffer(src, limit)
	if err != nil {
		return nil, fmt.Errorf("display transform: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	for p := 0; p < d.Width*d.Height; p++ {
		i := p * 3
		o := p * 4
		img.Pix[o] = clampByte(d.Pix[i] * 255)
		img.Pix[o+1] = clampByte(d.Pix[i+1] * 255)
		img.Pix[o+2] = clampByte(d.Pix[i+2] * 255)
		img.Pix[o+3] = 0xFF
	}
	return img, nil
}
