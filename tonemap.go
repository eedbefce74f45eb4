package tofviz

import "fmt"

// ToneMap compresses dynamic range by scaling every value with 1/(1+L/limit), where
// L = 0.3R + 0.6G + 0.1B is shared by all channels of a pixel. Single-channel buffers
// use the value itself as L. The output keeps the input shape and is not clipped.
func ToneMap(b *Buffer, limit float32) (*Buffer, error) {
	if err := requireChannels(b, 1, 3); err != nil {
		return nil, err
	}
	if !(limit > 0) {
		return nil, fmt.Errorf("tone map limit must be positive, got %v", limit)
	}
	out := NewBuffer(b.Height, b.Width, b.Channels)
	for i := 0; i < len(b.Pix); i += b.Channels {
		lum := b.Pix[i]
		if b.Channels == 3 {
			lum = simpleLuminance(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
		}
		k := 1 / (1 + lum/limit)
		for c := 0; c < b.Channels; c++ {
			out.Pix[i+c] = b.Pix[i+c] * k
		}
	}
	return out, nil
}

// LinearToDisplay applies the inverse display gamma v^(1/2.2) to every value.
// Inputs must be non-negative, negative values produce NaN.
func LinearToDisplay(b *Buffer) *Buffer {
	out := &Buffer{Height: b.Height, Width: b.Width, Channels: b.Channels, Pix: make([]float32, len(b.Pix))}
	for i, v := range b.Pix {
		out.Pix[i] = powf(v, 1/displayGamma)
	}
	return out
}

// ToDisplayBuffer is the canonical HDR to display transform: ToneMap followed by
// LinearToDisplay. Use DefaultToneMapLimit unless the scene calls for another limit.
func ToDisplayBuffer(b *Buffer, limit float32) (*Buffer, error) {
	tm, err := ToneMap(b, limit)
	if err != nil {
		return nil, err
	}
	return LinearToDisplay(tm), nil
}
