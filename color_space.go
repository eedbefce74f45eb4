package tofviz

// simpleLuminance is the cheap weighting used by the tone mapper.
func simpleLuminance(r, g, b float32) float32 {
	return 0.3*r + 0.6*g + 0.1*b
}

// relativeLuminance is the Y row of the linear BT.709 RGB to XYZ matrix.
func relativeLuminance(r, g, b float32) float32 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Luminance reduces a buffer to a single channel of relative luminance.
// Single-channel buffers are returned as a copy.
func Luminance(b *Buffer) (*Buffer, error) {
	if err := requireChannels(b, 1, 3); err != nil {
		return nil, err
	}
	if b.Channels == 1 {
		return b.Clone(), nil
	}
	out := NewBuffer(b.Height, b.Width, 1)
	for i := range out.Pix {
		out.Pix[i] = relativeLuminance(b.Pix[i*3], b.Pix[i*3+1], b.Pix[i*3+2])
	}
	return out, nil
}
