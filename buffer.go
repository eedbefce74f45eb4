package tofviz

import (
	"errors"
	"fmt"
)

// NewBuffer allocates a zeroed buffer.
func NewBuffer(height, width, channels int) *Buffer {
	return &Buffer{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]float32, height*width*channels),
	}
}

// UniformBuffer allocates a buffer with every value set to v.
func UniformBuffer(height, width, channels int, v float32) *Buffer {
	b := NewBuffer(height, width, channels)
	for i := range b.Pix {
		b.Pix[i] = v
	}
	return b
}

// Validate checks that dimensions are positive and match the pixel slice.
func (b *Buffer) Validate() error {
	if b == nil {
		return errors.New("nil buffer")
	}
	if b.Height <= 0 || b.Width <= 0 || b.Channels <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%dx%d", ErrShapeMismatch, b.Height, b.Width, b.Channels)
	}
	if len(b.Pix) != b.Height*b.Width*b.Channels {
		return fmt.Errorf("%w: %dx%dx%d buffer holds %d values", ErrShapeMismatch,
			b.Height, b.Width, b.Channels, len(b.Pix))
	}
	return nil
}

// At returns the value at row y, column x, channel c.
func (b *Buffer) At(y, x, c int) float32 {
	return b.Pix[(y*b.Width+x)*b.Channels+c]
}

// Set stores v at row y, column x, channel c.
func (b *Buffer) Set(y, x, c int, v float32) {
	b.Pix[(y*b.Width+x)*b.Channels+c] = v
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Height: b.Height, Width: b.Width, Channels: b.Channels}
	out.Pix = append([]float32(nil), b.Pix...)
	return out
}

// SameSize reports whether both buffers share spatial dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b.Height == o.Height && b.Width == o.Width
}

// SameShape reports whether both buffers share spatial dimensions and channel count.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b.SameSize(o) && b.Channels == o.Channels
}

// ExpandChannels replicates a single-channel buffer into three channels.
// A three-channel buffer is returned as a copy.
func (b *Buffer) ExpandChannels() (*Buffer, error) {
	if err := requireChannels(b, 1, 3); err != nil {
		return nil, err
	}
	if b.Channels == 3 {
		return b.Clone(), nil
	}
	out := NewBuffer(b.Height, b.Width, 3)
	for i, v := range b.Pix {
		out.Pix[i*3] = v
		out.Pix[i*3+1] = v
		out.Pix[i*3+2] = v
	}
	return out, nil
}

// Scale returns a copy with every value multiplied by k.
func (b *Buffer) Scale(k float32) *Buffer {
	out := b.Clone()
	for i := range out.Pix {
		out.Pix[i] *= k
	}
	return out
}

// SliceChannels returns a copy holding n channels starting at channel start.
func (b *Buffer) SliceChannels(start, n int) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if start < 0 || n <= 0 || start+n > b.Channels {
		return nil, fmt.Errorf("%w: channels [%d, %d) out of %d", ErrShapeMismatch, start, start+n, b.Channels)
	}
	out := NewBuffer(b.Height, b.Width, n)
	for p := 0; p < b.Height*b.Width; p++ {
		copy(out.Pix[p*n:(p+1)*n], b.Pix[p*b.Channels+start:p*b.Channels+start+n])
	}
	return out, nil
}

func requireChannels(b *Buffer, allowed ...int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	for _, c := range allowed {
		if b.Channels == c {
			return nil
		}
	}
	return fmt.Errorf("%w: unexpected channel count %d, want one of %v", ErrShapeMismatch, b.Channels, allowed)
}
