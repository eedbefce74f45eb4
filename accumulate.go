package tofviz

import (
	"errors"
	"fmt"
)

// Accumulator averages repeated renders of the same scene.
// The zero value is ready to use; the first added buffer fixes the shape.
type Accumulator struct {
	sum   []float64
	shape Buffer
	count int
}

// Add accumulates b, which must match the shape of the first buffer.
func (a *Accumulator) Add(b *Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if a.count == 0 {
		a.shape = Buffer{Height: b.Height, Width: b.Width, Channels: b.Channels}
		a.sum = make([]float64, len(b.Pix))
	} else if !a.shape.SameShape(b) {
		return fmt.Errorf("%w: got %dx%dx%d, accumulating %dx%dx%d", ErrShapeMismatch,
			b.Height, b.Width, b.Channels, a.shape.Height, a.shape.Width, a.shape.Channels)
	}
	for i, v := range b.Pix {
		a.sum[i] += float64(v)
	}
	a.count++
	return nil
}

// Count returns the number of accumulated buffers.
func (a *Accumulator) Count() int {
	return a.count
}

// Mean returns the per-value average of accumulated buffers.
func (a *Accumulator) Mean() (*Buffer, error) {
	if a.count == 0 {
		return nil, errors.New("no buffers accumulated")
	}
	out := NewBuffer(a.shape.Height, a.shape.Width, a.shape.Channels)
	n := float64(a.count)
	for i, s := range a.sum {
		out.Pix[i] = float32(s / n)
	}
	return out, nil
}
