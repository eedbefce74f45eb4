package tofviz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultRelTolerance is the relative tolerance of AllClose comparisons.
	DefaultRelTolerance = 1e-5
	// DefaultAbsTolerance is the absolute tolerance of AllClose comparisons.
	DefaultAbsTolerance = 1e-8
)

// DiffStats summarizes the element-wise difference of two buffers.
type DiffStats struct {
	Count   int
	MSE     float64
	RMSE    float64
	MaxAbs  float64
	MeanAbs float64
	// Mismatches counts values outside the AllClose tolerance.
	Mismatches int
}

func checkComparable(a, b *Buffer) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if !a.SameShape(b) {
		return fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d", ErrShapeMismatch,
			a.Height, a.Width, a.Channels, b.Height, b.Width, b.Channels)
	}
	return nil
}

func toFloat64(pix []float32) []float64 {
	out := make([]float64, len(pix))
	for i, v := range pix {
		out[i] = float64(v)
	}
	return out
}

// Diff computes error statistics of a against the reference b, counting values
// outside the given tolerances as mismatches.
func Diff(a, b *Buffer, rtol, atol float64) (DiffStats, error) {
	if err := checkComparable(a, b); err != nil {
		return DiffStats{}, err
	}
	av, bv := toFloat64(a.Pix), toFloat64(b.Pix)
	d := make([]float64, len(av))
	floats.SubTo(d, av, bv)

	st := DiffStats{Count: len(d)}
	st.MSE = floats.Dot(d, d) / float64(len(d))
	st.RMSE = math.Sqrt(st.MSE)
	for i, v := range d {
		d[i] = math.Abs(v)
		if !(d[i] <= atol+rtol*math.Abs(bv[i])) {
			st.Mismatches++
		}
	}
	st.MaxAbs = floats.Max(d)
	st.MeanAbs = floats.Sum(d) / float64(len(d))
	return st, nil
}

// AllClose reports whether |a-b| <= atol + rtol*|b| holds for every value.
// NaN values never compare close.
func AllClose(a, b *Buffer, rtol, atol float64) (bool, error) {
	if err := checkComparable(a, b); err != nil {
		return false, err
	}
	for i, v := range a.Pix {
		ref := float64(b.Pix[i])
		if !(math.Abs(float64(v)-ref) <= atol+rtol*math.Abs(ref)) {
			return false, nil
		}
	}
	return true, nil
}
