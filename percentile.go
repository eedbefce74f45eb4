package tofviz

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation of the empirical distribution. NaN values are ignored and
// values is not modified.
func Percentile(values []float64, p float64) (float64, error) {
	sorted, err := sortedFinite(values)
	if err != nil {
		return 0, err
	}
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) (float64, error) {
	if !(p >= 0 && p <= 100) {
		return 0, fmt.Errorf("%w: percentile %v outside [0, 100]", ErrInvalidRange, p)
	}
	return stat.Quantile(p/100, stat.LinInterp, sorted, nil), nil
}

func sortedFinite(values []float64) ([]float64, error) {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return nil, errors.New("no samples to compute percentile")
	}
	sort.Float64s(sorted)
	return sorted, nil
}
