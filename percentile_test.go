package tofviz

import (
	"errors"
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	orig := append([]float64(nil), values...)

	cases := []struct {
		p    float64
		want float64
	}{
		{p: 0, want: 1},
		{p: 100, want: 5},
		{p: 60, want: 3},
	}
	for _, c := range cases {
		got, err := Percentile(values, c.p)
		if err != nil {
			t.Fatalf("p=%v: %v", c.p, err)
		}
		if math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("p=%v: got %v want %v", c.p, got, c.want)
		}
	}
	for i := range values {
		if values[i] != orig[i] {
			t.Fatalf("input modified: %v", values)
		}
	}
}

func TestPercentileMonotonic(t *testing.T) {
	values := make([]float64, 200)
	for i := range values {
		values[i] = math.Sin(float64(i)) * float64(i)
	}
	prev := math.Inf(-1)
	for p := 0.0; p <= 100; p += 2.5 {
		v, err := Percentile(values, p)
		if err != nil {
			t.Fatalf("p=%v: %v", p, err)
		}
		if v < prev {
			t.Fatalf("p=%v: %v below previous %v", p, v, prev)
		}
		prev = v
	}
}

func TestPercentileIgnoresNaN(t *testing.T) {
	got, err := Percentile([]float64{math.NaN(), 2, math.NaN(), 2}, 50)
	if err != nil || got != 2 {
		t.Fatalf("got %v, %v", got, err)
	}
	if _, err := Percentile([]float64{math.NaN()}, 50); err == nil {
		t.Fatal("expected error without finite samples")
	}
	if _, err := Percentile(nil, 50); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestPercentileOutOfRange(t *testing.T) {
	for _, p := range []float64{-0.1, 100.5, math.NaN()} {
		if _, err := Percentile([]float64{1, 2}, p); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("p=%v: expected ErrInvalidRange, got %v", p, err)
		}
	}
}
