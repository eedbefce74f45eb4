package tofviz

import (
	"errors"
	"image/color"
	"math"
	"path/filepath"
	"testing"
)

func TestFalseColorConstantFieldUsesMidpoint(t *testing.T) {
	for _, c := range []int{1, 3} {
		b := UniformBuffer(4, 4, c, 7)
		img, err := FalseColor(b)
		if err != nil {
			t.Fatalf("false color %d channels: %v", c, err)
		}
		want := Viridis.At(0.5)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				if got := img.RGBAAt(x, y); got != want {
					t.Fatalf("pixel %d,%d: got %v want %v", x, y, got, want)
				}
			}
		}
	}
}

func TestFalseColorClipsToEndpoints(t *testing.T) {
	b := &Buffer{Height: 1, Width: 4, Channels: 1, Pix: []float32{-10, 0.5, 10, float32(math.NaN())}}
	img, err := FalseColor(b, WithRange(0, 1))
	if err != nil {
		t.Fatalf("false color: %v", err)
	}
	low, high := color.RGBA{68, 1, 84, 255}, color.RGBA{253, 231, 37, 255}
	if got := img.RGBAAt(0, 0); got != low {
		t.Fatalf("below range: got %v want %v", got, low)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{32, 144, 140, 255}) {
		t.Fatalf("midpoint: got %v", got)
	}
	if got := img.RGBAAt(2, 0); got != high {
		t.Fatalf("above range: got %v want %v", got, high)
	}
	if got := img.RGBAAt(3, 0); got != low {
		t.Fatalf("NaN: got %v want %v", got, low)
	}
}

func TestFalseColorLuminanceReduction(t *testing.T) {
	// Relative luminance of (1, 1, 1) is 1, the middle of [0, 2].
	b := UniformBuffer(2, 2, 3, 1)
	img, err := FalseColor(b, WithRange(0, 2), func(o *FalseColorOptions) { o.Colormap = Gray })
	if err != nil {
		t.Fatalf("false color: %v", err)
	}
	if got := img.RGBAAt(1, 1); got.R < 127 || got.R > 128 || got.R != got.G || got.G != got.B {
		t.Fatalf("got %v", got)
	}

	// Pure green carries 0.7152 of the luminance.
	g := NewBuffer(1, 1, 3)
	g.Pix[1] = 1
	img, err = FalseColor(g, WithRange(0, 1), func(o *FalseColorOptions) { o.Colormap = Gray })
	if err != nil {
		t.Fatalf("false color: %v", err)
	}
	if got := img.RGBAAt(0, 0).R; got != 182 {
		t.Fatalf("green luminance: got %d want 182", got)
	}
}

func TestFalseColorSignedRange(t *testing.T) {
	b := &Buffer{Height: 1, Width: 3, Channels: 1, Pix: []float32{-1e-6, 0, 1e-6}}
	img, err := FalseColor(b, WithRange(-1e-6, 1e-6))
	if err != nil {
		t.Fatalf("false color: %v", err)
	}
	if img.RGBAAt(0, 0) != Viridis.At(0) || img.RGBAAt(1, 0) != Viridis.At(0.5) || img.RGBAAt(2, 0) != Viridis.At(1) {
		t.Fatalf("unexpected colors %v %v %v", img.RGBAAt(0, 0), img.RGBAAt(1, 0), img.RGBAAt(2, 0))
	}
}

func TestFalseColorInvalidRange(t *testing.T) {
	b := NewBuffer(2, 2, 1)
	for i := range b.Pix {
		b.Pix[i] = float32(i)
	}

	cases := []struct {
		name string
		opt  func(o *FalseColorOptions)
	}{
		{name: "equal bounds", opt: WithRange(1, 1)},
		{name: "inverted bounds", opt: WithRange(2, 1)},
		{name: "nan bound", opt: WithRange(math.NaN(), 1)},
		{name: "explicit vmax below derived vmin", opt: func(o *FalseColorOptions) {
			v := -5.0
			o.VMax = &v
		}},
		{name: "percentile above 100", opt: func(o *FalseColorOptions) { o.VMaxPercentile = 101 }},
		{name: "negative percentile", opt: func(o *FalseColorOptions) { o.VMinPercentile = -1 }},
		{name: "inverted percentiles", opt: func(o *FalseColorOptions) {
			o.VMinPercentile, o.VMaxPercentile = 90, 10
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FalseColor(b, tc.opt); !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}

func TestFalseColorShape(t *testing.T) {
	if _, err := FalseColor(NewBuffer(2, 2, 2)); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestNormalizationRange(t *testing.T) {
	b := NewBuffer(1, 101, 1)
	for i := range b.Pix {
		b.Pix[i] = float32(i)
	}

	vmin, vmax, err := NormalizationRange(b, func(o *FalseColorOptions) {
		o.VMinPercentile, o.VMaxPercentile = 0, 100
	})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if vmin != 0 || vmax != 100 {
		t.Fatalf("got [%v, %v] want [0, 100]", vmin, vmax)
	}

	vmin, vmax, err = NormalizationRange(b)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if !(vmin > 0 && vmin < 10) || !(vmax > 90 && vmax < 100) || vmin > vmax {
		t.Fatalf("default percentiles: got [%v, %v]", vmin, vmax)
	}

	lo := -3.0
	vmin, vmax, err = NormalizationRange(b, func(o *FalseColorOptions) { o.VMin = &lo })
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if vmin != -3 || !(vmax > 90) {
		t.Fatalf("mixed bounds: got [%v, %v]", vmin, vmax)
	}
}

func TestSaveFalseColor(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "doppler")
	b := NewBuffer(4, 6, 1)
	for i := range b.Pix {
		b.Pix[i] = float32(i) - 12
	}

	for i := 0; i < 2; i++ {
		err := SaveFalseColor(b, dir, "doppler.png", func(o *FalseColorOptions) {
			o.Resize = 0.5
			o.Colormap = Magma
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	cfg := decodeConfig(t, filepath.Join(dir, "doppler.png"))
	if cfg.Width != 3 || cfg.Height != 2 {
		t.Fatalf("dims: got %dx%d", cfg.Width, cfg.Height)
	}

	if err := SaveFalseColor(b, dir, "doppler.gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
