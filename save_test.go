package tofviz

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func decodeConfig(t *testing.T, path string) image.Config {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config %s: %v", path, err)
	}
	return cfg
}

func TestSaveImageTwiceSameDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "images")
	b := UniformBuffer(4, 4, 3, 0.5)

	if err := SaveImage(b, dir, "a.png"); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := SaveImage(b, dir, "b.png"); err != nil {
		t.Fatalf("second save into existing dir: %v", err)
	}
	for _, name := range []string{"a.png", "b.png"} {
		cfg := decodeConfig(t, filepath.Join(dir, name))
		if cfg.Width != 4 || cfg.Height != 4 {
			t.Fatalf("%s dims: got %dx%d", name, cfg.Width, cfg.Height)
		}
	}
}

func TestSaveImageFormats(t *testing.T) {
	dir := t.TempDir()
	b := UniformBuffer(3, 5, 1, 0.8)

	for _, name := range []string{"f.png", "f.jpg", "f.jpeg", "f.tif", "f.tiff", "f.bmp", "F.PNG"} {
		if err := SaveImage(b, dir, name); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		cfg := decodeConfig(t, filepath.Join(dir, name))
		if cfg.Width != 5 || cfg.Height != 3 {
			t.Fatalf("%s dims: got %dx%d", name, cfg.Width, cfg.Height)
		}
	}
}

func TestSaveImageResize(t *testing.T) {
	dir := t.TempDir()
	b := UniformBuffer(2, 3, 3, 1)

	specs := []struct {
		name   string
		factor float64
		interp Interpolation
		w, h   int
	}{
		{name: "double.png", factor: 2, interp: InterpolationBilinear, w: 6, h: 4},
		{name: "half.png", factor: 0.5, interp: InterpolationNearest, w: 2, h: 1},
		{name: "tiny.png", factor: 0.01, interp: InterpolationLanczos3, w: 1, h: 1},
		{name: "same.png", factor: 1, interp: InterpolationBicubic, w: 3, h: 2},
	}
	for _, s := range specs {
		err := SaveImage(b, dir, s.name, func(o *SaveOptions) {
			o.Resize = s.factor
			o.Interpolation = s.interp
		})
		if err != nil {
			t.Fatalf("save %s: %v", s.name, err)
		}
		cfg := decodeConfig(t, filepath.Join(dir, s.name))
		if cfg.Width != s.w || cfg.Height != s.h {
			t.Fatalf("%s dims: got %dx%d want %dx%d", s.name, cfg.Width, cfg.Height, s.w, s.h)
		}
	}

	if err := SaveImage(b, dir, "bad.png", func(o *SaveOptions) { o.Resize = 0 }); err == nil {
		t.Fatal("expected error for zero resize factor")
	}
}

func TestSaveImageUnsupportedFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	err := SaveImage(UniformBuffer(2, 2, 3, 1), dir, "frame.xyz")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("output dir should not be created on format error: %v", err)
	}
}

func TestSaveImageShapeError(t *testing.T) {
	err := SaveImage(NewBuffer(2, 2, 2), t.TempDir(), "x.png")
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestSaveImageRoundTripPixels(t *testing.T) {
	dir := t.TempDir()
	b := UniformBuffer(2, 2, 3, 1)
	if err := SaveImage(b, dir, "px.png"); err != nil {
		t.Fatalf("save: %v", err)
	}
	img, err := DecodeImageFile(filepath.Join(dir, "px.png"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, bl, _ := img.At(1, 1).RGBA()
	if r>>8 != 202 || g>>8 != 202 || bl>>8 != 202 {
		t.Fatalf("pixel: %d %d %d", r>>8, g>>8, bl>>8)
	}
}

func TestParseInterpolation(t *testing.T) {
	i, err := ParseInterpolation(" Lanczos2 ")
	if err != nil || i != InterpolationLanczos2 {
		t.Fatalf("got %v, %v", i, err)
	}
	if _, err := ParseInterpolation("cubic-ish"); err == nil {
		t.Fatal("expected error for unknown interpolation")
	}
}
