package tofviz

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func transientStack(h, w int, values ...float32) *Buffer {
	b := NewBuffer(h, w, 3*len(values))
	for p := 0; p < h*w; p++ {
		for bin, v := range values {
			for c := 0; c < 3; c++ {
				b.Pix[p*b.Channels+bin*3+c] = v
			}
		}
	}
	return b
}

func TestSplitTransient(t *testing.T) {
	bins, err := SplitTransient(transientStack(2, 2, 0.1, 0.2, 0.3))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(bins) != 3 {
		t.Fatalf("bins: %d", len(bins))
	}
	for i, bin := range bins {
		want := float32(i+1) / 10
		if bin.Channels != 3 || bin.At(1, 1, 2) != want {
			t.Fatalf("bin %d: %d channels, value %v", i, bin.Channels, bin.At(1, 1, 2))
		}
	}

	if _, err := SplitTransient(NewBuffer(2, 2, 4)); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestExportTransient(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingWriter{failAt: -1}

	res, err := ExportTransient(transientStack(2, 3, 0.1, 0.2, 0.3, 0.4), dir, func(o *TransientOptions) {
		recordTo(rec)(&o.Video)
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if len(res.Frames) != 4 {
		t.Fatalf("frames: %v", res.Frames)
	}
	for i, p := range res.Frames {
		want := filepath.Join(dir, "images", string(rune('0'+i))+".png")
		if p != want {
			t.Fatalf("frame %d: got %q want %q", i, p, want)
		}
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if res.Video != filepath.Join(dir, "video", "transient.mp4") {
		t.Fatalf("video: %q", res.Video)
	}

	// The last bin is written as an image but left out of the video.
	if len(rec.frames) != 3 || rec.fps != 60 || rec.w != 3 || rec.h != 2 {
		t.Fatalf("video: %d frames at %v fps, %dx%d", len(rec.frames), rec.fps, rec.w, rec.h)
	}

	// Bins are scaled by N=3 before the display transform: 0.1*3 stays below 0.4*3.
	first := rec.frames[0].(*image.RGBA).RGBAAt(0, 0)
	last, err := DecodeImageFile(res.Frames[3])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, _, _, _ := last.At(0, 0).RGBA()
	if first.R >= uint8(r>>8) {
		t.Fatalf("expected brighter last bin: %d vs %d", first.R, r>>8)
	}
	scaled, err := ToByteImage(UniformBuffer(1, 1, 3, 0.3))
	if err != nil {
		t.Fatalf("byte image: %v", err)
	}
	if first != scaled.RGBAAt(0, 0) {
		t.Fatalf("first bin: got %v want %v", first, scaled.RGBAAt(0, 0))
	}
}

func TestExportTransientOptions(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingWriter{failAt: -1}

	res, err := ExportTransientBins([]*Buffer{UniformBuffer(2, 2, 3, 0.5), UniformBuffer(2, 2, 3, 0.5)}, dir,
		func(o *TransientOptions) {
			o.FPS = 12
			o.ImagesDir = "bins"
			o.VideoName = "pulse"
			recordTo(rec)(&o.Video)
		})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Dir(res.Frames[0]) != filepath.Join(dir, "bins") || filepath.Base(res.Video) != "pulse.mp4" {
		t.Fatalf("unexpected layout: %v %q", res.Frames, res.Video)
	}
	if rec.fps != 12 || len(rec.frames) != 1 {
		t.Fatalf("video: %d frames at %v fps", len(rec.frames), rec.fps)
	}
}

func TestExportTransientTooFewBins(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if _, err := ExportTransient(transientStack(2, 2, 0.5), dir); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("output created for a single bin: %v", err)
	}

	bins := []*Buffer{UniformBuffer(2, 2, 3, 1), NewBuffer(2, 3, 3), NewBuffer(2, 2, 3)}
	rec := &recordingWriter{failAt: -1}
	_, err := ExportTransientBins(bins, t.TempDir(), func(o *TransientOptions) { recordTo(rec)(&o.Video) })
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for mixed bin sizes, got %v", err)
	}
}
