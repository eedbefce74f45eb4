package tofviz

import (
	"fmt"
	"image"
	"path/filepath"
	"strconv"
)

// TransientOptions controls ExportTransient.
type TransientOptions struct {
	FPS       float64
	ImagesDir string // frames subdirectory of the output directory
	VideoDir  string // video subdirectory of the output directory
	VideoName string
	Save      SaveOptions
	Video     VideoOptions
}

// TransientResult lists the files written by ExportTransient.
type TransientResult struct {
	Frames []string
	Video  string
}

// SplitTransient splits a buffer stacking time bins along the channel axis
// (3 channels per bin) into one three-channel buffer per bin.
func SplitTransient(b *Buffer) ([]*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.Channels%3 != 0 {
		return nil, fmt.Errorf("%w: %d channels is not a multiple of 3", ErrShapeMismatch, b.Channels)
	}
	bins := make([]*Buffer, 0, b.Channels/3)
	for c := 0; c < b.Channels; c += 3 {
		bin, err := b.SliceChannels(c, 3)
		if err != nil {
			return nil, err
		}
		bins = append(bins, bin)
	}
	return bins, nil
}

func transientOptions(opts []func(o *TransientOptions)) TransientOptions {
	opt := TransientOptions{
		FPS:       defaultTransientFPS,
		ImagesDir: "images",
		VideoDir:  "video",
		VideoName: "transient",
		Save:      defaultSaveOptions(),
		Video:     defaultVideoOptions(),
	}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	return opt
}

// ExportTransient writes a transient render. With N+1 time bins, every bin is scaled
// by N and saved as <outputDir>/images/<i>.png, then the first N frames are encoded
// into <outputDir>/video/transient.mp4.
func ExportTransient(b *Buffer, outputDir string, opts ...func(o *TransientOptions)) (*TransientResult, error) {
	opt := transientOptions(opts)

	bins, err := SplitTransient(b)
	if err != nil {
		return nil, err
	}
	return exportBins(bins, outputDir, opt)
}

// ExportTransientBins is ExportTransient for bins that are already separate buffers.
func ExportTransientBins(bins []*Buffer, outputDir string, opts ...func(o *TransientOptions)) (*TransientResult, error) {
	opt := transientOptions(opts)
	return exportBins(bins, outputDir, opt)
}

func exportBins(bins []*Buffer, outputDir string, opt TransientOptions) (*TransientResult, error) {
	if len(bins) < 2 {
		return nil, fmt.Errorf("%w: transient export needs at least 2 time bins, got %d", ErrShapeMismatch, len(bins))
	}
	n := len(bins) - 1
	imagesDir := filepath.Join(outputDir, opt.ImagesDir)

	res := &TransientResult{}
	frames := make([]image.Image, 0, n)
	for i, bin := range bins {
		if err := bin.Validate(); err != nil {
			return nil, fmt.Errorf("bin %d: %w", i, err)
		}
		img, err := renderImage(bin.Scale(float32(n)), opt.Save)
		if err != nil {
			return nil, fmt.Errorf("bin %d: %w", i, err)
		}
		path, err := writeImageFile(img, imagesDir, strconv.Itoa(i)+".png", opt.Save.JPEGQuality)
		if err != nil {
			return nil, fmt.Errorf("bin %d: %w", i, err)
		}
		res.Frames = append(res.Frames, path)
		if i < n {
			frames = append(frames, img)
		}
	}

	video, err := ExportVideo(frames, filepath.Join(outputDir, opt.VideoDir), opt.VideoName, func(o *VideoOptions) {
		*o = opt.Video
		o.FPS = opt.FPS
	})
	if err != nil {
		return nil, err
	}
	res.Video = video
	return res, nil
}
