package tofviz

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// FrameWriter is a video stream accepting frames in presentation order.
type FrameWriter interface {
	WriteFrame(img image.Image) error
	// Close finalizes the container, it is always called once the writer is opened.
	Close() error
}

// WriterFactory opens a FrameWriter for frames of the given size.
type WriterFactory func(path, codec string, fps float64, width, height int) (FrameWriter, error)

func defaultVideoOptions() VideoOptions {
	return VideoOptions{
		FPS:       DefaultFPS,
		Codec:     defaultCodec,
		Extension: defaultVideoExtension,
	}
}

// ExportVideo encodes images, in order, into outputDir/name plus the container
// extension (.mp4 by default) and returns the written path.
//
// All frames must share the size of the first one, this is checked before the
// output file is created. The stream is finalized even if writing a frame fails.
func ExportVideo(images []image.Image, outputDir, name string, opts ...func(o *VideoOptions)) (path string, err error) {
	if len(images) == 0 {
		return "", ErrEmptySequence
	}
	opt := defaultVideoOptions()
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	if !(opt.FPS > 0) {
		return "", fmt.Errorf("fps must be positive, got %v", opt.FPS)
	}
	if len(opt.Codec) != 4 {
		return "", fmt.Errorf("codec must be a FourCC, got %q", opt.Codec)
	}
	if name == "" {
		return "", errors.New("video name is empty")
	}
	if opt.NewWriter == nil {
		opt.NewWriter = newOpenCVWriter
	}

	size, err := sequenceSize(images)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	ext := opt.Extension
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	path = filepath.Join(outputDir, name+ext)

	w, err := opt.NewWriter(path, opt.Codec, opt.FPS, size.X, size.Y)
	if err != nil {
		return "", fmt.Errorf("open video writer: %w", err)
	}
	defer func() {
		if clErr := w.Close(); clErr != nil && err == nil {
			err = fmt.Errorf("close video writer: %w", clErr)
		}
	}()

	for i, img := range images {
		if err := w.WriteFrame(img); err != nil {
			return "", fmt.Errorf("write frame %d: %w", i, err)
		}
	}
	return path, nil
}

// sequenceSize returns the common frame size of images.
func sequenceSize(images []image.Image) (image.Point, error) {
	if images[0] == nil {
		return image.Point{}, fmt.Errorf("%w: frame 0 is nil", ErrShapeMismatch)
	}
	size := images[0].Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return image.Point{}, fmt.Errorf("%w: frame 0 is empty", ErrShapeMismatch)
	}
	for i, img := range images[1:] {
		if img == nil {
			return image.Point{}, fmt.Errorf("%w: frame %d is nil", ErrShapeMismatch, i+1)
		}
		if s := img.Bounds().Size(); s != size {
			return image.Point{}, fmt.Errorf("%w: frame %d is %dx%d, want %dx%d",
				ErrShapeMismatch, i+1, s.X, s.Y, size.X, size.Y)
		}
	}
	return size, nil
}

// ExportVideoFromFiles decodes raster frames from paths and passes them to ExportVideo.
func ExportVideoFromFiles(paths []string, outputDir, name string, opts ...func(o *VideoOptions)) (string, error) {
	if len(paths) == 0 {
		return "", ErrEmptySequence
	}
	images := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := DecodeImageFile(p)
		if err != nil {
			return "", err
		}
		images = append(images, img)
	}
	return ExportVideo(images, outputDir, name, opts...)
}
