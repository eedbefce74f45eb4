package tofviz

import (
	"fmt"
	"image"
	"path/filepath"

	"gocv.io/x/gocv"
)

type openCVWriter struct {
	vw *gocv.VideoWriter
}

// newOpenCVWriter opens an OpenCV VideoWriter, frames are converted to BGR for the codec.
func newOpenCVWriter(path, codec string, fps float64, width, height int) (FrameWriter, error) {
	vw, err := gocv.VideoWriterFile(path, codec, fps, width, height, true)
	if err != nil {
		return nil, err
	}
	if !vw.IsOpened() {
		_ = vw.Close()
		return nil, fmt.Errorf("cannot open %s with codec %s", path, codec)
	}
	return &openCVWriter{vw: vw}, nil
}

func (w *openCVWriter) WriteFrame(img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return err
	}
	defer mat.Close()
	return w.vw.Write(mat)
}

func (w *openCVWriter) Close() error {
	return w.vw.Close()
}

// ReadVideoFrames decodes every frame of a video file.
func ReadVideoFrames(path string) ([]image.Image, error) {
	vc, err := gocv.VideoCaptureFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer vc.Close()

	mat := gocv.NewMat()
	defer mat.Close()

	var frames []image.Image
	for vc.Read(&mat) {
		if mat.Empty() {
			break
		}
		img, err := mat.ToImage()
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", len(frames), err)
		}
		frames = append(frames, img)
	}
	return frames, nil
}
