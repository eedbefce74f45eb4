package tofviz

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// checkFormat fails for extensions that have no encoder.
func checkFormat(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

func encodeImage(w io.Writer, img image.Image, filename string, quality int) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		if quality <= 0 || quality > 100 {
			quality = defaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

// writeImageFile encodes img by the filename extension and writes it to
// outputDir/filename, creating outputDir when missing.
func writeImageFile(img image.Image, outputDir, filename string, quality int) (string, error) {
	if err := checkFormat(filename); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := encodeImage(&buf, img, filename, quality); err != nil {
		return "", fmt.Errorf("encode %s: %w", filename, err)
	}
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outputDir, filename)
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path, nil
}

// DecodeImageFile reads a PNG, JPEG, TIFF or BMP file.
func DecodeImageFile(path string) (image.Image, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// FromImage converts an sRGB-encoded image into a linear three-channel buffer.
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	out := NewBuffer(b.Dy(), b.Dx(), 3)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, b2, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// RGBA returns 16-bit values in [0, 65535]
			i := (y*out.Width + x) * 3
			out.Pix[i] = srgbInvOetf(float32(r) / 65535.0)
			out.Pix[i+1] = srgbInvOetf(float32(g) / 65535.0)
			out.Pix[i+2] = srgbInvOetf(float32(b2) / 65535.0)
		}
	}
	return out
}

// ReadBufferFile loads a pixel buffer from an OpenEXR or TIFF file. Other raster
// formats are decoded as sRGB and linearized.
func ReadBufferFile(path string) (*Buffer, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exr":
		return DecodeEXR(data)
	case ".tif", ".tiff":
		return DecodeTIFF(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img), nil
}
