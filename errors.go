package tofviz

import "errors"

var (
	// ErrShapeMismatch is returned when buffer or frame dimensions do not fit an operation.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidRange is returned for unusable normalization bounds or percentiles.
	ErrInvalidRange = errors.New("invalid normalization range")
	// ErrEmptySequence is returned when a video is requested for no frames.
	ErrEmptySequence = errors.New("empty image sequence")
	// ErrUnsupportedFormat is returned when no encoder matches the output file extension.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
