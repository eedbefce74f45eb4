package tofviz

// Buffer stores a floating-point pixel buffer of shape (Height, Width, Channels).
// Pix is row-major with interleaved channels: Pix[(y*Width+x)*Channels+c].
// Values are linear light (or an arbitrary scalar quantity for single-channel buffers).
type Buffer struct {
	Height   int
	Width    int
	Channels int
	Pix      []float32
}

// SaveOptions controls tone-mapped raster export.
type SaveOptions struct {
	Resize        float64 // uniform scale factor, 1 keeps the original size
	Interpolation Interpolation
	JPEGQuality   int     // quality for .jpg/.jpeg outputs (1-100)
	ToneMapLimit  float32 // luminance limit of the tone mapper
}

// FalseColorOptions controls false-color export of scalar fields.
type FalseColorOptions struct {
	Colormap Colormap

	// VMin and VMax pin the normalization range; nil bounds are derived from percentiles.
	VMin *float64
	VMax *float64

	VMinPercentile float64 // 0-100
	VMaxPercentile float64 // 0-100

	Resize        float64
	Interpolation Interpolation
	JPEGQuality   int
}

// VideoOptions controls video assembly.
type VideoOptions struct {
	FPS       float64
	Codec     string // FourCC, e.g. "mp4v"
	Extension string // container file extension, e.g. ".mp4"
	// NewWriter opens the frame sink, OpenCV VideoWriter is used when nil.
	NewWriter WriterFactory
}

// EXRCompression identifies an OpenEXR scanline compression scheme.
type EXRCompression byte

const (
	EXRCompressionNone EXRCompression = 0
	EXRCompressionZIPS EXRCompression = 2
	EXRCompressionZIP  EXRCompression = 3
)

// EXROptions controls OpenEXR encoding.
type EXROptions struct {
	Compression EXRCompression
	Half        bool // store 16-bit half floats instead of 32-bit floats
}
