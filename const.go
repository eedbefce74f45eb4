package tofviz

const (
	// DefaultToneMapLimit is the luminance limit used by the canonical display transform.
	DefaultToneMapLimit = 1.5
	displayGamma        = 2.2
)

const (
	// DefaultVMinPercentile is the lower percentile used for false-color normalization.
	DefaultVMinPercentile = 5.0
	// DefaultVMaxPercentile is the upper percentile used for false-color normalization.
	DefaultVMaxPercentile = 95.0
)

const (
	// DefaultFPS is the default video frame rate.
	DefaultFPS = 24.0

	defaultTransientFPS   = 60.0
	defaultCodec          = "mp4v"
	defaultVideoExtension = ".mp4"
	defaultJPEGQuality    = 95
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)
