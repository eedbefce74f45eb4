package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "tofviz"
	app.Usage = "tone-map, false-color and animate time-of-flight renders"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Before = setupLogging
	app.Commands = []cli.Command{
		{
			Name:  "hdr",
			Usage: "tone-map an HDR buffer and save it as an image",
			Description: `
Read a linear HDR buffer (OpenEXR, TIFF) and apply the luminance tone mapper and
display gamma. The output format follows the -name extension.`,
			Flags:  append([]cli.Flag{inFlag, limitFlag}, saveFlags...),
			Action: runHDR,
		},
		{
			Name:  "tof",
			Usage: "render a scalar buffer (e.g. Doppler shift) in false color",
			Description: `
Three-channel buffers are reduced to relative luminance. Without -vmin/-vmax the
normalization range is taken from the -pmin/-pmax percentiles of the field.`,
			Flags: append([]cli.Flag{
				inFlag,
				cli.Float64Flag{Name: "vmin", Usage: "lower bound of the colormap range"},
				cli.Float64Flag{Name: "vmax", Usage: "upper bound of the colormap range"},
				cli.Float64Flag{Name: "pmin", Value: 5, Usage: "lower percentile when -vmin is not set"},
				cli.Float64Flag{Name: "pmax", Value: 95, Usage: "upper percentile when -vmax is not set"},
				cli.StringFlag{Name: "cmap", Value: "viridis", Usage: "colormap name"},
			}, saveFlags...),
			Action: runToF,
		},
		{
			Name:      "transient",
			Usage:     "export time bins as frames and a video",
			ArgsUsage: "bin0.exr bin1.exr ...",
			Description: `
Each argument is one time bin. With N+1 bins every bin is scaled by N and written
to <out>/images/<i>.png, the first N frames are encoded to <out>/video/<name>.mp4.
A single argument holding 3*(N+1) channels is split into bins.`,
			Flags: []cli.Flag{
				outFlag,
				cli.StringFlag{Name: "name", Value: "transient", Usage: "video name without extension"},
				cli.Float64Flag{Name: "fps", Value: 60, Usage: "video frame rate"},
				cli.StringFlag{Name: "codec", Value: "mp4v", Usage: "video FourCC"},
			},
			Action: runTransient,
		},
		{
			Name:      "video",
			Usage:     "encode an ordered list of images into a video",
			ArgsUsage: "frame0.png frame1.png ...",
			Flags: []cli.Flag{
				outFlag,
				cli.StringFlag{Name: "name", Value: "video", Usage: "video name without extension"},
				cli.Float64Flag{Name: "fps", Value: 24, Usage: "video frame rate"},
				cli.StringFlag{Name: "codec", Value: "mp4v", Usage: "video FourCC"},
				cli.StringFlag{Name: "ext", Value: ".mp4", Usage: "container extension"},
			},
			Action: runVideo,
		},
		{
			Name:  "compare",
			Usage: "compare a buffer against a reference",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "a", Usage: "buffer under test"},
				cli.StringFlag{Name: "b", Usage: "reference buffer"},
				cli.Float64Flag{Name: "rtol", Value: 1e-5, Usage: "relative tolerance"},
				cli.Float64Flag{Name: "atol", Value: 1e-8, Usage: "absolute tolerance"},
			},
			Action: runCompare,
		},
	}
	return app
}

var (
	inFlag    = cli.StringFlag{Name: "in, i", Usage: "input buffer (.exr, .tif, .png)"}
	outFlag   = cli.StringFlag{Name: "out, o", Value: ".", Usage: "output directory"}
	limitFlag = cli.Float64Flag{Name: "limit", Value: 1.5, Usage: "tone mapper luminance limit"}

	saveFlags = []cli.Flag{
		outFlag,
		cli.StringFlag{Name: "name", Value: "image.png", Usage: "output file name"},
		cli.Float64Flag{Name: "resize", Value: 1, Usage: "uniform scale factor"},
		cli.StringFlag{Name: "interp", Value: "bilinear", Usage: "resize interpolation"},
		cli.IntFlag{Name: "quality", Value: 95, Usage: "JPEG quality"},
	}
)
