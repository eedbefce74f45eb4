package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"github.com/vearutop/tofviz"
)

func readInput(ctx *cli.Context) (*tofviz.Buffer, error) {
	in := ctx.String("in")
	if in == "" {
		return nil, errors.New("missing -in argument")
	}
	b, err := tofviz.ReadBufferFile(in)
	if err != nil {
		return nil, err
	}
	logger.Infof("loaded %s: %dx%d, %d channel(s)", in, b.Width, b.Height, b.Channels)
	return b, nil
}

func runHDR(ctx *cli.Context) error {
	b, err := readInput(ctx)
	if err != nil {
		return err
	}
	interp, err := tofviz.ParseInterpolation(ctx.String("interp"))
	if err != nil {
		return err
	}
	if b.Channels != 1 && b.Channels != 3 {
		if b, err = b.SliceChannels(0, 3); err != nil {
			return err
		}
	}

	out, name := ctx.String("out"), ctx.String("name")
	err = tofviz.SaveImage(b, out, name, func(o *tofviz.SaveOptions) {
		o.ToneMapLimit = float32(ctx.Float64("limit"))
		o.Resize = ctx.Float64("resize")
		o.Interpolation = interp
		o.JPEGQuality = ctx.Int("quality")
	})
	if err != nil {
		return err
	}
	logger.Noticef("wrote %s/%s", out, name)
	return nil
}

func runToF(ctx *cli.Context) error {
	b, err := readInput(ctx)
	if err != nil {
		return err
	}
	interp, err := tofviz.ParseInterpolation(ctx.String("interp"))
	if err != nil {
		return err
	}
	cmap, err := tofviz.ColormapByName(ctx.String("cmap"))
	if err != nil {
		return err
	}

	opt := func(o *tofviz.FalseColorOptions) {
		o.Colormap = cmap
		o.VMinPercentile = ctx.Float64("pmin")
		o.VMaxPercentile = ctx.Float64("pmax")
		if ctx.IsSet("vmin") {
			v := ctx.Float64("vmin")
			o.VMin = &v
		}
		if ctx.IsSet("vmax") {
			v := ctx.Float64("vmax")
			o.VMax = &v
		}
		o.Resize = ctx.Float64("resize")
		o.Interpolation = interp
		o.JPEGQuality = ctx.Int("quality")
	}

	vmin, vmax, err := tofviz.NormalizationRange(b, opt)
	if err != nil {
		return err
	}
	logger.Infof("normalization range [%g, %g]", vmin, vmax)

	out, name := ctx.String("out"), ctx.String("name")
	if err := tofviz.SaveFalseColor(b, out, name, opt); err != nil {
		return err
	}
	logger.Noticef("wrote %s/%s", out, name)
	return nil
}

func runTransient(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("missing time bin arguments")
	}

	var bins []*tofviz.Buffer
	for _, path := range ctx.Args() {
		b, err := tofviz.ReadBufferFile(path)
		if err != nil {
			return err
		}
		if ctx.NArg() == 1 {
			if bins, err = tofviz.SplitTransient(b); err != nil {
				return err
			}
			break
		}
		bins = append(bins, b)
	}
	logger.Infof("exporting %d time bins", len(bins))

	res, err := tofviz.ExportTransientBins(bins, ctx.String("out"), func(o *tofviz.TransientOptions) {
		o.FPS = ctx.Float64("fps")
		o.VideoName = ctx.String("name")
		o.Video.Codec = ctx.String("codec")
	})
	if err != nil {
		return err
	}
	for _, f := range res.Frames {
		logger.Debugf("wrote frame %s", f)
	}
	logger.Noticef("wrote %d frames and %s", len(res.Frames), res.Video)
	return nil
}

func runVideo(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("missing frame arguments")
	}
	path, err := tofviz.ExportVideoFromFiles(ctx.Args(), ctx.String("out"), ctx.String("name"),
		func(o *tofviz.VideoOptions) {
			o.FPS = ctx.Float64("fps")
			o.Codec = ctx.String("codec")
			o.Extension = ctx.String("ext")
		})
	if err != nil {
		return err
	}
	logger.Noticef("wrote %s (%d frames)", path, ctx.NArg())
	return nil
}

func runCompare(ctx *cli.Context) error {
	if ctx.String("a") == "" || ctx.String("b") == "" {
		return errors.New("missing -a or -b argument")
	}
	a, err := tofviz.ReadBufferFile(ctx.String("a"))
	if err != nil {
		return err
	}
	b, err := tofviz.ReadBufferFile(ctx.String("b"))
	if err != nil {
		return err
	}
	rtol, atol := ctx.Float64("rtol"), ctx.Float64("atol")

	st, err := tofviz.Diff(a, b, rtol, atol)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"values", strconv.Itoa(st.Count)})
	table.Append([]string{"MSE", fmt.Sprintf("%.6g", st.MSE)})
	table.Append([]string{"RMSE", fmt.Sprintf("%.6g", st.RMSE)})
	table.Append([]string{"max abs", fmt.Sprintf("%.6g", st.MaxAbs)})
	table.Append([]string{"mean abs", fmt.Sprintf("%.6g", st.MeanAbs)})
	table.Append([]string{"mismatches", strconv.Itoa(st.Mismatches)})
	table.Render()

	if st.Mismatches > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d values outside rtol=%g atol=%g",
			st.Mismatches, st.Count, rtol, atol), 1)
	}
	return nil
}
