// Package tofviz turns linear HDR pixel buffers into displayable images and videos.
//
// Buffers are produced elsewhere (typically by a transient or Doppler time-of-flight
// renderer) and handed over either in memory or as OpenEXR/TIFF files. This package
// tone-maps them, renders scalar fields through perceptual colormaps, writes raster
// files and assembles ordered frame sequences into a video container.
package tofviz
