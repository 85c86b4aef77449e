package raster

import "errors"

// ErrClosed is returned by operations on a closed Rasterizer.
var ErrClosed = errors.New("raster: rasterizer closed")
