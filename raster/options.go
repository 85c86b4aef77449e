package raster

import (
	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/internal/parallel"
	"github.com/gogpu/sprite/pixel"
)

// DefaultChunkRows is the number of target rows per background task.
const DefaultChunkRows = 32

// Option configures a Rasterizer during creation.
//
// Example:
//
//	r, err := raster.New(640, 480,
//		raster.WithWorkers(4),
//		raster.WithKeying(raster.ColorKey(color.RGBA{})),
//	)
type Option func(*options)

type options struct {
	workers     int
	chunkRows   int
	format      pixel.Format
	boundsCheck bool
	keying      Keying
	viewport    *geom.Rect
	scheduler   *parallel.Scheduler
}

func defaultOptions() options {
	return options{
		chunkRows:   DefaultChunkRows,
		format:      pixel.FormatRGB8,
		boundsCheck: true,
		keying:      DefaultKeying,
	}
}

// WithWorkers sets the worker count of the scheduler the Rasterizer
// creates. Zero or negative means GOMAXPROCS. Ignored with WithScheduler.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithChunkRows sets the band height of background tasks.
// Values below 1 fall back to DefaultChunkRows.
func WithChunkRows(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = DefaultChunkRows
		}
		o.chunkRows = n
	}
}

// WithFormat selects the frame format, pixel.FormatRGB8 or pixel.FormatRGBA8.
func WithFormat(f pixel.Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithBoundsCheck toggles the per-pixel checks of PutPixel and of
// background tasks. Tile and color draws always clip to the viewport.
// With checks off, PutPixel must only be given pixels inside the buffer.
func WithBoundsCheck(enabled bool) Option {
	return func(o *options) {
		o.boundsCheck = enabled
	}
}

// WithKeying sets the transparency rule of the tile path.
func WithKeying(k Keying) Option {
	return func(o *options) {
		o.keying = k
	}
}

// WithViewport restricts drawing to r. The default is the whole buffer.
func WithViewport(r geom.Rect) Option {
	return func(o *options) {
		o.viewport = &r
	}
}

// WithScheduler makes the Rasterizer use s instead of starting its own.
// The caller keeps ownership: Close does not shut s down.
func WithScheduler(s *parallel.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}
