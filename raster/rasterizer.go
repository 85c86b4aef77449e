package raster

import (
	"fmt"
	"image/color"

	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/internal/logger"
	"github.com/gogpu/sprite/internal/parallel"
	"github.com/gogpu/sprite/pixel"
	"github.com/gogpu/sprite/present"
)

// Rasterizer owns a pixel buffer and a task scheduler and draws sampling
// grids into the buffer.
//
// Draw calls are made from one goroutine. Only DrawQuadBackground fans out,
// and it returns after every task it started has finished.
type Rasterizer struct {
	buf      *pixel.Buffer
	viewport geom.Rect

	sched     *parallel.Scheduler
	ownsSched bool

	chunkRows   int
	boundsCheck bool
	keying      Keying

	frames uint64
	closed bool
}

// New creates a Rasterizer with a width×height buffer.
func New(width, height int, opts ...Option) (*Rasterizer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if !o.format.IsFrameFormat() {
		return nil, fmt.Errorf("raster: frame format %v: %w", o.format, pixel.ErrInvalidFormat)
	}
	buf, err := pixel.NewBuffer(width, height, o.format)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}

	r := &Rasterizer{
		buf:         buf,
		viewport:    geom.R(0, 0, width, height),
		sched:       o.scheduler,
		chunkRows:   o.chunkRows,
		boundsCheck: o.boundsCheck,
		keying:      o.keying,
	}
	if o.viewport != nil {
		r.SetViewport(*o.viewport)
	}
	if r.sched == nil {
		r.sched = parallel.NewScheduler(o.workers)
		r.ownsSched = true
	}

	logger.Get().Debug("raster: rasterizer created",
		"width", width, "height", height, "format", o.format.String(),
		"workers", r.sched.Workers(), "chunkRows", r.chunkRows)
	return r, nil
}

// Buffer returns the target buffer. It is replaced by Resize.
func (r *Rasterizer) Buffer() *pixel.Buffer {
	return r.buf
}

// Width returns the buffer width in pixels.
func (r *Rasterizer) Width() int { return r.buf.Width() }

// Height returns the buffer height in pixels.
func (r *Rasterizer) Height() int { return r.buf.Height() }

// Viewport returns the rectangle draws are limited to.
func (r *Rasterizer) Viewport() geom.Rect {
	return r.viewport
}

// SetViewport limits drawing to vp, clamped to the buffer.
func (r *Rasterizer) SetViewport(vp geom.Rect) {
	r.viewport = vp.Intersect(geom.R(0, 0, r.buf.Width(), r.buf.Height()))
}

// Keying returns the transparency rule of the tile path.
func (r *Rasterizer) Keying() Keying {
	return r.keying
}

// SetKeying replaces the transparency rule of the tile path.
func (r *Rasterizer) SetKeying(k Keying) {
	r.keying = k
}

// ChunkRows returns the band height of background tasks.
func (r *Rasterizer) ChunkRows() int {
	return r.chunkRows
}

// Workers returns the scheduler's worker count.
func (r *Rasterizer) Workers() int {
	return r.sched.Workers()
}

// TasksExecuted returns the number of tasks the scheduler has completed.
// With a shared scheduler this includes other users' tasks.
func (r *Rasterizer) TasksExecuted() uint64 {
	return r.sched.Executed()
}

// Frames returns the number of frames presented.
func (r *Rasterizer) Frames() uint64 {
	return r.frames
}

// Resize reallocates the buffer and resets the viewport to cover it.
func (r *Rasterizer) Resize(width, height int) error {
	if r.closed {
		return ErrClosed
	}
	if err := r.buf.Resize(width, height); err != nil {
		return fmt.Errorf("raster: resize: %w", err)
	}
	r.viewport = geom.R(0, 0, width, height)
	logger.Get().Info("raster: resized", "width", width, "height", height)
	return nil
}

// Clear fills the whole buffer, row padding included, with c.
func (r *Rasterizer) Clear(c color.RGBA) {
	r.buf.Fill(c)
}

// PutPixel writes one pixel. With bounds checks enabled, pixels outside the
// viewport are skipped and PutPixel reports false.
func (r *Rasterizer) PutPixel(x, y int, c color.RGBA) bool {
	if r.boundsCheck && !r.viewport.Contains(x, y) {
		return false
	}
	r.buf.SetUnchecked(x, y, c)
	return true
}

// clipFor returns the rectangle writes into dst are limited to.
func (r *Rasterizer) clipFor(dst *pixel.Buffer) geom.Rect {
	return r.viewport.Intersect(geom.R(0, 0, dst.Width(), dst.Height()))
}

// walk visits the clipped cells of cg row by row, passing the pixel under
// each cell center. Cells whose center pixel lies outside clip are skipped,
// so fn only ever sees pixels inside clip.
func walk(cg ClippedGrid, clip geom.Rect, fn func(x, y, col, row int)) {
	g := cg.Grid
	col0, col1 := max(cg.Col0, 0), min(cg.Col1, g.Cols)
	row0, row1 := max(cg.Row0, 0), min(cg.Row1, g.Rows)
	if col0 >= col1 || row0 >= row1 || clip.Empty() {
		return
	}

	first := g.Point(float64(col0)+0.5, float64(row0)+0.5)
	for row := row0; row < row1; row++ {
		p := first.Add(g.DeltaV.Mul(float64(row - row0)))
		for col := col0; col < col1; col, p = col+1, p.Add(g.DeltaU) {
			x, y := p.Floor()
			if !clip.Contains(x, y) {
				continue
			}
			fn(x, y, col, row)
		}
	}
}

// DrawQuadColor fills the clipped cells of cg with c and returns the number
// of pixels written. Cells are clipped to the viewport exactly.
func (r *Rasterizer) DrawQuadColor(cg ClippedGrid, c color.RGBA) int {
	written := 0
	walk(cg, r.clipFor(r.buf), func(x, y, _, _ int) {
		r.buf.SetUnchecked(x, y, c)
		written++
	})
	return written
}

// DrawQuadTile samples cmd.Texture once per clipped cell on the calling
// goroutine and returns the number of pixels written. Texels rejected by
// the keying rule are skipped.
func (r *Rasterizer) DrawQuadTile(cmd DrawCommand) int {
	tex, dst := cmd.Texture, cmd.Target
	if tex == nil || dst == nil {
		return 0
	}
	g := cmd.Grid.Grid
	if g.Empty() {
		return 0
	}

	tw, th := tex.Size()
	written := 0
	walk(cmd.Grid, r.clipFor(dst), func(x, y, col, row int) {
		texel := tex.TexelUnchecked(col*tw/g.Cols, row*th/g.Rows)
		if r.keying.Transparent(texel) {
			return
		}
		dst.SetUnchecked(x, y, texel)
		written++
	})
	return written
}

// BackgroundTasks splits a background draw into row bands without running
// them. It returns nil when nothing would be drawn.
func (r *Rasterizer) BackgroundTasks(cmd DrawCommand) []RasterTask {
	tex, dst := cmd.Texture, cmd.Target
	cg := cmd.Grid
	if tex == nil || dst == nil || cg.Empty() || cg.Grid.Empty() {
		return nil
	}

	inv, ok := cg.Grid.Basis().Invert()
	if !ok {
		return nil
	}
	region := cg.PixelBounds().Intersect(r.clipFor(dst))
	if region.Empty() {
		return nil
	}

	start := inv.TransformPoint(geom.V2(float64(region.X)+0.5, float64(region.Y)+0.5))
	stepX := inv.TransformVector(geom.V2(1, 0))
	stepY := inv.TransformVector(geom.V2(0, 1))
	tw, th := tex.Size()

	bands := SplitRows(region.Y, region.MaxY(), r.chunkRows)
	tasks := make([]RasterTask, len(bands))
	for i, band := range bands {
		tasks[i] = RasterTask{
			Dst:       dst,
			Src:       tex,
			Start:     start,
			StepX:     stepX,
			StepY:     stepY,
			RowStart:  band.Start,
			RowEnd:    band.End,
			RowOffset: band.Start - region.Y,
			ColStart:  region.X,
			ColEnd:    region.MaxX(),
			Col0:      max(cg.Col0, 0),
			Col1:      min(cg.Col1, cg.Grid.Cols),
			Row0:      max(cg.Row0, 0),
			Row1:      min(cg.Row1, cg.Grid.Rows),
			Cols:      cg.Grid.Cols,
			Rows:      cg.Grid.Rows,
			TexWidth:  tw,
			TexHeight: th,
			Keying:    Keying{Mode: KeyNone},
			Unchecked: !r.boundsCheck,
		}
	}
	return tasks
}

// DrawQuadBackground draws cmd opaquely on the worker pool: one task per
// band of ChunkRows target rows, executed by the workers and the calling
// goroutine together. It blocks until every band is written and returns the
// number of tasks run.
func (r *Rasterizer) DrawQuadBackground(cmd DrawCommand) int {
	if r.closed {
		return 0
	}
	tasks := r.BackgroundTasks(cmd)
	if len(tasks) == 0 {
		return 0
	}

	batch := make([]parallel.Task, len(tasks))
	for i := range tasks {
		batch[i] = &tasks[i]
	}
	r.sched.Run(batch)

	logger.Get().Debug("raster: background dispatched", "tasks", len(tasks))
	return len(tasks)
}

// Present hands the buffer to p without copying. p must not retain the
// pixel slice past the call.
func (r *Rasterizer) Present(p present.Presenter) error {
	if r.closed {
		return ErrClosed
	}
	if p == nil {
		return nil
	}
	r.frames++
	if err := p.Present(present.FrameOf(r.buf, r.frames)); err != nil {
		return fmt.Errorf("raster: present frame %d: %w", r.frames, err)
	}
	return nil
}

// Close stops the scheduler if the Rasterizer started it. Close is safe to
// call more than once.
func (r *Rasterizer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.ownsSched {
		r.sched.Shutdown()
	}
}
