package raster

import (
	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/pixel"
)

// RasterTask fills one band of target rows for a background draw.
//
// The task walks target pixels, not grid cells: Start is the grid-space
// coordinate at the center of pixel (ColStart, RowStart-RowOffset), the
// first row of the draw, and StepX and StepY are the grid-space deltas for
// one target pixel along x and y. A sampled coordinate is floored to a cell,
// the cell is mapped to a texel and the texel is written.
//
// Row positions are derived from Start and the relative row index, so a row
// samples the same coordinates whichever band it falls in.
//
// Tasks hold references only. Two tasks may run concurrently as long as
// their [RowStart, RowEnd) ranges do not overlap.
type RasterTask struct {
	Dst *pixel.Buffer
	Src *pixel.Texture

	Start geom.Vec2
	StepX geom.Vec2
	StepY geom.Vec2

	// Absolute target rows [RowStart, RowEnd) and columns [ColStart, ColEnd).
	RowStart, RowEnd int
	ColStart, ColEnd int

	// RowOffset is RowStart relative to the first row of the draw.
	RowOffset int

	// Cells outside [Col0, Col1) × [Row0, Row1) are not drawn.
	Col0, Col1 int
	Row0, Row1 int

	// Grid size and texture size for the cell to texel mapping.
	Cols, Rows          int
	TexWidth, TexHeight int

	Keying    Keying
	Unchecked bool
}

// Execute writes the task's rows. It is a no-op when Dst or Src is nil.
func (t *RasterTask) Execute() {
	if t.Dst == nil || t.Src == nil || t.Cols <= 0 || t.Rows <= 0 {
		return
	}
	dstW, dstH := t.Dst.Width(), t.Dst.Height()

	for y := t.RowStart; y < t.RowEnd; y++ {
		rel := float64(t.RowOffset + y - t.RowStart)
		p := t.Start.Add(t.StepY.Mul(rel))
		for x := t.ColStart; x < t.ColEnd; x, p = x+1, p.Add(t.StepX) {
			c, r := p.Floor()
			if c < t.Col0 || c >= t.Col1 || r < t.Row0 || r >= t.Row1 {
				continue
			}
			tx := c * t.TexWidth / t.Cols
			ty := r * t.TexHeight / t.Rows
			if tx < 0 || tx >= t.TexWidth || ty < 0 || ty >= t.TexHeight {
				continue
			}
			texel := t.Src.TexelUnchecked(tx, ty)
			if t.Keying.Transparent(texel) {
				continue
			}
			if t.Unchecked {
				t.Dst.SetUnchecked(x, y, texel)
				continue
			}
			if x >= 0 && x < dstW && y >= 0 && y < dstH {
				t.Dst.SetUnchecked(x, y, texel)
			}
		}
	}
}

// RowRange is a half-open range of rows [Start, End).
type RowRange struct {
	Start, End int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	return max(r.End-r.Start, 0)
}

// SplitRows partitions [start, end) into consecutive ranges of at most chunk
// rows. The ranges are disjoint, contiguous and cover the input exactly; only
// the last one may be shorter. A chunk size of 0 or less yields one range.
func SplitRows(start, end, chunk int) []RowRange {
	if end <= start {
		return nil
	}
	if chunk <= 0 {
		return []RowRange{{Start: start, End: end}}
	}

	ranges := make([]RowRange, 0, (end-start+chunk-1)/chunk)
	for y := start; y < end; y += chunk {
		ranges = append(ranges, RowRange{Start: y, End: min(y+chunk, end)})
	}
	return ranges
}
