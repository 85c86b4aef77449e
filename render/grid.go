// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/raster"
)

// Epsilon is the smallest cell area, in square pixels, a grid may have and
// still be clipped. Thinner grids are treated as not visible.
const Epsilon = 1e-9

// Placement is a sprite projected into camera-relative pixel space.
// AxisU and AxisV span the full sprite, centered on Center.
type Placement struct {
	Center geom.Vec2
	AxisU  geom.Vec2
	AxisV  geom.Vec2

	// Scale is the sprite size in world units. It sizes the grid when the
	// sprite has no texture.
	Scale geom.Vec2
}

// BuildDiscreteGrid divides a placed quad into cells. With a texture the
// grid has one cell per texel; otherwise it has Scale×tileSize cells, at
// least one per axis.
func BuildDiscreteGrid(p Placement, texWidth, texHeight int, tileSize float64) raster.SamplingGrid {
	cols, rows := texWidth, texHeight
	if cols <= 0 || rows <= 0 {
		cols = max(int(math.Round(math.Abs(p.Scale.X)*tileSize)), 1)
		rows = max(int(math.Round(math.Abs(p.Scale.Y)*tileSize)), 1)
	}

	return raster.SamplingGrid{
		Origin: p.Center.Sub(p.AxisU.Div(2)).Sub(p.AxisV.Div(2)),
		DeltaU: p.AxisU.Div(float64(cols)),
		DeltaV: p.AxisV.Div(float64(rows)),
		Cols:   cols,
		Rows:   rows,
	}
}

// ClipGridToViewport restricts g to the cells that can touch vp.
//
// The quad's bounding box is intersected with vp and the corners of the
// intersection are mapped back into grid space through the inverse of the
// cell basis. The enclosing integer cell range, clamped to the grid, is the
// result. It reports false when the intersection is empty or when the cell
// area is below Epsilon.
func ClipGridToViewport(g raster.SamplingGrid, vp geom.Rect) (raster.ClippedGrid, bool) {
	if g.Empty() || vp.Empty() {
		return raster.ClippedGrid{}, false
	}
	det := g.Determinant()
	if math.Abs(det) < Epsilon {
		return raster.ClippedGrid{}, false
	}

	b := g.Bounds()
	x0 := max(b.Min.X, float64(vp.X))
	y0 := max(b.Min.Y, float64(vp.Y))
	x1 := min(b.Max.X, float64(vp.MaxX()))
	y1 := min(b.Max.Y, float64(vp.MaxY()))
	if x0 >= x1 || y0 >= y1 {
		return raster.ClippedGrid{}, false
	}

	// Inverse of [DeltaU | DeltaV] by adjugate.
	u, v := g.DeltaU, g.DeltaV
	toGrid := func(x, y float64) (float64, float64) {
		d := geom.V2(x, y).Sub(g.Origin)
		return d.Cross(v) / det, u.Cross(d) / det
	}

	minC, minR := math.Inf(1), math.Inf(1)
	maxC, maxR := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}} {
		c, r := toGrid(p[0], p[1])
		minC, maxC = min(minC, c), max(maxC, c)
		minR, maxR = min(minR, r), max(maxR, r)
	}

	cg := raster.ClippedGrid{
		Grid: g,
		Col0: clampIndex(math.Floor(minC), g.Cols),
		Col1: clampIndex(math.Ceil(maxC), g.Cols),
		Row0: clampIndex(math.Floor(minR), g.Rows),
		Row1: clampIndex(math.Ceil(maxR), g.Rows),
	}
	if cg.Empty() {
		return raster.ClippedGrid{}, false
	}
	cg.Origin = g.Point(float64(cg.Col0), float64(cg.Row0))
	return cg, true
}

func clampIndex(v float64, n int) int {
	switch {
	case v <= 0:
		return 0
	case v >= float64(n):
		return n
	default:
		return int(v)
	}
}
