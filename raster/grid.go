// Package raster writes sampled texture pixels into a pixel.Buffer.
//
// Geometry reaches this package as sampling grids: an origin plus two
// per-cell step vectors and a cell count along each axis. Walking a
// transformed rectangle then becomes repeated vector addition instead of a
// matrix multiply per texel.
//
// Two paths exist. DrawQuadTile and DrawQuadColor walk grid cells forward on
// the calling goroutine. DrawQuadBackground inverts the grid and walks target
// pixels instead, split into row chunks executed on a worker pool; each
// chunk owns a disjoint band of target rows, so the chunks write the shared
// buffer without locking.
package raster

import (
	"math"

	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/pixel"
)

// SamplingGrid describes a transformed quad as Cols×Rows cells.
// Cell (c, r) is the parallelogram spanned by DeltaU and DeltaV starting at
// Origin + c·DeltaU + r·DeltaV, in camera-relative pixel space.
type SamplingGrid struct {
	Origin geom.Vec2
	DeltaU geom.Vec2
	DeltaV geom.Vec2
	Cols   int
	Rows   int
}

// Point maps fractional grid coordinates to pixel space.
func (g SamplingGrid) Point(c, r float64) geom.Vec2 {
	return g.Origin.Add(g.DeltaU.Mul(c)).Add(g.DeltaV.Mul(r))
}

// Corners returns the four corners of the quad, in order
// origin, +U, +U+V, +V.
func (g SamplingGrid) Corners() [4]geom.Vec2 {
	cols, rows := float64(g.Cols), float64(g.Rows)
	return [4]geom.Vec2{
		g.Point(0, 0),
		g.Point(cols, 0),
		g.Point(cols, rows),
		g.Point(0, rows),
	}
}

// Bounds returns the axis-aligned box around the quad.
func (g SamplingGrid) Bounds() geom.Bounds {
	c := g.Corners()
	return geom.BoundsOf(c[:]...)
}

// Basis returns the affine map from grid coordinates to pixel space.
func (g SamplingGrid) Basis() geom.Matrix {
	m := geom.Columns(g.DeltaU, g.DeltaV)
	m.C, m.F = g.Origin.X, g.Origin.Y
	return m
}

// Determinant returns the signed area of one cell.
func (g SamplingGrid) Determinant() float64 {
	return g.DeltaU.Cross(g.DeltaV)
}

// Empty reports whether the grid has no cells.
func (g SamplingGrid) Empty() bool {
	return g.Cols <= 0 || g.Rows <= 0
}

// ClippedGrid is a SamplingGrid restricted to the cells that can reach the
// viewport. Cells [Col0, Col1) × [Row0, Row1) are drawn; Origin is the
// pixel-space position of cell (Col0, Row0).
type ClippedGrid struct {
	Grid SamplingGrid

	Col0, Col1 int
	Row0, Row1 int

	Origin geom.Vec2
}

// Full returns a ClippedGrid covering every cell of g.
func Full(g SamplingGrid) ClippedGrid {
	return ClippedGrid{
		Grid: g,
		Col1: g.Cols,
		Row1: g.Rows,
		// Origin of cell (0, 0) is the grid origin.
		Origin: g.Origin,
	}
}

// Cells returns the number of cells in the clipped range.
func (cg ClippedGrid) Cells() int {
	return max(cg.Col1-cg.Col0, 0) * max(cg.Row1-cg.Row0, 0)
}

// Empty reports whether the clipped range holds no cells.
func (cg ClippedGrid) Empty() bool {
	return cg.Col1 <= cg.Col0 || cg.Row1 <= cg.Row0
}

// PixelBounds returns the integer pixel rectangle enclosing the clipped
// cells.
func (cg ClippedGrid) PixelBounds() geom.Rect {
	g := cg.Grid
	b := geom.BoundsOf(
		g.Point(float64(cg.Col0), float64(cg.Row0)),
		g.Point(float64(cg.Col1), float64(cg.Row0)),
		g.Point(float64(cg.Col1), float64(cg.Row1)),
		g.Point(float64(cg.Col0), float64(cg.Row1)),
	)
	x0 := int(math.Floor(b.Min.X))
	y0 := int(math.Floor(b.Min.Y))
	x1 := int(math.Ceil(b.Max.X))
	y1 := int(math.Ceil(b.Max.Y))
	return geom.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// DrawCommand is one draw: a clipped grid, the texture it samples and the
// buffer it writes. A nil Texture or Target makes the command a no-op.
type DrawCommand struct {
	Grid    ClippedGrid
	Texture *pixel.Texture
	Target  *pixel.Buffer
}
