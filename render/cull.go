// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/raster"
)

// DefaultCullPadding is the margin, in pixels, added around a quad's
// bounding box before testing it against the viewport.
const DefaultCullPadding = 1.0

// Culler rejects quads whose padded bounding box misses the viewport.
// It runs before ClipGridToViewport and needs no matrix inverse.
type Culler struct {
	Padding float64
}

// NewCuller returns a Culler with DefaultCullPadding.
func NewCuller() Culler {
	return Culler{Padding: DefaultCullPadding}
}

// Cull reports whether g can be skipped entirely.
func (c Culler) Cull(g raster.SamplingGrid, vp geom.Rect) bool {
	if g.Empty() || vp.Empty() {
		return true
	}
	return !g.Bounds().Pad(c.Padding).Overlaps(vp)
}
