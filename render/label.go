// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/sprite/camera"
	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/glyph"
)

// Label is screen-aligned text anchored at a world position. Glyphs are
// not rotated or scaled with the camera; the atlas decides their size and
// color.
type Label struct {
	id ID

	Layer int

	// Position is the world point under the top-left corner of the text.
	Position geom.Vec2
	Text     string
	Atlas    *glyph.Atlas
	Hidden   bool
}

// NewLabel returns a label with a fresh ID.
func NewLabel(pos geom.Vec2, text string, atlas *glyph.Atlas) *Label {
	return &Label{
		id:       nextID(),
		Position: pos,
		Text:     text,
		Atlas:    atlas,
	}
}

// ID returns the label's stable identifier.
func (l *Label) ID() ID {
	return l.id
}

func (l *Label) ensureID() {
	if l.id == 0 {
		l.id = nextID()
	}
}

// Anchor returns the camera-relative pixel position of the text origin.
func (l *Label) Anchor(cam *camera.Camera, tile float64) geom.Vec2 {
	return cam.WorldToPixel(l.Position, tile)
}
