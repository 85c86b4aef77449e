// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image/color"
	"sync/atomic"

	"github.com/gogpu/sprite/camera"
	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/pixel"
)

// ID identifies a sprite or label for the lifetime of the process.
// IDs increase with creation order and break ties between equal layers.
type ID uint64

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

// Sprite is a textured or flat-colored quad in the world.
//
// The queue reads sprites but does not own them: game code keeps the
// pointer and may change the exported fields between frames.
type Sprite struct {
	id ID

	// Layer orders drawing; lower layers are drawn first.
	Layer int

	// Position is the world-space center.
	Position geom.Vec2

	// Rotation is in radians, clockwise on screen.
	Rotation float64

	// Scale is the size in world units.
	Scale geom.Vec2

	// Texture must already have its on-screen size. A nil Texture draws
	// Color instead.
	Texture *pixel.Texture
	Color   color.RGBA

	Hidden bool
}

// NewSprite returns a one-by-one sprite at pos with a fresh ID.
func NewSprite(pos geom.Vec2, tex *pixel.Texture) *Sprite {
	return &Sprite{
		id:       nextID(),
		Position: pos,
		Scale:    geom.V2(1, 1),
		Texture:  tex,
		Color:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// ID returns the sprite's stable identifier. Sprites built without
// NewSprite get one on first registration.
func (s *Sprite) ID() ID {
	return s.id
}

func (s *Sprite) ensureID() {
	if s.id == 0 {
		s.id = nextID()
	}
}

// Placement projects the sprite through cam with tile pixels per world unit.
func (s *Sprite) Placement(cam *camera.Camera, tile float64) Placement {
	u := geom.V2(s.Scale.X, 0).Rotate(s.Rotation)
	v := geom.V2(0, s.Scale.Y).Rotate(s.Rotation)
	return Placement{
		Center: cam.WorldToPixel(s.Position, tile),
		AxisU:  cam.VectorToPixel(u, tile),
		AxisV:  cam.VectorToPixel(v, tile),
		Scale:  s.Scale,
	}
}
