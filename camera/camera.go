// Package camera maps world coordinates to camera-relative pixels.
//
// The world is measured in tile units: one world unit spans tile pixels at
// scale 1. The tile multiplier is folded into the view matrix, so a sprite
// needs a single transform to reach pixel space.
package camera

import (
	"math"

	"github.com/gogpu/sprite/geom"
)

// MinScale is the smallest magnitude a scale component may take.
const MinScale = 0.05

// Camera is a 2D camera with position, rotation and non-uniform scale.
// The camera position projects to the center of the viewport.
//
// Matrices are rebuilt lazily: setters only mark the camera dirty and the
// next query recomputes what it needs.
//
// Camera is not safe for concurrent use.
type Camera struct {
	position geom.Vec2
	rotation float64
	scale    geom.Vec2
	width    int
	height   int

	// inverseView moves the world so the camera sits at the origin,
	// unrotated. screen scales and recenters onto the viewport.
	inverseView geom.Matrix
	screen      geom.Matrix
	dirty       bool

	// view and pixelToWorld are cached for tile while viewValid holds.
	tile         float64
	viewValid    bool
	view         geom.Matrix
	pixelToWorld geom.Matrix
}

// New returns a camera at the world origin for a width×height viewport.
func New(width, height int) *Camera {
	return &Camera{
		scale:  geom.V2(1, 1),
		width:  width,
		height: height,
		dirty:  true,
	}
}

// Position returns the world point at the viewport center.
func (c *Camera) Position() geom.Vec2 { return c.position }

// Rotation returns the camera rotation in radians.
func (c *Camera) Rotation() float64 { return c.rotation }

// Scale returns the zoom along each screen axis.
func (c *Camera) Scale() geom.Vec2 { return c.scale }

// ViewportSize returns the viewport size in pixels.
func (c *Camera) ViewportSize() (int, int) { return c.width, c.height }

// Dirty reports whether a setter ran since the matrices were last built.
func (c *Camera) Dirty() bool { return c.dirty }

// SetPosition centers the camera on p.
func (c *Camera) SetPosition(p geom.Vec2) {
	c.position = p
	c.dirty = true
}

// Move shifts the camera by d world units.
func (c *Camera) Move(d geom.Vec2) {
	c.position = c.position.Add(d)
	c.dirty = true
}

// SetRotation sets the rotation in radians. Positive angles turn the
// camera clockwise, so the world appears to turn counterclockwise.
func (c *Camera) SetRotation(angle float64) {
	c.rotation = angle
	c.dirty = true
}

// Rotate adds angle radians to the rotation.
func (c *Camera) Rotate(angle float64) {
	c.rotation += angle
	c.dirty = true
}

// SetScale sets the zoom per axis. Components closer to zero than MinScale
// are pushed out to MinScale, keeping their sign.
func (c *Camera) SetScale(s geom.Vec2) {
	c.scale = geom.V2(clampScale(s.X), clampScale(s.Y))
	c.dirty = true
}

// SetZoom sets a uniform scale.
func (c *Camera) SetZoom(z float64) {
	c.SetScale(geom.V2(z, z))
}

func clampScale(s float64) float64 {
	if math.Abs(s) >= MinScale {
		return s
	}
	if s < 0 {
		return -MinScale
	}
	return MinScale
}

// SetViewportSize updates the viewport after a resize.
func (c *Camera) SetViewportSize(width, height int) {
	c.width, c.height = width, height
	c.dirty = true
}

// InverseView returns the world transform that places the camera at the
// origin with no rotation.
func (c *Camera) InverseView() geom.Matrix {
	c.rebuild()
	return c.inverseView
}

// ScreenScale returns the zoom and recentering part of the view, without
// the tile multiplier.
func (c *Camera) ScreenScale() geom.Matrix {
	c.rebuild()
	return c.screen
}

func (c *Camera) rebuild() {
	if !c.dirty {
		return
	}
	c.inverseView = geom.Rotate(-c.rotation).Multiply(geom.Translate(-c.position.X, -c.position.Y))
	c.screen = geom.Translate(float64(c.width)/2, float64(c.height)/2).
		Multiply(geom.Scale(c.scale.X, c.scale.Y))
	c.viewValid = false
	c.dirty = false
}

// View returns the world to pixel transform for tile pixels per world unit.
func (c *Camera) View(tile float64) geom.Matrix {
	c.rebuild()
	if !c.viewValid || tile != c.tile {
		c.view = c.screen.Multiply(geom.Scale(tile, tile)).Multiply(c.inverseView)
		// Scale components never reach zero, so only a zero tile is singular.
		c.pixelToWorld, _ = c.view.Invert()
		c.tile = tile
		c.viewValid = true
	}
	return c.view
}

// WorldToPixel returns the camera-relative pixel position of world point p.
func (c *Camera) WorldToPixel(p geom.Vec2, tile float64) geom.Vec2 {
	return c.View(tile).TransformPoint(p)
}

// VectorToPixel transforms a world direction, ignoring translation.
func (c *Camera) VectorToPixel(v geom.Vec2, tile float64) geom.Vec2 {
	return c.View(tile).TransformVector(v)
}

// PixelToWorld maps a pixel position back into the world. It returns the
// camera position when tile is zero.
func (c *Camera) PixelToWorld(p geom.Vec2, tile float64) geom.Vec2 {
	if tile == 0 {
		return c.position
	}
	c.View(tile)
	return c.pixelToWorld.TransformPoint(p)
}
