// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/gogpu/sprite/camera"
	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/internal/logger"
	"github.com/gogpu/sprite/present"
	"github.com/gogpu/sprite/raster"
)

const (
	// DefaultTileSize is the number of pixels per world unit.
	DefaultTileSize = 32.0

	// DefaultBackgroundLayer is the layer drawn through the parallel path.
	DefaultBackgroundLayer = -1
)

// FrameStats counts what happened to the registered entities in one frame.
type FrameStats struct {
	Sprites    int // sprites in the draw order
	Hidden     int
	Culled     int // rejected by the Culler
	ClippedOut int // passed the Culler but had no cell in the viewport
	Background int // drawn on the parallel path
	Tiled      int // drawn on the tile path
	Colored    int // drawn as flat color
	Labels     int
	Glyphs     int
	Tasks      int // background tasks executed
}

// Drawn returns the number of sprites that reached the rasterizer.
func (s FrameStats) Drawn() int {
	return s.Background + s.Tiled + s.Colored
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithTileSize sets the number of pixels per world unit.
func WithTileSize(px float64) QueueOption {
	return func(q *Queue) {
		if px > 0 {
			q.tile = px
		}
	}
}

// WithCuller replaces the default Culler.
func WithCuller(c Culler) QueueOption {
	return func(q *Queue) {
		q.culler = c
	}
}

// WithBackgroundLayer selects the layer whose textured sprites are drawn
// through the parallel, opaque path.
func WithBackgroundLayer(layer int) QueueOption {
	return func(q *Queue) {
		q.background = layer
	}
}

// WithClearColor sets the color the buffer is cleared to each frame.
func WithClearColor(c color.RGBA) QueueOption {
	return func(q *Queue) {
		q.clear = c
	}
}

// pending is one queued registry change: an addition when add is set,
// otherwise the removal of id.
type pending[T any] struct {
	id  ID
	add T
	set bool
}

// apply replays ops against m in order and returns ops emptied for reuse.
func apply[T any](m map[ID]T, ops []pending[T]) []pending[T] {
	for _, op := range ops {
		if op.set {
			m[op.id] = op.add
		} else {
			delete(m, op.id)
		}
	}
	clear(ops)
	return ops[:0]
}

// Queue holds the registered sprites and labels and renders them in layer
// order.
//
// State moves from clean to dirty on every add or remove and back to clean
// when Update rebuilds the draw order. The queue is not safe for concurrent
// use.
type Queue struct {
	raster *raster.Rasterizer
	camera *camera.Camera
	culler Culler

	tile       float64
	background int
	clear      color.RGBA

	sprites map[ID]*Sprite
	labels  map[ID]*Label

	// Pending registry changes, applied by Update in call order.
	spriteOps []pending[*Sprite]
	labelOps  []pending[*Label]

	order      []*Sprite
	labelOrder []*Label
	dirty      bool
}

// NewQueue returns an empty queue drawing with r as seen through cam.
func NewQueue(r *raster.Rasterizer, cam *camera.Camera, opts ...QueueOption) *Queue {
	q := &Queue{
		raster:     r,
		camera:     cam,
		culler:     NewCuller(),
		tile:       DefaultTileSize,
		background: DefaultBackgroundLayer,
		clear:      color.RGBA{A: 255},
		sprites:    make(map[ID]*Sprite),
		labels:     make(map[ID]*Label),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Camera returns the queue's camera.
func (q *Queue) Camera() *camera.Camera { return q.camera }

// Rasterizer returns the rasterizer the queue draws with.
func (q *Queue) Rasterizer() *raster.Rasterizer { return q.raster }

// TileSize returns the number of pixels per world unit.
func (q *Queue) TileSize() float64 { return q.tile }

// SetClearColor changes the per-frame clear color.
func (q *Queue) SetClearColor(c color.RGBA) { q.clear = c }

// AddSprite registers s from the next Update on. Nil is ignored.
func (q *Queue) AddSprite(s *Sprite) {
	if s == nil {
		return
	}
	s.ensureID()
	q.spriteOps = append(q.spriteOps, pending[*Sprite]{id: s.id, add: s, set: true})
	q.dirty = true
}

// RemoveSprite unregisters s at the next Update.
func (q *Queue) RemoveSprite(s *Sprite) {
	if s == nil {
		return
	}
	q.RemoveSpriteID(s.id)
}

// RemoveSpriteID unregisters the sprite with the given ID at the next Update.
func (q *Queue) RemoveSpriteID(id ID) {
	q.spriteOps = append(q.spriteOps, pending[*Sprite]{id: id})
	q.dirty = true
}

// AddLabel registers l from the next Update on. Nil is ignored.
func (q *Queue) AddLabel(l *Label) {
	if l == nil {
		return
	}
	l.ensureID()
	q.labelOps = append(q.labelOps, pending[*Label]{id: l.id, add: l, set: true})
	q.dirty = true
}

// RemoveLabel unregisters l at the next Update.
func (q *Queue) RemoveLabel(l *Label) {
	if l == nil {
		return
	}
	q.RemoveLabelID(l.id)
}

// RemoveLabelID unregisters the label with the given ID at the next Update.
func (q *Queue) RemoveLabelID(id ID) {
	q.labelOps = append(q.labelOps, pending[*Label]{id: id})
	q.dirty = true
}

// Dirty reports whether pending changes await the next Update.
func (q *Queue) Dirty() bool { return q.dirty }

// Len returns the number of registered sprites, pending changes excluded.
func (q *Queue) Len() int { return len(q.sprites) }

// LabelLen returns the number of registered labels.
func (q *Queue) LabelLen() int { return len(q.labels) }

// Sprite returns the registered sprite with the given ID.
func (q *Queue) Sprite(id ID) (*Sprite, bool) {
	s, ok := q.sprites[id]
	return s, ok
}

// DrawOrder returns the sprites in the order the last Update sorted them.
// The slice is owned by the queue and must not be modified.
func (q *Queue) DrawOrder() []*Sprite { return q.order }

// Update applies pending additions and removals in the order they were
// made and rebuilds the draw order if anything changed. Sprites are sorted
// by layer, then by ID. Removing and re-adding a sprite in the same frame
// keeps it registered, which is how a changed Layer is re-sorted.
func (q *Queue) Update() {
	if !q.dirty {
		return
	}

	q.spriteOps = apply(q.sprites, q.spriteOps)
	q.labelOps = apply(q.labels, q.labelOps)

	q.order = q.order[:0]
	for _, s := range q.sprites {
		q.order = append(q.order, s)
	}
	slices.SortStableFunc(q.order, func(a, b *Sprite) int {
		return cmp.Or(cmp.Compare(a.Layer, b.Layer), cmp.Compare(a.id, b.id))
	})

	q.labelOrder = q.labelOrder[:0]
	for _, l := range q.labels {
		q.labelOrder = append(q.labelOrder, l)
	}
	slices.SortStableFunc(q.labelOrder, func(a, b *Label) int {
		return cmp.Or(cmp.Compare(a.Layer, b.Layer), cmp.Compare(a.id, b.id))
	})

	q.dirty = false
	logger.Get().Debug("render: draw order rebuilt", "sprites", len(q.order), "labels", len(q.labelOrder))
}

// Render draws one frame and presents it to target. Sprites are drawn in
// draw order, labels after them. A nil target renders without presenting.
func (q *Queue) Render(target present.Presenter) (FrameStats, error) {
	q.Update()

	r := q.raster
	r.Clear(q.clear)

	vp := r.Viewport()
	offset := geom.V2(float64(vp.X), float64(vp.Y))
	stats := FrameStats{Sprites: len(q.order)}

	for _, s := range q.order {
		if s.Hidden {
			stats.Hidden++
			continue
		}
		q.drawSprite(s, vp, offset, &stats)
	}
	for _, l := range q.labelOrder {
		if l.Hidden || l.Atlas == nil || l.Text == "" {
			continue
		}
		stats.Labels++
		q.drawLabel(l, vp, offset, &stats)
	}

	if err := r.Present(target); err != nil {
		logger.Get().Warn("render: present failed", "err", err)
		return stats, err
	}
	return stats, nil
}

func (q *Queue) drawSprite(s *Sprite, vp geom.Rect, offset geom.Vec2, stats *FrameStats) {
	p := s.Placement(q.camera, q.tile)
	p.Center = p.Center.Add(offset)

	var tw, th int
	if s.Texture != nil {
		tw, th = s.Texture.Size()
	}
	g := BuildDiscreteGrid(p, tw, th, q.tile)
	if q.culler.Cull(g, vp) {
		stats.Culled++
		return
	}
	cg, ok := ClipGridToViewport(g, vp)
	if !ok {
		stats.ClippedOut++
		return
	}

	r := q.raster
	cmd := raster.DrawCommand{Grid: cg, Texture: s.Texture, Target: r.Buffer()}
	switch {
	case s.Texture == nil:
		r.DrawQuadColor(cg, s.Color)
		stats.Colored++
	case s.Layer == q.background:
		stats.Tasks += r.DrawQuadBackground(cmd)
		stats.Background++
	default:
		r.DrawQuadTile(cmd)
		stats.Tiled++
	}
}

func (q *Queue) drawLabel(l *Label, vp geom.Rect, offset geom.Vec2, stats *FrameStats) {
	anchor := l.Anchor(q.camera, q.tile).Add(offset)
	anchor = geom.V2(math.Floor(anchor.X), math.Floor(anchor.Y))

	r := q.raster
	for _, pg := range l.Atlas.Layout(l.Text) {
		w, h := pg.Texture.Size()
		g := raster.SamplingGrid{
			Origin: anchor.Add(pg.Pos),
			DeltaU: geom.V2(1, 0),
			DeltaV: geom.V2(0, 1),
			Cols:   w,
			Rows:   h,
		}
		if q.culler.Cull(g, vp) {
			continue
		}
		cg, ok := ClipGridToViewport(g, vp)
		if !ok {
			continue
		}
		r.DrawQuadTile(raster.DrawCommand{Grid: cg, Texture: pg.Texture, Target: r.Buffer()})
		stats.Glyphs++
	}
}
