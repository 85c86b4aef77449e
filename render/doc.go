// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns registered sprites and labels into draw calls.
//
// A Queue owns the frame loop. Sprites are registered through pending
// add and remove lists that take effect at the next Update; the sorted draw
// order is rebuilt only when those lists changed something. Each frame the
// queue projects every visible sprite through the camera, builds its
// sampling grid, rejects it with the Culler, clips it to the viewport and
// hands it to the rasterizer.
//
// # Frame sequence
//
//	q := render.NewQueue(r, cam, render.WithTileSize(32))
//	q.AddSprite(player)
//	stats, err := q.Render(presenter) // Update, clear, draw, present
//
// The queue is single-threaded: registration and Render must be called from
// the same goroutine, one frame after another. Parallelism lives below it,
// in the rasterizer's background path.
package render
