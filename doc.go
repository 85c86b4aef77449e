// Package sprite is a CPU sprite renderer for tile-based 2D games.
//
// # Overview
//
// Sprites live in a world measured in tiles. Each frame a camera projects
// them to pixels, a render queue sorts them by layer, culls and clips them
// against the viewport, and a rasterizer writes their texels into a padded
// RGB (or RGBA) pixel buffer. Large background quads are split into bands
// of rows and rasterized on a worker pool. The finished buffer is handed,
// without copying, to a presenter once per frame.
//
// # Quick Start
//
//	ctx, err := sprite.NewContext(sprite.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	tex, _ := texture.Solid(32, 32, color.RGBA{R: 255, A: 255})
//	ctx.Queue().AddSprite(render.NewSprite(geom.V2(0, 0), tex))
//
//	stats, err := ctx.Frame()
//
// # Architecture
//
// The module is organized into:
//   - sprite: Context, Config, options and the logger
//   - geom, pixel: vectors, matrices, rectangles, buffers and textures
//   - camera: world to pixel projection
//   - raster: sampling grids, row-band tasks and the Rasterizer
//   - render: Queue, Culler, grid building and clipping, Sprite and Label
//   - present: frames and presenters
//   - texture, glyph: texture loading and glyph rendering
//
// # Coordinate System
//
// Pixel coordinates put the origin at the top-left corner, with X growing
// right and Y growing down. Angles are radians and turn clockwise on screen.
package sprite
