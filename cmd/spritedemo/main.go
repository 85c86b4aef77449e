// Command spritedemo renders a small sprite scene headlessly and saves the
// last frame as a PNG.
package main

import (
	"flag"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/pixel"
	"github.com/gogpu/sprite/present"
	"github.com/gogpu/sprite/render"
	"github.com/gogpu/sprite/texture"
)

func main() {
	var (
		config  = flag.String("config", "", "TOML config file (defaults are used when empty)")
		frames  = flag.Int("frames", 60, "number of frames to render")
		output  = flag.String("output", "sprites.png", "output file")
		verbose = flag.Bool("v", false, "log debug output to stderr")
	)
	flag.Parse()

	cfg := sprite.DefaultConfig()
	if *config != "" {
		var err error
		if cfg, err = sprite.LoadConfig(*config); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	var opts []sprite.ContextOption
	if *verbose {
		opts = append(opts, sprite.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	// Frames go to an image presenter so the last one can be saved.
	img := present.NewImagePresenter()
	opts = append(opts, sprite.WithPresenter(img))

	ctx, err := sprite.NewContext(cfg, opts...)
	if err != nil {
		log.Fatalf("Failed to create context: %v", err)
	}
	defer func() {
		if err := ctx.Close(); err != nil {
			log.Printf("Close: %v", err)
		}
	}()

	spinners, err := buildScene(ctx)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}

	var total render.FrameStats
	for i := range *frames {
		t := float64(i) / 60
		for j, s := range spinners {
			s.Rotation = t * float64(j+1)
		}
		ctx.Camera().SetPosition(geom.V2(math.Sin(t)*2, math.Cos(t)))

		stats, err := ctx.Frame()
		if err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
		total.Tasks += stats.Tasks
		total.Culled += stats.Culled
	}

	if err := img.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Rendered %d frames (%d background tasks, %d culled) to %s (%dx%d)\n",
		img.Frames(), total.Tasks, total.Culled, *output, cfg.Width, cfg.Height)
}

// buildScene adds a checkered floor, a ring of spinning sprites, a few flat
// color markers and a caption. It returns the sprites that animate.
func buildScene(ctx *sprite.Context) ([]*render.Sprite, error) {
	q := ctx.Queue()
	tile := q.TileSize()

	floorPx := int(16 * tile)
	floor, err := ctx.Textures().GetOrLoad("floor", func() (*pixel.Texture, error) {
		return texture.Checker(floorPx, floorPx, int(tile),
			color.RGBA{R: 40, G: 44, B: 52, A: 255},
			color.RGBA{R: 60, G: 66, B: 78, A: 255})
	})
	if err != nil {
		return nil, err
	}
	bg := render.NewSprite(geom.Vec2{}, floor)
	bg.Layer = render.DefaultBackgroundLayer
	bg.Scale = geom.V2(16, 16)
	q.AddSprite(bg)

	palette := []color.RGBA{
		{R: 230, G: 80, B: 80, A: 255},
		{R: 80, G: 200, B: 120, A: 255},
		{R: 90, G: 140, B: 240, A: 255},
		{R: 240, G: 200, B: 60, A: 255},
	}

	var spinners []*render.Sprite
	for i, c := range palette {
		tex, err := texture.Solid(int(tile), int(tile), c)
		if err != nil {
			return nil, err
		}
		angle := float64(i) * math.Pi / 2
		s := render.NewSprite(geom.V2(math.Cos(angle)*4, math.Sin(angle)*4), tex)
		s.Layer = 1
		q.AddSprite(s)
		spinners = append(spinners, s)

		marker := render.NewSprite(geom.V2(math.Cos(angle)*6, math.Sin(angle)*6), nil)
		marker.Color = c
		marker.Scale = geom.V2(0.5, 0.5)
		q.AddSprite(marker)
	}

	caption := render.NewLabel(geom.V2(-3, -6), "gogpu/sprite", ctx.Glyphs())
	caption.Layer = 2
	q.AddLabel(caption)

	return spinners, nil
}
