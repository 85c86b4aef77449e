// Command spriteview shows the sprite renderer in a desktop window.
//
// Arrow keys move the camera, Q and E rotate it, and the mouse wheel zooms.
package main

import (
	"flag"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/present"
	"github.com/gogpu/sprite/render"
	"github.com/gogpu/sprite/texture"
)

const (
	moveSpeed   = 0.15 // world units per tick
	rotateSpeed = 0.03 // radians per tick
	zoomStep    = 1.1
)

func main() {
	var (
		config = flag.String("config", "", "TOML config file (defaults are used when empty)")
		scale  = flag.Int("scale", 1, "window pixels per frame pixel")
	)
	flag.Parse()

	cfg := sprite.DefaultConfig()
	if *config != "" {
		var err error
		if cfg, err = sprite.LoadConfig(*config); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	v := &viewer{}
	ctx, err := sprite.NewContext(cfg, sprite.WithPresenter(present.PresenterFunc(v.present)))
	if err != nil {
		log.Fatalf("Failed to create context: %v", err)
	}
	defer func() { _ = ctx.Close() }()
	v.ctx = ctx

	if err := populate(ctx); err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}

	ebiten.SetWindowTitle("spriteview")
	ebiten.SetWindowSize(cfg.Width*max(*scale, 1), cfg.Height*max(*scale, 1))
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

// viewer implements ebiten.Game. Each Draw renders one frame through the
// context, whose presenter copies it into an ebiten image.
type viewer struct {
	ctx    *sprite.Context
	pixels []byte
	img    *ebiten.Image
}

func (v *viewer) present(f present.Frame) error {
	if v.img == nil || v.img.Bounds().Dx() != f.Width || v.img.Bounds().Dy() != f.Height {
		if v.img != nil {
			v.img.Deallocate()
		}
		v.img = ebiten.NewImage(f.Width, f.Height)
	}
	data := f.RGBA(v.pixels)
	if !f.Tight() {
		v.pixels = data
	}
	v.img.WritePixels(data)
	return nil
}

func (v *viewer) Update() error {
	cam := v.ctx.Camera()

	var d geom.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		d.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		d.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		d.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		d.Y++
	}
	if d != (geom.Vec2{}) {
		// Movement follows the screen, not the world axes.
		cam.Move(d.Mul(moveSpeed).Rotate(cam.Rotation()))
	}

	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		cam.Rotate(-rotateSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		cam.Rotate(rotateSpeed)
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		s := cam.Scale()
		cam.SetScale(s.Mul(math.Pow(zoomStep, wy)))
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if _, err := v.ctx.Frame(); err != nil {
		log.Printf("Frame: %v", err)
		return
	}
	if v.img != nil {
		screen.DrawImage(v.img, nil)
	}
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return v.ctx.Rasterizer().Width(), v.ctx.Rasterizer().Height()
}

// populate scatters a grid of colored tiles over a checkered floor.
func populate(ctx *sprite.Context) error {
	q := ctx.Queue()
	tile := int(q.TileSize())

	floor, err := texture.Checker(32*tile, 32*tile, tile,
		color.RGBA{R: 30, G: 30, B: 36, A: 255},
		color.RGBA{R: 48, G: 48, B: 58, A: 255})
	if err != nil {
		return err
	}
	bg := render.NewSprite(geom.Vec2{}, floor)
	bg.Layer = render.DefaultBackgroundLayer
	bg.Scale = geom.V2(32, 32)
	q.AddSprite(bg)

	for y := -6; y <= 6; y += 3 {
		for x := -6; x <= 6; x += 3 {
			c := color.RGBA{R: uint8(128 + x*20), G: uint8(128 + y*20), B: 200, A: 255} //nolint:gosec // within 8 bits
			tex, err := texture.Solid(tile, tile, c)
			if err != nil {
				return err
			}
			s := render.NewSprite(geom.V2(float64(x), float64(y)), tex)
			s.Rotation = float64(x+y) * 0.1
			q.AddSprite(s)
		}
	}

	q.AddLabel(render.NewLabel(geom.V2(-6, -8), "arrows move, Q/E rotate, wheel zooms", ctx.Glyphs()))
	return nil
}
