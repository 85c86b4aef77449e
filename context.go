package sprite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/sprite/camera"
	"github.com/gogpu/sprite/glyph"
	"github.com/gogpu/sprite/internal/lifecycle"
	"github.com/gogpu/sprite/internal/logger"
	"github.com/gogpu/sprite/internal/parallel"
	"github.com/gogpu/sprite/present"
	"github.com/gogpu/sprite/raster"
	"github.com/gogpu/sprite/render"
	"github.com/gogpu/sprite/texture"
)

// Subsystem names, in the form used by the lifecycle manager and in logs.
const (
	componentScheduler = "scheduler"
	componentRaster    = "raster"
	componentCamera    = "camera"
	componentQueue     = "queue"
	componentTextures  = "textures"
	componentGlyphs    = "glyphs"
	componentPresenter = "presenter"
)

// Context owns every subsystem of one renderer: the worker scheduler, the
// rasterizer and its buffer, the camera, the render queue, the texture and
// glyph caches and the presenter frames go to.
//
// Subsystems are started in dependency order when the Context is created
// and stopped in reverse by Close. Several Contexts may coexist; they share
// nothing but the package logger.
//
// A Context is not safe for concurrent use. Rendering itself fans out to
// the scheduler's workers.
type Context struct {
	cfg  Config
	life *lifecycle.Manager

	sched     *parallel.Scheduler
	raster    *raster.Rasterizer
	camera    *camera.Camera
	queue     *render.Queue
	textures  *texture.Cache
	glyphs    *glyph.Atlas
	presenter present.Presenter

	closed bool
}

// NewContext validates cfg, applies opts and starts the subsystems.
// If any subsystem fails to start, the ones already running are stopped
// and the error is returned.
func NewContext(cfg Config, opts ...ContextOption) (*Context, error) {
	var o contextOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}
	if o.workers != nil {
		cfg.Workers = *o.workers
	}
	if o.tileSize > 0 {
		cfg.TileSize = o.tileSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Context{cfg: cfg, life: lifecycle.New()}
	if err := c.register(o); err != nil {
		return nil, err
	}
	if err := c.life.Start(); err != nil {
		return nil, fmt.Errorf("sprite: start context: %w", err)
	}

	logger.Get().Info("sprite: context created",
		"width", cfg.Width, "height", cfg.Height,
		"workers", c.sched.Workers(), "presenter", cfg.Presenter)
	return c, nil
}

func (c *Context) register(o contextOptions) error {
	cfg := c.cfg
	return errors.Join(
		c.life.Register(lifecycle.Component{
			Name: componentScheduler,
			Start: func() error {
				c.sched = parallel.NewScheduler(cfg.Workers)
				return nil
			},
			Stop: func() error {
				c.sched.Shutdown()
				return nil
			},
		}),
		c.life.Register(lifecycle.Component{
			Name:      componentRaster,
			DependsOn: []string{componentScheduler},
			Start:     c.startRaster,
			Stop: func() error {
				c.raster.Close()
				return nil
			},
		}),
		c.life.Register(lifecycle.Component{
			Name:      componentCamera,
			DependsOn: []string{componentRaster},
			Start: func() error {
				vp := c.raster.Viewport()
				c.camera = camera.New(vp.W, vp.H)
				return nil
			},
		}),
		c.life.Register(lifecycle.Component{
			Name: componentTextures,
			Start: func() error {
				c.textures = texture.NewCache(cfg.TextureCacheSize)
				return nil
			},
			Stop: func() error {
				c.textures.Clear()
				return nil
			},
		}),
		c.life.Register(lifecycle.Component{
			Name: componentGlyphs,
			Start: func() error {
				a, err := glyph.DefaultAtlas(cfg.FontSize, glyph.WithCacheSize(cfg.GlyphCacheSize))
				if err != nil {
					return err
				}
				c.glyphs = a
				return nil
			},
			Stop: func() error {
				return c.glyphs.Close()
			},
		}),
		c.life.Register(lifecycle.Component{
			Name: componentPresenter,
			Start: func() error {
				p, err := resolvePresenter(cfg.Presenter, o)
				if err != nil {
					return err
				}
				c.presenter = p
				return nil
			},
		}),
		c.life.Register(lifecycle.Component{
			Name:      componentQueue,
			DependsOn: []string{componentRaster, componentCamera},
			Start: func() error {
				c.queue = render.NewQueue(c.raster, c.camera,
					render.WithTileSize(cfg.TileSize),
					render.WithBackgroundLayer(cfg.BackgroundLayer),
					render.WithClearColor(cfg.ClearColor.RGBA()),
				)
				return nil
			},
		}),
	)
}

func (c *Context) startRaster() error {
	cfg := c.cfg
	format, err := cfg.PixelFormat()
	if err != nil {
		return err
	}
	keying, err := cfg.Keying.Keying()
	if err != nil {
		return err
	}

	opts := []raster.Option{
		raster.WithScheduler(c.sched),
		raster.WithChunkRows(cfg.ChunkRows),
		raster.WithFormat(format),
		raster.WithBoundsCheck(cfg.BoundsCheck),
		raster.WithKeying(keying),
	}
	if !cfg.Viewport.IsZero() {
		opts = append(opts, raster.WithViewport(cfg.Viewport.Rect()))
	}

	r, err := raster.New(cfg.Width, cfg.Height, opts...)
	if err != nil {
		return err
	}
	c.raster = r
	return nil
}

// resolvePresenter picks the presenter set by option, else the one named
// by the config, else the best ranked entry of the registry.
func resolvePresenter(name string, o contextOptions) (present.Presenter, error) {
	if o.presenter != nil {
		return o.presenter, nil
	}
	reg := o.registry
	if reg == nil {
		reg = present.NewRegistry()
	}
	if name == "" {
		name = reg.BestName()
	}
	p := reg.Get(name)
	if p == nil {
		return nil, &ConfigError{
			Field:  "presenter",
			Reason: fmt.Sprintf("no presenter named %q (registered: %s)", name, strings.Join(reg.Names(), ", ")),
		}
	}
	logger.Get().Debug("sprite: presenter selected", "name", name)
	return p, nil
}

// Frame renders the queue and presents the result.
func (c *Context) Frame() (render.FrameStats, error) {
	if c.closed {
		return render.FrameStats{}, ErrClosed
	}
	return c.queue.Render(c.presenter)
}

// Resize reallocates the frame buffer. The viewport is reset to the whole
// buffer and the camera follows it.
func (c *Context) Resize(width, height int) error {
	if c.closed {
		return ErrClosed
	}
	if err := c.raster.Resize(width, height); err != nil {
		return err
	}
	c.camera.SetViewportSize(width, height)
	c.cfg.Width, c.cfg.Height = width, height
	c.cfg.Viewport = ViewportConfig{}
	logger.Get().Info("sprite: context resized", "width", width, "height", height)
	return nil
}

// Config returns the configuration in effect, options applied.
func (c *Context) Config() Config { return c.cfg }

// Queue returns the render queue.
func (c *Context) Queue() *render.Queue { return c.queue }

// Camera returns the camera.
func (c *Context) Camera() *camera.Camera { return c.camera }

// Rasterizer returns the rasterizer.
func (c *Context) Rasterizer() *raster.Rasterizer { return c.raster }

// Textures returns the texture cache.
func (c *Context) Textures() *texture.Cache { return c.textures }

// Glyphs returns the default glyph atlas used for labels.
func (c *Context) Glyphs() *glyph.Atlas { return c.glyphs }

// Presenter returns the presenter frames are handed to.
func (c *Context) Presenter() present.Presenter { return c.presenter }

// Subsystems returns the names of the running subsystems in start order.
func (c *Context) Subsystems() []string { return c.life.Started() }

// Close stops every subsystem in reverse start order. Close is idempotent.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.life.Stop()
}
