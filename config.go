package sprite

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/pixel"
	"github.com/gogpu/sprite/present"
	"github.com/gogpu/sprite/raster"
	"github.com/gogpu/sprite/render"
)

// Config describes a render context. The zero value is not usable; start
// from DefaultConfig.
//
// A Config is normally read from a TOML file:
//
//	width = 640
//	height = 480
//	workers = 4
//	tile_size = 32
//	format = "rgb"
//	clear_color = "#202030"
//
//	[viewport]
//	x = 0
//	y = 0
//	width = 640
//	height = 480
//
//	[keying]
//	mode = "color"
//	color = "#000000"
type Config struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Viewport restricts drawing to a sub-rectangle of the buffer.
	// A zero Viewport covers the whole buffer.
	Viewport ViewportConfig `toml:"viewport"`

	// Workers is the number of scheduler goroutines. Zero means GOMAXPROCS.
	Workers int `toml:"workers"`

	// TileSize is the number of pixels per world unit.
	TileSize float64 `toml:"tile_size"`

	// ChunkRows is the number of target rows per background task.
	ChunkRows int `toml:"chunk_rows"`

	// Format is the frame buffer layout, "rgb" or "rgba".
	Format string `toml:"format"`

	BoundsCheck bool `toml:"bounds_check"`

	Keying KeyingConfig `toml:"keying"`

	ClearColor Color `toml:"clear_color"`

	// Presenter names the registry entry frames are presented to. Empty
	// selects the best ranked registered presenter.
	Presenter string `toml:"presenter"`

	BackgroundLayer  int     `toml:"background_layer"`
	TextureCacheSize int     `toml:"texture_cache_size"`
	GlyphCacheSize   int     `toml:"glyph_cache_size"`
	FontSize         float64 `toml:"font_size"`
}

// ViewportConfig is the TOML form of a viewport rectangle.
type ViewportConfig struct {
	X      int `toml:"x"`
	Y      int `toml:"y"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Rect returns the viewport as a geom.Rect.
func (v ViewportConfig) Rect() geom.Rect {
	return geom.Rect{X: v.X, Y: v.Y, W: v.Width, H: v.Height}
}

// IsZero reports whether the viewport was left unset.
func (v ViewportConfig) IsZero() bool {
	return v == ViewportConfig{}
}

// KeyingConfig is the TOML form of raster.Keying.
type KeyingConfig struct {
	Mode      string `toml:"mode"`
	Color     Color  `toml:"color"`
	Threshold uint8  `toml:"threshold"`
}

// Keying converts the config to raster.Keying.
func (k KeyingConfig) Keying() (raster.Keying, error) {
	mode, err := raster.ParseKeyMode(k.Mode)
	if err != nil {
		return raster.Keying{}, err
	}
	return raster.Keying{Mode: mode, Color: color.RGBA(k.Color), Threshold: k.Threshold}, nil
}

// Color is a color.RGBA written as "#rrggbb" or "#rrggbbaa" in text form.
type Color color.RGBA

// RGBA returns c as a color.RGBA.
func (c Color) RGBA() color.RGBA { return color.RGBA(c) }

// UnmarshalText parses a hex color. The leading '#' is optional and a
// missing alpha reads as opaque.
func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.TrimSpace(string(text)), "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("sprite: color %q: want #rrggbb or #rrggbbaa", text)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("sprite: color %q: %w", text, err)
	}
	*c = Color{R: b[0], G: b[1], B: b[2], A: 255}
	if len(b) == 4 {
		c.A = b[3]
	}
	return nil
}

// MarshalText writes c as "#rrggbbaa".
func (c Color) MarshalText() ([]byte, error) {
	return []byte("#" + hex.EncodeToString([]byte{c.R, c.G, c.B, c.A})), nil
}

// DefaultConfig returns a 640x480 RGB configuration presenting to an
// in-memory image.
func DefaultConfig() Config {
	return Config{
		Width:            640,
		Height:           480,
		TileSize:         render.DefaultTileSize,
		ChunkRows:        raster.DefaultChunkRows,
		Format:           "rgb",
		BoundsCheck:      true,
		Keying:           KeyingConfig{Mode: raster.DefaultKeying.Mode.String(), Threshold: raster.DefaultKeying.Threshold},
		ClearColor:       Color{A: 255},
		Presenter:        present.NameImage,
		BackgroundLayer:  render.DefaultBackgroundLayer,
		TextureCacheSize: 128,
		GlyphCacheSize:   256,
		FontSize:         16,
	}
}

// ParseConfig decodes TOML data over DefaultConfig and validates the
// result. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return Config{}, fmt.Errorf("sprite: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the TOML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Config{}, fmt.Errorf("sprite: load config: %w", err)
	}
	return ParseConfig(data)
}

// Encode writes cfg as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// PixelFormat returns the frame buffer format named by Format.
func (c Config) PixelFormat() (pixel.Format, error) {
	switch strings.ToLower(c.Format) {
	case "", "rgb", "rgb8":
		return pixel.FormatRGB8, nil
	case "rgba", "rgba8":
		return pixel.FormatRGBA8, nil
	default:
		return 0, &ConfigError{Field: "format", Reason: fmt.Sprintf("unknown format %q", c.Format)}
	}
}

// Validate checks every field and returns the first problem as a
// *ConfigError.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return &ConfigError{Field: "width/height", Reason: fmt.Sprintf("must be positive, got %dx%d", c.Width, c.Height)}
	}
	if !c.Viewport.IsZero() {
		vp := c.Viewport.Rect()
		if vp.W <= 0 || vp.H <= 0 {
			return &ConfigError{Field: "viewport", Reason: "width and height must be positive"}
		}
		if vp.Intersect(geom.Rect{W: c.Width, H: c.Height}).Empty() {
			return &ConfigError{Field: "viewport", Reason: "lies outside the buffer"}
		}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Reason: "must not be negative"}
	}
	if c.TileSize <= 0 {
		return &ConfigError{Field: "tile_size", Reason: "must be positive"}
	}
	if c.ChunkRows < 0 {
		return &ConfigError{Field: "chunk_rows", Reason: "must not be negative"}
	}
	if _, err := c.PixelFormat(); err != nil {
		return err
	}
	if _, err := c.Keying.Keying(); err != nil {
		return &ConfigError{Field: "keying.mode", Reason: err.Error()}
	}
	if c.TextureCacheSize < 0 || c.GlyphCacheSize < 0 {
		return &ConfigError{Field: "cache_size", Reason: "must not be negative"}
	}
	if c.FontSize <= 0 {
		return &ConfigError{Field: "font_size", Reason: "must be positive"}
	}
	return nil
}
