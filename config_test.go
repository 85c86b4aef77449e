package sprite

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/pixel"
	"github.com/gogpu/sprite/raster"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	k, err := cfg.Keying.Keying()
	if err != nil {
		t.Fatalf("Keying() = %v", err)
	}
	if k != raster.DefaultKeying {
		t.Errorf("Keying() = %+v, want %+v", k, raster.DefaultKeying)
	}

	f, err := cfg.PixelFormat()
	if err != nil {
		t.Fatalf("PixelFormat() = %v", err)
	}
	if f != pixel.FormatRGB8 {
		t.Errorf("PixelFormat() = %v, want RGB8", f)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
width = 320
height = 200
workers = 3
tile_size = 16
format = "rgba"
clear_color = "#102030"

[viewport]
x = 10
y = 20
width = 100
height = 50

[keying]
mode = "color"
color = "#ff00ff"
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() = %v", err)
	}

	if cfg.Width != 320 || cfg.Height != 200 {
		t.Errorf("size = %dx%d, want 320x200", cfg.Width, cfg.Height)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
	if cfg.TileSize != 16 {
		t.Errorf("TileSize = %v, want 16", cfg.TileSize)
	}
	if got, want := cfg.Viewport.Rect(), (geom.Rect{X: 10, Y: 20, W: 100, H: 50}); got != want {
		t.Errorf("Viewport.Rect() = %v, want %v", got, want)
	}
	if got, want := cfg.ClearColor.RGBA(), (color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}); got != want {
		t.Errorf("ClearColor = %v, want %v", got, want)
	}

	f, err := cfg.PixelFormat()
	if err != nil || f != pixel.FormatRGBA8 {
		t.Errorf("PixelFormat() = %v, %v; want RGBA8", f, err)
	}

	k, err := cfg.Keying.Keying()
	if err != nil {
		t.Fatalf("Keying() = %v", err)
	}
	if k.Mode != raster.KeyColor {
		t.Errorf("Keying mode = %v, want color", k.Mode)
	}
	if want := (color.RGBA{R: 255, B: 255, A: 255}); k.Color != want {
		t.Errorf("Keying color = %v, want %v", k.Color, want)
	}

	// Untouched fields keep their defaults.
	def := DefaultConfig()
	if cfg.ChunkRows != def.ChunkRows {
		t.Errorf("ChunkRows = %d, want default %d", cfg.ChunkRows, def.ChunkRows)
	}
	if cfg.Presenter != def.Presenter {
		t.Errorf("Presenter = %q, want default %q", cfg.Presenter, def.Presenter)
	}
	if !cfg.BoundsCheck {
		t.Error("BoundsCheck = false, want default true")
	}
}

func TestParseConfigUnknownKey(t *testing.T) {
	_, err := ParseConfig([]byte("widht = 10\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseConfig(unknown key) = %v, want ErrInvalidConfig", err)
	}
}

func TestParseConfigSyntaxError(t *testing.T) {
	_, err := ParseConfig([]byte("width = = 3"))
	if err == nil {
		t.Fatal("ParseConfig(bad syntax) succeeded")
	}
	if errors.Is(err, ErrInvalidConfig) {
		t.Errorf("syntax error %v wraps ErrInvalidConfig", err)
	}
}

func TestParseConfigBadColor(t *testing.T) {
	for _, in := range []string{`clear_color = "#12345"`, `clear_color = "#zzzzzz"`} {
		if _, err := ParseConfig([]byte(in)); err == nil {
			t.Errorf("ParseConfig(%s) succeeded", in)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "width/height"},
		{"negative height", func(c *Config) { c.Height = -1 }, "width/height"},
		{"empty viewport", func(c *Config) { c.Viewport = ViewportConfig{X: 1, Y: 1} }, "viewport"},
		{"viewport outside", func(c *Config) { c.Viewport = ViewportConfig{X: 5000, Width: 10, Height: 10} }, "viewport"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"zero tile", func(c *Config) { c.TileSize = 0 }, "tile_size"},
		{"negative chunk", func(c *Config) { c.ChunkRows = -2 }, "chunk_rows"},
		{"gray format", func(c *Config) { c.Format = "gray" }, "format"},
		{"bad key mode", func(c *Config) { c.Keying.Mode = "chroma" }, "keying.mode"},
		{"negative cache", func(c *Config) { c.GlyphCacheSize = -1 }, "cache_size"},
		{"zero font", func(c *Config) { c.FontSize = 0 }, "font_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}

			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %T, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestConfigEmptyPresenterValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Presenter = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with no presenter = %v, want nil", err)
	}
}

func TestConfigEncodeRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClearColor = Color{R: 1, G: 2, B: 3, A: 4}
	cfg.Viewport = ViewportConfig{Width: 100, Height: 100}

	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	if !strings.Contains(string(data), "#01020304") {
		t.Errorf("encoded config lacks the clear color:\n%s", data)
	}

	got, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig(encoded) = %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprite.toml")
	if err := os.WriteFile(path, []byte("width = 64\nheight = 48\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("size = %dx%d, want 64x48", cfg.Width, cfg.Height)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestColorText(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"80ff00", Color{R: 0x80, G: 0xff, A: 255}},
		{" #0000ff80 ", Color{B: 0xff, A: 0x80}},
	}
	for _, tt := range tests {
		var c Color
		if err := c.UnmarshalText([]byte(tt.in)); err != nil {
			t.Errorf("UnmarshalText(%q) = %v", tt.in, err)
			continue
		}
		if c != tt.want {
			t.Errorf("UnmarshalText(%q) = %+v, want %+v", tt.in, c, tt.want)
		}
	}

	text, err := Color{B: 0xff, A: 0x80}.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() = %v", err)
	}
	if string(text) != "#0000ff80" {
		t.Errorf("MarshalText() = %q, want #0000ff80", text)
	}
}
