package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/gogpu/sprite/pixel"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func mustTexture(t *testing.T) func(*pixel.Texture, error) *pixel.Texture {
	return func(tex *pixel.Texture, err error) *pixel.Texture {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return tex
	}
}

func TestFromImageSameSize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	tex := mustTexture(t)(FromImage(img, 0, 0))
	if tex.Format() != pixel.FormatRGBA8 {
		t.Errorf("Format() = %v, want RGBA8", tex.Format())
	}
	if w, h := tex.Size(); w != 3 || h != 2 {
		t.Errorf("Size() = %dx%d, want 3x2", w, h)
	}
	// Alpha stays straight.
	if got, want := tex.Texel(1, 1), (color.RGBA{R: 10, G: 20, B: 30, A: 40}); got != want {
		t.Errorf("Texel(1, 1) = %v, want %v", got, want)
	}
}

func TestFromImageScales(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 14, 14))
	for y := 10; y < 14; y++ {
		for x := 10; x < 14; x++ {
			img.SetRGBA(x, y, red)
		}
	}

	tex := mustTexture(t)(FromImage(img, 16, 8))
	if w, h := tex.Size(); w != 16 || h != 8 {
		t.Errorf("Size() = %dx%d, want 16x8", w, h)
	}
	if got := tex.Texel(8, 4); got != red {
		t.Errorf("Texel(8, 4) = %v, want %v", got, red)
	}
}

func TestFromImageEmpty(t *testing.T) {
	if _, err := FromImage(image.NewRGBA(image.Rectangle{}), 0, 0); !errors.Is(err, pixel.ErrInvalidDimensions) {
		t.Errorf("FromImage(empty) = %v, want ErrInvalidDimensions", err)
	}
}

func TestSolidAndChecker(t *testing.T) {
	tex := mustTexture(t)(Solid(2, 2, red))
	if got := tex.Texel(1, 1); got != red {
		t.Errorf("Solid Texel(1, 1) = %v, want %v", got, red)
	}

	chk := mustTexture(t)(Checker(4, 4, 2, red, blue))
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, red},
		{1, 1, red},
		{2, 0, blue},
		{0, 3, blue},
		{3, 3, red},
	}
	for _, tt := range tests {
		if got := chk.Texel(tt.x, tt.y); got != tt.want {
			t.Errorf("Checker Texel(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	if _, err := Solid(0, 1, red); !errors.Is(err, pixel.ErrInvalidDimensions) {
		t.Errorf("Solid(0, 1) = %v, want ErrInvalidDimensions", err)
	}
}

func TestCacheLoad(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, blue)
	fsys := fstest.MapFS{
		"tiles/grass.png": {Data: pngBytes(t, img)},
		"broken.png":      {Data: []byte("nope")},
	}

	c := NewCache(4)
	tex := mustTexture(t)(c.Load(fsys, "tiles/grass.png", 4, 4))
	if tex.Width() != 4 {
		t.Errorf("Width() = %d, want 4", tex.Width())
	}

	if again := mustTexture(t)(c.Load(fsys, "tiles/grass.png", 4, 4)); again != tex {
		t.Error("second Load decoded again instead of hitting the cache")
	}

	native := mustTexture(t)(c.Load(fsys, "tiles/grass.png", 0, 0))
	if got := native.Texel(0, 0); got != blue {
		t.Errorf("native Texel(0, 0) = %v, want %v", got, blue)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (one entry per size)", c.Len())
	}

	if _, err := c.Load(fsys, "missing.png", 0, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) = %v, want ErrNotFound", err)
	}

	_, err := c.Load(fsys, "broken.png", 0, 0)
	if err == nil {
		t.Fatal("Load(broken) succeeded")
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(broken) = %v, want a decode error", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d after a failed load, want 2 (failures are not cached)", c.Len())
	}
}

func TestCacheGetPut(t *testing.T) {
	c := NewCache(1)
	a, _ := Solid(1, 1, red)
	b, _ := Solid(1, 1, blue)

	c.Put("a", a)
	if got, ok := c.Get("a"); !ok || got != a {
		t.Fatalf("Get(a) = %p, %v; want %p", got, ok, a)
	}

	c.Put("b", b)
	if _, ok := c.Get("a"); ok {
		t.Error("a not evicted at capacity 1")
	}
	if ev := c.Stats().Evictions; ev != 1 {
		t.Errorf("Evictions = %d, want 1", ev)
	}

	if !c.Delete("b") {
		t.Error("Delete(b) = false")
	}
	c.Put("a", a)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestCacheDefaultSize(t *testing.T) {
	if got := NewCache(0).Stats().Capacity; got != DefaultCacheSize {
		t.Errorf("Capacity = %d, want %d", got, DefaultCacheSize)
	}
}
