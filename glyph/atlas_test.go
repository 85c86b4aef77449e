package glyph

import (
	"image/color"
	"math"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func newAtlas(t *testing.T, opts ...Option) *Atlas {
	t.Helper()
	a, err := DefaultAtlas(16, opts...)
	if err != nil {
		t.Fatalf("DefaultAtlas: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAtlasGlyph(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	a := newAtlas(t, WithColor(red))

	g, ok := a.Glyph('H')
	if !ok || g.Texture == nil {
		t.Fatalf("Glyph('H') = %+v, %v; want a texture", g, ok)
	}
	if g.Rune != 'H' {
		t.Errorf("Rune = %q, want 'H'", g.Rune)
	}
	if g.Advance <= 0 {
		t.Errorf("Advance = %v, want > 0", g.Advance)
	}
	if g.Bearing.Y >= 0 {
		t.Errorf("Bearing.Y = %v, want < 0 (H sits above the baseline)", g.Bearing.Y)
	}

	// Inked texels carry the atlas color; blank ones are fully transparent.
	var inked int
	w, h := g.Texture.Size()
	for y := range h {
		for x := range w {
			c := g.Texture.Texel(x, y)
			if c.A == 0 {
				if c != (color.RGBA{}) {
					t.Errorf("blank texel (%d,%d) = %v, want zero", x, y, c)
				}
				continue
			}
			inked++
			if c.R != red.R || c.G != 0 {
				t.Errorf("inked texel (%d,%d) = %v, want atlas color", x, y, c)
			}
		}
	}
	if inked == 0 {
		t.Error("glyph has no inked texels")
	}
}

func TestAtlasSpaceHasNoTexture(t *testing.T) {
	a := newAtlas(t)

	g, ok := a.Glyph(' ')
	if !ok {
		t.Fatal("Glyph(' ') ok = false")
	}
	if g.Texture != nil {
		t.Error("space should have no texture")
	}
	if g.Advance <= 0 {
		t.Errorf("Advance = %v, want > 0", g.Advance)
	}
}

func TestAtlasCaches(t *testing.T) {
	a := newAtlas(t, WithCacheSize(2))

	g1, _ := a.Glyph('x')
	g2, _ := a.Glyph('x')
	if g1.Texture != g2.Texture {
		t.Error("second lookup rendered a new texture")
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}

	a.Glyph('y')
	a.Glyph('z')
	if a.Len() != 2 {
		t.Errorf("Len() = %d after overflow, want 2", a.Len())
	}
}

func TestAtlasMeasure(t *testing.T) {
	a := newAtlas(t)

	if got := a.Measure(""); got.X != 0 || got.Y != 0 {
		t.Errorf("Measure(\"\") = %v, want zero", got)
	}

	one := a.Measure("ab")
	two := a.Measure("ab\na")
	if one.X <= 0 {
		t.Errorf("Measure(\"ab\").X = %v, want > 0", one.X)
	}
	if math.Abs(one.Y-a.LineHeight()) > 1e-9 {
		t.Errorf("Measure(\"ab\").Y = %v, want %v", one.Y, a.LineHeight())
	}
	// The widest line wins.
	if math.Abs(two.X-one.X) > 1e-9 {
		t.Errorf("two-line width = %v, want %v", two.X, one.X)
	}
	if math.Abs(two.Y-2*a.LineHeight()) > 1e-9 {
		t.Errorf("two-line height = %v, want %v", two.Y, 2*a.LineHeight())
	}
}

func TestAtlasLayout(t *testing.T) {
	a := newAtlas(t)

	placed := a.Layout("a b\nc")
	if len(placed) != 3 {
		t.Fatalf("Layout placed %d glyphs, want 3 (space has no ink)", len(placed))
	}
	for i, want := range []rune{'a', 'b', 'c'} {
		if placed[i].Rune != want {
			t.Errorf("placed[%d].Rune = %q, want %q", i, placed[i].Rune, want)
		}
	}
	if placed[1].Pos.X <= placed[0].Pos.X {
		t.Error("'b' should follow 'a'")
	}
	if placed[2].Pos.Y <= placed[0].Pos.Y {
		t.Error("'c' should be on the next line")
	}
	if placed[2].Pos.X >= placed[1].Pos.X {
		t.Error("'c' should start back at the left margin")
	}
}

func TestAtlasImage(t *testing.T) {
	a := newAtlas(t)

	img := a.Image("Hi")
	if img == nil || img.Rect.Empty() {
		t.Fatalf("Image(\"Hi\") = %v, want a non-empty image", img)
	}

	var ink int
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			ink++
		}
	}
	if ink == 0 {
		t.Error("image has no ink")
	}
}

func TestNewAtlasFromTTF(t *testing.T) {
	a, err := NewAtlasFromTTF(goregular.TTF, 12)
	if err != nil {
		t.Fatalf("NewAtlasFromTTF: %v", err)
	}
	defer a.Close()
	if a.LineHeight() <= 0 || a.Ascent() <= 0 {
		t.Errorf("LineHeight() = %v, Ascent() = %v, want both > 0", a.LineHeight(), a.Ascent())
	}

	if _, err := NewAtlasFromTTF([]byte("not a font"), 12); err == nil {
		t.Error("NewAtlasFromTTF(garbage) should fail")
	}
}

func TestAtlasConcurrent(t *testing.T) {
	a := newAtlas(t)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, r := range "The quick brown fox" {
				a.Glyph(r)
			}
			a.Measure("jumps over")
		}()
	}
	wg.Wait()
}
