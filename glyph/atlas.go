// Package glyph rasterizes font glyphs into textures for on-screen labels.
//
// An Atlas renders each rune once, as an RGBA texture whose color is the
// atlas color and whose alpha is the glyph coverage, and keeps the result in
// an LRU cache. Labels are laid out left to right using the font's advances
// and kerning; there is no shaping.
package glyph

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/sprite/geom"
	"github.com/gogpu/sprite/internal/cache"
	"github.com/gogpu/sprite/pixel"
)

// DefaultCacheSize is the number of glyphs an Atlas keeps by default.
const DefaultCacheSize = 256

// Glyph is one rendered rune.
type Glyph struct {
	Rune rune

	// Texture is nil for glyphs with no ink, such as space.
	Texture *pixel.Texture

	// Bearing is the offset from the pen position on the baseline to the
	// top-left corner of Texture.
	Bearing geom.Vec2

	// Advance is the horizontal pen movement in pixels.
	Advance float64
}

type entry struct {
	glyph Glyph
	ok    bool
}

// Option configures an Atlas.
type Option func(*Atlas)

// WithColor sets the ink color of rendered glyphs. The default is white.
func WithColor(c color.RGBA) Option {
	return func(a *Atlas) {
		a.color = c
	}
}

// WithCacheSize bounds the number of cached glyphs.
func WithCacheSize(n int) Option {
	return func(a *Atlas) {
		a.cacheSize = n
	}
}

// Atlas renders and caches glyphs of a single face.
//
// Thread safety: Atlas is safe for concurrent use.
type Atlas struct {
	face      font.Face
	metrics   font.Metrics
	color     color.RGBA
	cacheSize int
	glyphs    *cache.Cache[rune, entry]

	// faceMu guards face; font.Face is not safe for concurrent use.
	faceMu sync.Mutex
}

// NewAtlas wraps face. The Atlas takes ownership and closes it in Close.
func NewAtlas(face font.Face, opts ...Option) *Atlas {
	a := &Atlas{
		face:      face,
		metrics:   face.Metrics(),
		color:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.glyphs = cache.New[rune, entry](a.cacheSize)
	return a
}

// NewAtlasFromTTF parses a TrueType or OpenType font and renders it at size
// pixels per em.
func NewAtlasFromTTF(data []byte, size float64, opts ...Option) (*Atlas, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font: %w", err)
	}
	return newAtlasFromFont(f, size, opts...)
}

var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// DefaultAtlas returns an Atlas for the Go Regular font at size pixels per em.
func DefaultAtlas(size float64, opts ...Option) (*Atlas, error) {
	f, err := goRegular()
	if err != nil {
		return nil, fmt.Errorf("glyph: parse go regular: %w", err)
	}
	return newAtlasFromFont(f, size, opts...)
}

func newAtlasFromFont(f *opentype.Font, size float64, opts ...Option) (*Atlas, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("glyph: new face: %w", err)
	}
	return NewAtlas(face, opts...), nil
}

// Color returns the ink color.
func (a *Atlas) Color() color.RGBA { return a.color }

// Ascent returns the distance from the top of a line to its baseline.
func (a *Atlas) Ascent() float64 { return fixedToFloat(a.metrics.Ascent) }

// LineHeight returns the distance between consecutive baselines.
func (a *Atlas) LineHeight() float64 { return fixedToFloat(a.metrics.Height) }

// Len returns the number of cached glyphs.
func (a *Atlas) Len() int { return a.glyphs.Len() }

// Glyph returns the rendered glyph for r. It reports false when the face
// cannot render r.
func (a *Atlas) Glyph(r rune) (Glyph, bool) {
	e, _ := a.glyphs.GetOrCreate(r, func() (entry, error) {
		return a.render(r), nil
	})
	return e.glyph, e.ok
}

// render draws r into a fresh texture.
func (a *Atlas) render(r rune) entry {
	a.faceMu.Lock()
	defer a.faceMu.Unlock()

	dr, mask, maskp, advance, ok := a.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return entry{}
	}
	g := Glyph{
		Rune:    r,
		Bearing: geom.V2(float64(dr.Min.X), float64(dr.Min.Y)),
		Advance: fixedToFloat(advance),
	}
	if dr.Empty() {
		return entry{glyph: g, ok: true}
	}

	// The face reuses its mask between calls, so copy coverage out now.
	w, h := dr.Dx(), dr.Dy()
	data := make([]byte, w*h*4)
	for y := range h {
		for x := range w {
			_, _, _, cov := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			if cov == 0 {
				continue
			}
			i := (y*w + x) * 4
			data[i] = a.color.R
			data[i+1] = a.color.G
			data[i+2] = a.color.B
			data[i+3] = uint8(cov >> 8)
		}
	}
	tex, err := pixel.NewTexture(w, h, 0, pixel.FormatRGBA8, data)
	if err != nil {
		return entry{}
	}
	g.Texture = tex
	return entry{glyph: g, ok: true}
}

// Kern returns the kerning adjustment between two adjacent runes.
func (a *Atlas) Kern(prev, next rune) float64 {
	a.faceMu.Lock()
	defer a.faceMu.Unlock()
	return fixedToFloat(a.face.Kern(prev, next))
}

// Measure returns the size of s laid out with Layout: the widest line by
// the number of lines times the line height.
func (a *Atlas) Measure(s string) geom.Vec2 {
	if s == "" {
		return geom.Vec2{}
	}
	var width float64
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		width = max(width, a.lineWidth(line))
	}
	return geom.V2(width, float64(len(lines))*a.LineHeight())
}

func (a *Atlas) lineWidth(line string) float64 {
	var w float64
	prev := rune(-1)
	for _, r := range line {
		if prev >= 0 {
			w += a.Kern(prev, r)
		}
		if g, ok := a.Glyph(r); ok {
			w += g.Advance
		}
		prev = r
	}
	return w
}

// Placed is a glyph positioned relative to the layout origin.
type Placed struct {
	Glyph
	// Pos is the top-left corner of the glyph texture.
	Pos geom.Vec2
}

// Layout positions the inked glyphs of s. The origin is the top-left corner
// of the first line; lines are separated by "\n".
func (a *Atlas) Layout(s string) []Placed {
	var out []Placed
	pen := geom.V2(0, a.Ascent())
	prev := rune(-1)
	for _, r := range s {
		if r == '\n' {
			pen = geom.V2(0, pen.Y+a.LineHeight())
			prev = -1
			continue
		}
		if prev >= 0 {
			pen.X += a.Kern(prev, r)
		}
		prev = r

		g, ok := a.Glyph(r)
		if !ok {
			continue
		}
		if g.Texture != nil {
			out = append(out, Placed{Glyph: g, Pos: pen.Add(g.Bearing)})
		}
		pen.X += g.Advance
	}
	return out
}

// Close releases the face.
func (a *Atlas) Close() error {
	a.glyphs.Clear()
	if c, ok := a.face.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Image renders s onto a transparent *image.RGBA, for previews and tests.
func (a *Atlas) Image(s string) *image.RGBA {
	size := a.Measure(s)
	img := image.NewRGBA(image.Rect(0, 0, int(size.X+0.5), int(size.Y+0.5)))
	for _, p := range a.Layout(s) {
		x0, y0 := p.Pos.Floor()
		tw, th := p.Texture.Size()
		for y := range th {
			for x := range tw {
				c := p.Texture.TexelUnchecked(x, y)
				if c.A == 0 {
					continue
				}
				img.SetRGBA(x0+x, y0+y, c)
			}
		}
	}
	return img
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
