// Package texture turns images into pre-scaled pixel textures.
//
// The rasterizer samples one texel per grid cell and never filters, so
// textures must already have their on-screen size. FromImage does that
// resize once, with bilinear filtering, when the texture is created.
package texture

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/sprite/pixel"
)

// ErrNotFound is returned when a texture source does not exist.
var ErrNotFound = errors.New("texture: not found")

// FromImage converts img into an RGBA8 texture of width×height texels.
// A non-positive width or height keeps the image's own size. Alpha is
// stored straight, not premultiplied.
func FromImage(img image.Image, width, height int) (*pixel.Texture, error) {
	src := img.Bounds()
	if width <= 0 || height <= 0 {
		width, height = src.Dx(), src.Dy()
	}
	if width <= 0 || height <= 0 {
		return nil, pixel.ErrInvalidDimensions
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	if width == src.Dx() && height == src.Dy() {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	} else {
		draw.BiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	}
	return pixel.NewTexture(width, height, dst.Stride, pixel.FormatRGBA8, dst.Pix)
}

// Solid returns a width×height texture filled with c.
func Solid(width, height int, c color.RGBA) (*pixel.Texture, error) {
	return generate(width, height, func(int, int) color.RGBA { return c })
}

// Checker returns a checkerboard of cell×cell squares alternating a and b,
// starting with a in the top-left corner.
func Checker(width, height, cell int, a, b color.RGBA) (*pixel.Texture, error) {
	cell = max(cell, 1)
	return generate(width, height, func(x, y int) color.RGBA {
		if (x/cell+y/cell)%2 == 0 {
			return a
		}
		return b
	})
}

func generate(width, height int, at func(x, y int) color.RGBA) (*pixel.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, pixel.ErrInvalidDimensions
	}
	data := make([]byte, width*height*4)
	for y := range height {
		for x := range width {
			c := at(x, y)
			i := (y*width + x) * 4
			data[i], data[i+1], data[i+2], data[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return pixel.NewTexture(width, height, 0, pixel.FormatRGBA8, data)
}
