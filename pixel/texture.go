package pixel

import "image/color"

// Texture is an immutable, pre-scaled source image.
//
// Textures reach the rasterizer already resized to their final on-screen
// pixel size. Texture never copies or mutates its data after construction,
// so one texture may be sampled by any number of goroutines.
type Texture struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewTexture wraps data as a texture without copying. Stride must be at
// least format.RowBytes(width); zero means tightly packed.
func NewTexture(width, height, stride int, format Format, data []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if stride == 0 {
		stride = format.RowBytes(width)
	}
	if stride < format.RowBytes(width) {
		return nil, ErrInvalidStride
	}
	need := stride*(height-1) + format.RowBytes(width)
	if len(data) < need {
		return nil, ErrDataTooSmall
	}
	return &Texture{
		data:   data,
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Width returns the width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the height in texels.
func (t *Texture) Height() int { return t.height }

// Stride returns the row stride in bytes.
func (t *Texture) Stride() int { return t.stride }

// Format returns the texel format.
func (t *Texture) Format() Format { return t.format }

// Size returns width and height.
func (t *Texture) Size() (int, int) { return t.width, t.height }

// Texel returns the texel at (x, y) expanded to RGBA. Gray channels are
// replicated and formats without alpha read as opaque. Out of range
// coordinates return transparent black.
func (t *Texture) Texel(x, y int) color.RGBA {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return color.RGBA{}
	}
	return t.TexelUnchecked(x, y)
}

// TexelUnchecked is Texel without the bounds check.
func (t *Texture) TexelUnchecked(x, y int) color.RGBA {
	i := y*t.stride + x*formatInfo[t.format].bpp
	p := t.data[i:]
	switch t.format {
	case FormatGray8:
		return color.RGBA{R: p[0], G: p[0], B: p[0], A: 255}
	case FormatGrayAlpha8:
		return color.RGBA{R: p[0], G: p[0], B: p[0], A: p[1]}
	case FormatRGB8:
		return color.RGBA{R: p[0], G: p[1], B: p[2], A: 255}
	default:
		return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
}
