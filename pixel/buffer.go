package pixel

import (
	"image"
	"image/color"
)

// RowAlignment is the byte alignment of frame buffer rows. It matches the
// WebGPU requirement on BytesPerRow for buffer-to-texture copies, so a
// presented frame can be uploaded without repacking.
const RowAlignment = 256

// AlignPitch rounds rowBytes up to a multiple of RowAlignment.
func AlignPitch(rowBytes int) int {
	return (rowBytes + RowAlignment - 1) / RowAlignment * RowAlignment
}

// Buffer is a CPU-side frame buffer with a padded row pitch.
//
// Thread safety: Buffer has no internal locking. Concurrent writers are
// safe only when they touch disjoint rows, which is how the parallel
// rasterization path partitions work.
type Buffer struct {
	data   []byte
	width  int
	height int
	pitch  int
	format Format
}

// NewBuffer allocates a zeroed buffer. The row pitch is the packed row size
// rounded up to RowAlignment.
func NewBuffer(width, height int, format Format) (*Buffer, error) {
	if !format.IsFrameFormat() {
		return nil, ErrInvalidFormat
	}
	return NewBufferWithPitch(width, height, format, AlignPitch(format.RowBytes(width)))
}

// NewBufferWithPitch allocates a zeroed buffer with an explicit row pitch.
func NewBufferWithPitch(width, height int, format Format, pitch int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsFrameFormat() {
		return nil, ErrInvalidFormat
	}
	if pitch < format.RowBytes(width) {
		return nil, ErrInvalidStride
	}
	return &Buffer{
		data:   make([]byte, pitch*height),
		width:  width,
		height: height,
		pitch:  pitch,
		format: format,
	}, nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// Pitch returns the byte distance between the starts of consecutive rows.
func (b *Buffer) Pitch() int { return b.pitch }

// Format returns the pixel format.
func (b *Buffer) Format() Format { return b.format }

// Data returns the raw backing slice, padding included.
func (b *Buffer) Data() []byte { return b.data }

// Bounds returns the buffer rectangle in pixels.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Row returns the packed pixel bytes of row y, or nil when y is out of range.
func (b *Buffer) Row(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.pitch
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Offset returns the byte offset of pixel (x, y), or -1 if out of bounds.
func (b *Buffer) Offset(x, y int) int {
	if !b.InBounds(x, y) {
		return -1
	}
	return y*b.pitch + x*b.format.BytesPerPixel()
}

// Set writes c at (x, y). Out of bounds writes return ErrOutOfBounds and
// leave the buffer untouched.
func (b *Buffer) Set(x, y int, c color.RGBA) error {
	if !b.InBounds(x, y) {
		return ErrOutOfBounds
	}
	b.SetUnchecked(x, y, c)
	return nil
}

// SetUnchecked writes c at (x, y) without checking bounds. Callers must have
// clipped (x, y) to the buffer already.
func (b *Buffer) SetUnchecked(x, y int, c color.RGBA) {
	i := y*b.pitch + x*b.format.BytesPerPixel()
	b.data[i] = c.R
	b.data[i+1] = c.G
	b.data[i+2] = c.B
	if b.format == FormatRGBA8 {
		b.data[i+3] = c.A
	}
}

// At returns the color at (x, y). RGB8 pixels read back with A = 255.
func (b *Buffer) At(x, y int) (color.RGBA, error) {
	if !b.InBounds(x, y) {
		return color.RGBA{}, ErrOutOfBounds
	}
	i := y*b.pitch + x*b.format.BytesPerPixel()
	c := color.RGBA{R: b.data[i], G: b.data[i+1], B: b.data[i+2], A: 255}
	if b.format == FormatRGBA8 {
		c.A = b.data[i+3]
	}
	return c, nil
}

// Clear zeroes the whole buffer, padding included.
func (b *Buffer) Clear() {
	clear(b.data)
}

// Fill sets every pixel to c. Padding bytes are zeroed.
func (b *Buffer) Fill(c color.RGBA) {
	if c == (color.RGBA{}) {
		b.Clear()
		return
	}

	// Fill the first row, then copy it to every other row.
	first := b.data[:b.pitch]
	clear(first)
	for x := range b.width {
		b.SetUnchecked(x, 0, c)
	}
	for y := 1; y < b.height; y++ {
		copy(b.data[y*b.pitch:(y+1)*b.pitch], first)
	}
}

// Resize reallocates the buffer for new dimensions. Contents are cleared.
// Resizing to the current dimensions only clears.
func (b *Buffer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if width == b.width && height == b.height {
		b.Clear()
		return nil
	}
	pitch := AlignPitch(b.format.RowBytes(width))
	b.data = make([]byte, pitch*height)
	b.width = width
	b.height = height
	b.pitch = pitch
	return nil
}

// ToImage copies the buffer into a new opaque *image.RGBA.
func (b *Buffer) ToImage() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	bpp := b.format.BytesPerPixel()
	for y := range b.height {
		src := b.Row(y)
		dst := img.Pix[y*img.Stride : y*img.Stride+b.width*4]
		for x := range b.width {
			s := src[x*bpp:]
			d := dst[x*4:]
			d[0], d[1], d[2] = s[0], s[1], s[2]
			d[3] = 255
			if bpp == 4 {
				d[3] = s[3]
			}
		}
	}
	return img
}
