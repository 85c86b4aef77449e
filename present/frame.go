// Package present is the boundary between the CPU rasterizer and whatever
// displays its output.
//
// Once per frame the rasterizer hands a Frame (pixel pointer plus row pitch)
// to a Presenter. The package ships presenters that keep the frame as an
// image, discard it, or upload it through the gpucontext texture interfaces
// implemented by GPU host applications. The rasterizer itself never touches
// a graphics API.
package present

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/sprite/pixel"
)

// Frame is one rasterized frame. Pixels aliases the rasterizer's buffer and
// is only valid for the duration of the Present call.
type Frame struct {
	// Pixels is the raw buffer, Pitch bytes per row, padding included.
	Pixels []byte

	// Width and Height are the frame dimensions in pixels.
	Width, Height int

	// Pitch is the byte distance between consecutive rows.
	Pitch int

	// Format is the pixel format of Pixels (RGB8 or RGBA8).
	Format pixel.Format

	// Sequence numbers frames from 1 in presentation order.
	Sequence uint64
}

// FrameOf builds a Frame aliasing buf.
func FrameOf(buf *pixel.Buffer, seq uint64) Frame {
	return Frame{
		Pixels:   buf.Data(),
		Width:    buf.Width(),
		Height:   buf.Height(),
		Pitch:    buf.Pitch(),
		Format:   buf.Format(),
		Sequence: seq,
	}
}

// Layout describes Pixels for a buffer-to-texture copy.
// BytesPerRow is the pitch, which the pixel package aligns to 256 bytes.
func (f Frame) Layout() gputypes.TextureDataLayout {
	return gputypes.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(f.Pitch),  //nolint:gosec // pitch is positive and bounded by allocation size
		RowsPerImage: uint32(f.Height), //nolint:gosec // height is positive
	}
}

// Extent returns the frame size as a 2D texture extent.
func (f Frame) Extent() gputypes.Extent3D {
	return gputypes.NewExtent2D(uint32(f.Width), uint32(f.Height)) //nolint:gosec // dimensions are positive
}

// TextureFormat returns the GPU texture format matching Pixels.
// RGB8 has no WebGPU equivalent and reports TextureFormatUndefined; such
// frames must be expanded with AppendRGBA before upload.
func (f Frame) TextureFormat() gputypes.TextureFormat {
	if f.Format == pixel.FormatRGBA8 {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatUndefined
}

// TextureDescriptor returns a descriptor for a sampled texture able to
// receive this frame after RGBA expansion.
func (f Frame) TextureDescriptor(label string) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         label,
		Size:          f.Extent(),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
	}
}

// Tight reports whether Pixels already holds the frame as packed RGBA8
// rows, so it can be uploaded without repacking.
func (f Frame) Tight() bool {
	ext := f.Extent()
	return f.TextureFormat() == gputypes.TextureFormatRGBA8Unorm &&
		f.Layout().BytesPerRow == ext.Width*4
}

// RGBA returns the frame as packed RGBA. Tight frames are returned as a
// view of Pixels; others are expanded into scratch, which is reused when
// large enough.
func (f Frame) RGBA(scratch []byte) []byte {
	if f.Tight() {
		return f.Pixels[:f.Width*f.Height*4]
	}
	return f.AppendRGBA(scratch[:0])
}

// AppendRGBA appends the frame as tightly packed, opaque-where-unspecified
// RGBA to dst and returns the extended slice.
func (f Frame) AppendRGBA(dst []byte) []byte {
	bpp := f.Format.BytesPerPixel()
	for y := range f.Height {
		row := f.Pixels[y*f.Pitch : y*f.Pitch+f.Width*bpp]
		if bpp == 4 {
			dst = append(dst, row...)
			continue
		}
		for x := 0; x < len(row); x += bpp {
			dst = append(dst, row[x], row[x+1], row[x+2], 255)
		}
	}
	return dst
}

// CopyTo writes the frame into img, reallocating img when its size differs.
// It returns the image written to.
func (f Frame) CopyTo(img *image.RGBA) *image.RGBA {
	if img == nil || img.Rect.Dx() != f.Width || img.Rect.Dy() != f.Height {
		img = image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	}
	if f.Tight() {
		copy(img.Pix, f.Pixels)
		return img
	}
	img.Pix = f.AppendRGBA(img.Pix[:0])
	return img
}
