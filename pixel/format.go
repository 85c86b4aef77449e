// Package pixel holds the byte-level storage of the sprite pipeline: the
// padded-row-pitch frame buffer the rasterizer writes into, and the
// immutable pre-scaled textures it samples from.
package pixel

// Format is a pixel storage layout: 8 bits per channel, 1 to 4 channels.
type Format uint8

const (
	// FormatGray8 is 8-bit luminance (1 byte per pixel).
	FormatGray8 Format = iota

	// FormatGrayAlpha8 is 8-bit luminance plus 8-bit alpha (2 bytes per pixel).
	FormatGrayAlpha8

	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, no alpha).
	// This is the default frame buffer format.
	FormatRGB8

	// FormatRGBA8 is 32-bit RGBA, not premultiplied (4 bytes per pixel).
	FormatRGBA8

	formatCount
)

// formatInfo is the per-format metadata table.
var formatInfo = [formatCount]struct {
	bpp      int
	hasAlpha bool
	name     string
}{
	FormatGray8:      {bpp: 1, name: "Gray8"},
	FormatGrayAlpha8: {bpp: 2, hasAlpha: true, name: "GrayAlpha8"},
	FormatRGB8:       {bpp: 3, name: "RGB8"},
	FormatRGBA8:      {bpp: 4, hasAlpha: true, name: "RGBA8"},
}

// FormatForChannels returns the format with the given channel count.
// The second result is false for counts outside 1..4.
func FormatForChannels(channels int) (Format, bool) {
	if channels < 1 || channels > int(formatCount) {
		return 0, false
	}
	return Format(channels - 1), true
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// BytesPerPixel returns the number of bytes one pixel occupies.
func (f Format) BytesPerPixel() int {
	if !f.IsValid() {
		return 0
	}
	return formatInfo[f].bpp
}

// HasAlpha reports whether the format stores an alpha channel.
func (f Format) HasAlpha() bool {
	return f.IsValid() && formatInfo[f].hasAlpha
}

// RowBytes returns the unpadded byte length of a row of width pixels.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// String returns the format name.
func (f Format) String() string {
	if !f.IsValid() {
		return "Unknown"
	}
	return formatInfo[f].name
}

// IsFrameFormat reports whether f can back a frame buffer.
func (f Format) IsFrameFormat() bool {
	return f == FormatRGB8 || f == FormatRGBA8
}
