package pixel

import "errors"

// Sentinel errors for buffer and texture construction and access.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("pixel: invalid dimensions")

	// ErrInvalidFormat is returned for unknown formats, or for formats a
	// frame buffer cannot use.
	ErrInvalidFormat = errors.New("pixel: invalid format")

	// ErrInvalidStride is returned when a row stride or pitch is smaller
	// than the packed row size.
	ErrInvalidStride = errors.New("pixel: stride too small for width")

	// ErrDataTooSmall is returned when provided data cannot hold the image.
	ErrDataTooSmall = errors.New("pixel: data buffer too small")

	// ErrOutOfBounds is returned when coordinates fall outside the buffer.
	ErrOutOfBounds = errors.New("pixel: coordinates out of bounds")
)
