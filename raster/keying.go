package raster

import (
	"fmt"
	"image/color"
	"strings"
)

// KeyMode selects how the tile path decides a texel is transparent.
// Transparency is binary: a texel is either written or skipped.
type KeyMode uint8

const (
	// KeyNone writes every texel.
	KeyNone KeyMode = iota

	// KeyAlpha skips texels whose alpha is below the threshold. Textures
	// without an alpha channel are always opaque.
	KeyAlpha

	// KeyColor skips texels whose RGB equals the key color.
	KeyColor
)

// String returns the mode name used in configuration files.
func (m KeyMode) String() string {
	switch m {
	case KeyNone:
		return "none"
	case KeyAlpha:
		return "alpha"
	case KeyColor:
		return "color"
	default:
		return "unknown"
	}
}

// ParseKeyMode parses a mode name as produced by String.
func ParseKeyMode(s string) (KeyMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return KeyNone, nil
	case "alpha":
		return KeyAlpha, nil
	case "color":
		return KeyColor, nil
	default:
		return KeyNone, fmt.Errorf("raster: unknown key mode %q", s)
	}
}

// Keying is the binary transparency rule applied by the tile path.
type Keying struct {
	Mode      KeyMode
	Color     color.RGBA
	Threshold uint8
}

// DefaultKeying skips texels less than half opaque.
var DefaultKeying = Keying{Mode: KeyAlpha, Threshold: 128}

// ColorKey returns a Keying that treats texels of color c as transparent.
func ColorKey(c color.RGBA) Keying {
	return Keying{Mode: KeyColor, Color: c}
}

// Transparent reports whether texel c must be skipped.
func (k Keying) Transparent(c color.RGBA) bool {
	switch k.Mode {
	case KeyAlpha:
		return c.A < k.Threshold
	case KeyColor:
		return c.R == k.Color.R && c.G == k.Color.G && c.B == k.Color.B
	default:
		return false
	}
}
