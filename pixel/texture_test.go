package pixel

import (
	"errors"
	"image/color"
	"testing"
)

func TestNewTextureValidation(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		stride  int
		format  Format
		data    []byte
		wantErr error
	}{
		{"packed rgb", 2, 2, 0, FormatRGB8, make([]byte, 12), nil},
		{"padded gray", 3, 2, 4, FormatGray8, make([]byte, 7), nil},
		{"short data", 2, 2, 0, FormatRGBA8, make([]byte, 15), ErrDataTooSmall},
		{"small stride", 4, 1, 3, FormatGray8, make([]byte, 4), ErrInvalidStride},
		{"zero size", 0, 1, 0, FormatGray8, nil, ErrInvalidDimensions},
		{"bad format", 1, 1, 0, Format(7), make([]byte, 4), ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTexture(tt.w, tt.h, tt.stride, tt.format, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewTexture() err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTextureTexelChannels(t *testing.T) {
	tests := []struct {
		channels int
		data     []byte
		want     color.RGBA
	}{
		{1, []byte{7}, color.RGBA{R: 7, G: 7, B: 7, A: 255}},
		{2, []byte{7, 9}, color.RGBA{R: 7, G: 7, B: 7, A: 9}},
		{3, []byte{1, 2, 3}, color.RGBA{R: 1, G: 2, B: 3, A: 255}},
		{4, []byte{1, 2, 3, 4}, color.RGBA{R: 1, G: 2, B: 3, A: 4}},
	}
	for _, tt := range tests {
		f, ok := FormatForChannels(tt.channels)
		if !ok {
			t.Fatalf("FormatForChannels(%d) not ok", tt.channels)
		}
		tex, err := NewTexture(1, 1, 0, f, tt.data)
		if err != nil {
			t.Fatal(err)
		}
		if got := tex.Texel(0, 0); got != tt.want {
			t.Errorf("%s Texel = %v, want %v", f, got, tt.want)
		}
		if got := tex.Texel(1, 0); got != (color.RGBA{}) {
			t.Errorf("%s Texel out of range = %v, want zero", f, got)
		}
	}
}

func TestFormatForChannelsRange(t *testing.T) {
	for _, n := range []int{0, 5, -1} {
		if _, ok := FormatForChannels(n); ok {
			t.Errorf("FormatForChannels(%d) ok = true", n)
		}
	}
}
