package raster

import (
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/gogpu/sprite/geom"
)

func TestSamplingGridGeometry(t *testing.T) {
	g := SamplingGrid{
		Origin: geom.V2(10, 20),
		DeltaU: geom.V2(2, 0),
		DeltaV: geom.V2(0, 3),
		Cols:   4,
		Rows:   2,
	}

	c := g.Corners()
	for i, want := range []geom.Vec2{geom.V2(10, 20), geom.V2(18, 20), geom.V2(18, 26), geom.V2(10, 26)} {
		if c[i] != want {
			t.Errorf("Corners()[%d] = %v, want %v", i, c[i], want)
		}
	}

	b := g.Bounds()
	if b.Min != geom.V2(10, 20) || b.Max != geom.V2(18, 26) {
		t.Errorf("Bounds() = %v..%v, want (10,20)..(18,26)", b.Min, b.Max)
	}

	if d := g.Determinant(); math.Abs(d-6) > 1e-12 {
		t.Errorf("Determinant() = %v, want 6", d)
	}
	if got := g.Basis().TransformPoint(geom.V2(2, 1)); got != geom.V2(14, 23) {
		t.Errorf("Basis().TransformPoint(2,1) = %v, want (14,23)", got)
	}
	if g.Empty() {
		t.Error("Empty() = true for a 4x2 grid")
	}
}

func TestClippedGrid(t *testing.T) {
	g := SamplingGrid{Origin: geom.V2(0.5, 0.5), DeltaU: geom.V2(1, 0), DeltaV: geom.V2(0, 1), Cols: 10, Rows: 10}

	full := Full(g)
	if full.Cells() != 100 {
		t.Errorf("Cells() = %d, want 100", full.Cells())
	}
	if got, want := full.PixelBounds(), geom.R(0, 0, 11, 11); got != want {
		t.Errorf("PixelBounds() = %v, want %v", got, want)
	}

	part := ClippedGrid{Grid: g, Col0: 2, Col1: 5, Row0: 3, Row1: 3}
	if !part.Empty() {
		t.Error("zero-row clip should be empty")
	}
	if part.Cells() != 0 {
		t.Errorf("Cells() = %d, want 0", part.Cells())
	}
}

func TestKeying(t *testing.T) {
	opaque := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	half := color.RGBA{R: 10, G: 20, B: 30, A: 100}
	black := color.RGBA{A: 255}

	tests := []struct {
		name   string
		k      Keying
		c      color.RGBA
		expect bool
	}{
		{"none keeps transparent", Keying{Mode: KeyNone}, color.RGBA{}, false},
		{"alpha keeps opaque", DefaultKeying, opaque, false},
		{"alpha drops below threshold", DefaultKeying, half, true},
		{"alpha zero threshold keeps all", Keying{Mode: KeyAlpha}, color.RGBA{}, false},
		{"color drops key", ColorKey(color.RGBA{}), black, true},
		{"color keeps other", ColorKey(color.RGBA{}), opaque, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.k.Transparent(tt.c); got != tt.expect {
				t.Errorf("Transparent(%v) = %v, want %v", tt.c, got, tt.expect)
			}
		})
	}
}

func TestParseKeyMode(t *testing.T) {
	for _, m := range []KeyMode{KeyNone, KeyAlpha, KeyColor} {
		got, err := ParseKeyMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseKeyMode(%q) = %v, %v; want %v", m.String(), got, err, m)
		}
	}

	got, err := ParseKeyMode(" Alpha ")
	if err != nil || got != KeyAlpha {
		t.Errorf("ParseKeyMode(\" Alpha \") = %v, %v; want alpha", got, err)
	}

	if _, err := ParseKeyMode("magenta"); err == nil {
		t.Error("ParseKeyMode(\"magenta\") should fail")
	}
}

func TestSplitRows(t *testing.T) {
	if got := SplitRows(5, 5, 32); got != nil {
		t.Errorf("SplitRows(5, 5, 32) = %v, want nil", got)
	}
	if got := SplitRows(9, 3, 32); got != nil {
		t.Errorf("SplitRows(9, 3, 32) = %v, want nil", got)
	}
	if got, want := SplitRows(0, 10, 0), []RowRange{{0, 10}}; !reflect.DeepEqual(got, want) {
		t.Errorf("SplitRows(0, 10, 0) = %v, want %v", got, want)
	}
	if got, want := SplitRows(0, 70, 32), []RowRange{{0, 32}, {32, 64}, {64, 70}}; !reflect.DeepEqual(got, want) {
		t.Errorf("SplitRows(0, 70, 32) = %v, want %v", got, want)
	}

	for start := -5; start < 5; start++ {
		for end := start; end < start+100; end += 7 {
			for chunk := 1; chunk < 40; chunk += 3 {
				ranges := SplitRows(start, end, chunk)
				next, total := start, 0
				for _, rr := range ranges {
					if rr.Start != next || rr.Len() == 0 || rr.Len() > chunk {
						t.Fatalf("SplitRows(%d, %d, %d) = %v: bad range %v", start, end, chunk, ranges, rr)
					}
					next = rr.End
					total += rr.Len()
				}
				if next != end && len(ranges) > 0 || total != end-start {
					t.Fatalf("SplitRows(%d, %d, %d) = %v: does not cover input", start, end, chunk, ranges)
				}
			}
		}
	}
}
