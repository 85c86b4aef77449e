package geom

// Rect is an integer pixel rectangle. It covers columns [X, X+W) and
// rows [Y, Y+H).
type Rect struct {
	X, Y int
	W, H int
}

// R is shorthand for Rect{X: x, Y: y, W: w, H: h}.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int { return r.X + r.W }

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() int { return r.Y + r.H }

// Intersect returns the overlap of r and s. The result is the zero Rect
// when they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	x0 := max(r.X, s.X)
	y0 := max(r.Y, s.Y)
	x1 := min(r.MaxX(), s.MaxX())
	y1 := min(r.MaxY(), s.MaxY())
	if x0 >= x1 || y0 >= y1 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether pixel (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// Bounds is a floating point axis-aligned box.
type Bounds struct {
	Min, Max Vec2
}

// BoundsOf returns the smallest box containing every point.
func BoundsOf(points ...Vec2) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
	}
	return b
}

// Pad grows the box by d on every side.
func (b Bounds) Pad(d float64) Bounds {
	return Bounds{
		Min: Vec2{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: Vec2{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// Overlaps reports whether the box intersects the pixel rectangle r
// with positive area.
func (b Bounds) Overlaps(r Rect) bool {
	return b.Max.X > float64(r.X) && b.Min.X < float64(r.MaxX()) &&
		b.Max.Y > float64(r.Y) && b.Min.Y < float64(r.MaxY())
}
