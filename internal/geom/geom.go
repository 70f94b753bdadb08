package geom

// Point is a position or offset in container-local coordinates.
type Point struct {
	X float64
	Y float64
}

// Add returns p shifted by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// IsZero reports whether both components are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Rect is an axis-aligned bounding box. X1/Y1 is the top-left corner and
// X2/Y2 the bottom-right one.
type Rect struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// Width returns the horizontal extent of the rect.
func (r Rect) Width() float64 {
	return r.X2 - r.X1
}

// Height returns the vertical extent of the rect.
func (r Rect) Height() float64 {
	return r.Y2 - r.Y1
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X1, Y: r.Y1}
}

// Overlaps reports whether a and b overlap. On each axis one rect must have an
// endpoint inside the other's span; edges that touch count.
func Overlaps(a, b Rect) bool {
	return spansOverlap(a.X1, a.X2, b.X1, b.X2) && spansOverlap(a.Y1, a.Y2, b.Y1, b.Y2)
}

func spansOverlap(a1, a2, b1, b2 float64) bool {
	return within(a1, b1, b2) || within(a2, b1, b2) ||
		within(b1, a1, a2) || within(b2, a1, a2)
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// Contains reports whether p lies inside r, bounds included.
func Contains(p Point, r Rect) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}

// Translate returns r shifted by (dx, dy).
func Translate(r Rect, dx, dy float64) Rect {
	return Rect{X1: r.X1 + dx, Y1: r.Y1 + dy, X2: r.X2 + dx, Y2: r.Y2 + dy}
}
