// Package geom holds the rectangle and offset types shared by the region
// tracker, the connector registry and the renderers.
//
// All rectangles live in a single overlay coordinate space measured in
// float64 units (pixels for the PNG/SVG renderers, cells for the terminal).
package geom

// Rect is an axis-aligned box. X and Y are the top-left corner.
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// NewRect creates a Rect, clamping negative sizes to zero.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: max(w, 0), H: max(h, 0)}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 {
	return r.Y + r.H/2
}

// IsEmpty returns true if the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Translate returns a new Rect moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Offset returns the rect shifted against a scroll offset, i.e. where a box
// laid out at r appears after its containers scrolled by s.
func (r Rect) Offset(s Scroll) Rect {
	return r.Translate(-s.X, -s.Y)
}

// InsetY shrinks the rect vertically by d on both the top and the bottom.
// The height may become negative for boxes shorter than 2*d; callers that
// clamp against the result treat that as a zero-height band at Y.
func (r Rect) InsetY(d float64) Rect {
	return Rect{X: r.X, Y: r.Y + d, W: r.W, H: r.H - d*2}
}

// Contains returns true if the point (x, y) is inside the rectangle.
// Points on the left and top edges are inside; points on the right and bottom edges are outside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Union returns the smallest rectangle that contains both rectangles.
// If either rectangle is empty, returns the other rectangle.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	return Rect{X: x, Y: y, W: max(r.Right(), other.Right()) - x, H: max(r.Bottom(), other.Bottom()) - y}
}

// Scroll is a cumulative scroll offset.
type Scroll struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Add returns the sum of two offsets.
func (s Scroll) Add(other Scroll) Scroll {
	return Scroll{X: s.X + other.X, Y: s.Y + other.Y}
}

// Sub returns s with other subtracted.
func (s Scroll) Sub(other Scroll) Scroll {
	return Scroll{X: s.X - other.X, Y: s.Y - other.Y}
}

// Point represents an (X, Y) coordinate.
type Point struct {
	X, Y float64
}

// In returns true if the point is inside the given rectangle.
func (p Point) In(r Rect) bool {
	return r.Contains(p.X, p.Y)
}

// Clamp bounds v to [lo, hi]. When hi < lo the band is degenerate and lo wins.
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
