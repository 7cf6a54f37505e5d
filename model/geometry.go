package model

import "math"

// Point represents a 2D point in page-point units.
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Translate returns the point shifted by (dx, dy).
func (p Point) Translate(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// BBox represents an axis-aligned bounding box. The origin is the top-left
// corner; Y grows downward, matching the page coordinate system used
// throughout the editor.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box covering two points, anchoring the
// origin at the minimum corner. This is the constructor drag interactions
// must use, since a drag can move in any direction.
func NewBBoxFromPoints(p1, p2 Point) BBox {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	width := math.Abs(p2.X - p1.X)
	height := math.Abs(p2.Y - p1.Y)
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Normalize forces non-negative width and height by taking absolute values.
// It does not re-anchor the origin; callers building a box from a drag must
// use NewBBoxFromPoints for min/max anchoring.
func (b BBox) Normalize() BBox {
	return BBox{
		X:      b.X,
		Y:      b.Y,
		Width:  math.Abs(b.Width),
		Height: math.Abs(b.Height),
	}
}

// Left returns the left edge X coordinate.
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate.
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate.
func (b BBox) Top() float64 {
	return b.Y
}

// Bottom returns the bottom edge Y coordinate.
func (b BBox) Bottom() float64 {
	return b.Y + b.Height
}

// Center returns the center point.
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Contains checks if a point is inside the bounding box. Bounds are
// inclusive, so all four corners of a box are contained by it.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Top() && p.Y <= b.Bottom()
}

// ContainsXY is Contains for bare coordinates.
func (b BBox) ContainsXY(x, y float64) bool {
	return b.Contains(Point{X: x, Y: y})
}

// Intersects checks if two bounding boxes intersect. Boxes that merely touch
// along an edge are considered intersecting.
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Bottom() < other.Top() ||
		b.Top() > other.Bottom())
}

// Intersection returns the intersection of two bounding boxes, or the zero
// box if they do not intersect.
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}

	x := math.Max(b.Left(), other.Left())
	y := math.Max(b.Top(), other.Top())
	right := math.Min(b.Right(), other.Right())
	bottom := math.Min(b.Bottom(), other.Bottom())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Union returns the smallest box covering both boxes.
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Top(), other.Top())
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Translate returns the box shifted by (dx, dy).
func (b BBox) Translate(dx, dy float64) BBox {
	return BBox{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// Scale returns the box with origin and dimensions scaled by (sx, sy).
func (b BBox) Scale(sx, sy float64) BBox {
	return BBox{X: b.X * sx, Y: b.Y * sy, Width: b.Width * sx, Height: b.Height * sy}
}

// Expand expands the bounding box by a padding on all sides. Width and height
// grow by twice the padding; the origin shifts by -padding.
func (b BBox) Expand(padding float64) BBox {
	return BBox{
		X:      b.X - padding,
		Y:      b.Y - padding,
		Width:  b.Width + 2*padding,
		Height: b.Height + 2*padding,
	}
}

// Area returns the area of the bounding box.
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsEmpty returns true if the bounding box has zero area.
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Matrix represents a 2D affine transformation matrix in the usual
// [a b c d e f] form.
type Matrix [6]float64

// Identity returns an identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Transform applies the matrix transformation to a point.
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply multiplies two matrices.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translated creates a translation matrix.
func Translated(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scaled creates a scaling matrix.
func Scaled(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotated creates a rotation matrix (angle in radians).
func Rotated(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// Invert returns the inverse matrix and true, or the identity and false if
// the matrix is singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return Identity(), false
	}
	inv := 1 / det
	return Matrix{
		m[3] * inv,
		-m[1] * inv,
		-m[2] * inv,
		m[0] * inv,
		(m[2]*m[5] - m[3]*m[4]) * inv,
		(m[1]*m[4] - m[0]*m[5]) * inv,
	}, true
}

// IsIdentity returns true if the matrix is an identity matrix.
func (m Matrix) IsIdentity() bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1 && m[4] == 0 && m[5] == 0
}
