package polyfit

import (
	"fmt"
	"math"
)

// Polygon is a closed sequence of vertices filled with a single color.
// The last vertex connects back to the first. Vertices may lie outside the
// canvas; clipping happens during rasterization.
//
// Polygon is a plain value with no hidden state so collaborators can encode
// and decode it directly.
type Polygon struct {
	Vertices []Point `json:"vertices" yaml:"vertices" toml:"vertices"`
	Color    RGBA    `json:"color" yaml:"color" toml:"color"`
}

// NewPolygon validates vertices and returns a polygon owning a copy of them.
// The color is clamped to [0, 1].
//
// It fails with ErrDegeneratePolygon for fewer than three vertices or when all
// vertices lie on one line, and with ErrInvalidCoordinate for NaN or infinite
// coordinates.
func NewPolygon(vertices []Point, c RGBA) (Polygon, error) {
	p := Polygon{
		Vertices: append([]Point(nil), vertices...),
		Color:    c.Clamp(),
	}
	if err := p.Validate(); err != nil {
		return Polygon{}, err
	}
	return p, nil
}

// PolygonFromCoords builds a polygon from a flat x0, y0, x1, y1, ... list.
func PolygonFromCoords(coords []float64, c RGBA) (Polygon, error) {
	if len(coords)%2 != 0 {
		return Polygon{}, fmt.Errorf("%w: odd coordinate count %d", ErrInvalidCoordinate, len(coords))
	}
	pts := make([]Point, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		pts = append(pts, Point{X: coords[i], Y: coords[i+1]})
	}
	return NewPolygon(pts, c)
}

// Validate checks vertex count, coordinate finiteness and degeneracy.
//
// Only polygons whose vertices all lie on one line are degenerate. A
// self-intersecting outline whose signed lobes cancel, such as a symmetric
// bow tie, has a zero SignedArea but is valid and covers the pixels of both
// lobes under either fill rule.
func (p Polygon) Validate() error {
	if err := p.validateVertices(); err != nil {
		return err
	}
	if p.collinear() {
		return fmt.Errorf("%w: zero area", ErrDegeneratePolygon)
	}
	return nil
}

// validateVertices checks what the rasterizer needs to run at all.
func (p Polygon) validateVertices() error {
	if len(p.Vertices) < 3 {
		return fmt.Errorf("%w: %d vertices", ErrDegeneratePolygon, len(p.Vertices))
	}
	for i, v := range p.Vertices {
		if !v.IsFinite() {
			return fmt.Errorf("%w: vertex %d is (%v, %v)", ErrInvalidCoordinate, i, v.X, v.Y)
		}
	}
	return nil
}

// collinear reports whether every vertex lies on the line through the first
// two distinct vertices, which makes the enclosed area zero.
//
// Self-intersecting outlines whose signed lobes cancel (a symmetric bow tie)
// still enclose pixels and are not treated as degenerate.
func (p Polygon) collinear() bool {
	origin := p.Vertices[0]
	var dir Point
	found := false
	for _, v := range p.Vertices[1:] {
		if d := v.Sub(origin); d.X != 0 || d.Y != 0 {
			dir, found = d, true
			break
		}
	}
	if !found {
		return true
	}
	for _, v := range p.Vertices {
		if v.Sub(origin).Cross(dir) != 0 {
			return false
		}
	}
	return true
}

// SignedArea returns the shoelace area: positive when the vertices wind
// clockwise in image coordinates (y down), negative otherwise.
func (p Polygon) SignedArea() float64 {
	var sum float64
	n := len(p.Vertices)
	for i := range n {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		sum += a.Cross(b)
	}
	return sum / 2
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (p Polygon) Bounds() (minPt, maxPt Point) {
	minPt = Point{X: math.Inf(1), Y: math.Inf(1)}
	maxPt = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, v := range p.Vertices {
		minPt.X = math.Min(minPt.X, v.X)
		minPt.Y = math.Min(minPt.Y, v.Y)
		maxPt.X = math.Max(maxPt.X, v.X)
		maxPt.Y = math.Max(maxPt.Y, v.Y)
	}
	return minPt, maxPt
}

// Edges returns the sides of the polygon as start/end pairs, including the
// closing side.
func (p Polygon) Edges() [][2]Point {
	n := len(p.Vertices)
	out := make([][2]Point, 0, n)
	for i := range n {
		out = append(out, [2]Point{p.Vertices[i], p.Vertices[(i+1)%n]})
	}
	return out
}

// Clone returns a deep copy of the polygon.
func (p Polygon) Clone() Polygon {
	return Polygon{
		Vertices: append([]Point(nil), p.Vertices...),
		Color:    p.Color,
	}
}
