package polyfit

import (
	"fmt"
	"image"
	"sort"

	"github.com/gogpu/polyfit/internal/raster"
)

// FillRule specifies how to determine which areas are inside a polygon.
type FillRule int

const (
	// FillEvenOdd fills regions crossed an odd number of times.
	FillEvenOdd FillRule = iota
	// FillNonZero fills regions with a non-zero winding number.
	FillNonZero
)

// String returns the rule name.
func (r FillRule) String() string {
	switch r {
	case FillEvenOdd:
		return "evenodd"
	case FillNonZero:
		return "nonzero"
	default:
		return "unknown"
	}
}

// ParseFillRule returns the rule with the given name ("evenodd" or "nonzero").
func ParseFillRule(name string) (FillRule, error) {
	switch name {
	case "evenodd", "even-odd":
		return FillEvenOdd, nil
	case "nonzero", "non-zero":
		return FillNonZero, nil
	default:
		return 0, fmt.Errorf("polyfit: unknown fill rule %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r FillRule) MarshalText() ([]byte, error) {
	if r != FillEvenOdd && r != FillNonZero {
		return nil, fmt.Errorf("polyfit: invalid fill rule %d", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *FillRule) UnmarshalText(text []byte) error {
	v, err := ParseFillRule(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (r FillRule) internal() raster.FillRule {
	if r == FillNonZero {
		return raster.FillRuleNonZero
	}
	return raster.FillRuleEvenOdd
}

// Span is a horizontal run of covered pixels [X0, X1) on row Y.
type Span struct {
	Y, X0, X1 int
}

// Coverage is the set of pixels a rasterized polygon occupies, stored as
// spans sorted by row and then by column. Spans never overlap.
type Coverage struct {
	Shape Shape
	Spans []Span
}

// Len returns the number of covered pixels.
func (c Coverage) Len() int {
	n := 0
	for _, s := range c.Spans {
		n += s.X1 - s.X0
	}
	return n
}

// Empty reports whether no pixel is covered.
func (c Coverage) Empty() bool {
	return len(c.Spans) == 0
}

// Contains reports whether pixel (x, y) is covered.
func (c Coverage) Contains(x, y int) bool {
	i := sort.Search(len(c.Spans), func(i int) bool {
		s := c.Spans[i]
		return s.Y > y || (s.Y == y && s.X1 > x)
	})
	if i == len(c.Spans) {
		return false
	}
	s := c.Spans[i]
	return s.Y == y && s.X0 <= x && x < s.X1
}

// Each calls fn for every covered pixel in row-major order.
func (c Coverage) Each(fn func(x, y int)) {
	for _, s := range c.Spans {
		for x := s.X0; x < s.X1; x++ {
			fn(x, s.Y)
		}
	}
}

// Bounds returns the smallest rectangle containing every covered pixel.
func (c Coverage) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, s := range c.Spans {
		r = r.Union(image.Rect(s.X0, s.Y, s.X1, s.Y+1))
	}
	return r
}

// Rasterizer converts polygons into coverage sets.
//
// Pixels are sampled at their centers. Both the vertical extent of each edge
// and each horizontal span are half-open (top and left inclusive, bottom and
// right exclusive), so a pixel whose center lies exactly on a side shared by
// two adjacent polygons belongs to exactly one of them.
//
// A Rasterizer reuses internal buffers and is not safe for concurrent use.
type Rasterizer struct {
	rule   FillRule
	scan   *raster.Rasterizer
	points []raster.Point
}

// NewRasterizer creates a rasterizer using the given fill rule.
func NewRasterizer(rule FillRule) *Rasterizer {
	return &Rasterizer{
		rule: rule,
		scan: raster.NewRasterizer(0, 0),
	}
}

// FillRule returns the fill rule in use.
func (r *Rasterizer) FillRule() FillRule {
	return r.rule
}

// Rasterize computes the pixels of s covered by p.
//
// Polygons entirely outside the canvas and polygons with zero area yield an
// empty coverage set, not an error. Fewer than three vertices fail with
// ErrDegeneratePolygon and non-finite coordinates with ErrInvalidCoordinate.
func (r *Rasterizer) Rasterize(p Polygon, s Shape) (Coverage, error) {
	if err := s.Validate(); err != nil {
		return Coverage{}, err
	}
	if err := p.validateVertices(); err != nil {
		return Coverage{}, err
	}

	cov := Coverage{Shape: s}
	r.points = r.points[:0]
	for _, v := range p.Vertices {
		r.points = append(r.points, raster.Point{X: v.X, Y: v.Y})
	}

	r.scan.Resize(s.Width, s.Height)
	r.scan.Fill(r.points, r.rule.internal(), func(sp raster.Span) {
		cov.Spans = append(cov.Spans, Span{Y: sp.Y, X0: sp.X0, X1: sp.X1})
	})
	return cov, nil
}

// Draw rasterizes p and composites it onto dst with the given mode.
func (r *Rasterizer) Draw(dst *Canvas, p Polygon, mode BlendMode) (Coverage, error) {
	cov, err := r.Rasterize(p, dst.Shape())
	if err != nil {
		return Coverage{}, err
	}
	if err := Composite(dst, cov, p.Color, mode); err != nil {
		return Coverage{}, err
	}
	return cov, nil
}

// Rasterize computes the coverage of p on s with the even-odd rule.
func Rasterize(p Polygon, s Shape) (Coverage, error) {
	return NewRasterizer(FillEvenOdd).Rasterize(p, s)
}
