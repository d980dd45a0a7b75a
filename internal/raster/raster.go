// Package raster provides scanline rasterization of polygons into pixel spans.
//
// Pixels are sampled at their centers (x+0.5, y+0.5). A row is scanned when
// its center lies in [yMin, yMax) of an edge, and a pixel belongs to a span
// [xl, xr) when xl <= center < xr. With both intervals half-open, polygons
// that share a side partition the pixels along it: none are covered twice
// and none are dropped.
package raster

import "math"

// FillRule specifies how to determine which areas are inside a path.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// Span is a horizontal run of covered pixels [X0, X1) on row Y.
type Span struct {
	Y, X0, X1 int
}

// Len returns the number of pixels in the span.
func (s Span) Len() int {
	return s.X1 - s.X0
}

// Rasterizer performs scanline rasterization.
// A Rasterizer reuses its internal buffers between calls and is not safe for
// concurrent use.
type Rasterizer struct {
	width  int
	height int
	edges  []Edge
	aet    *ActiveEdgeTable
}

// NewRasterizer creates a new rasterizer for the given dimensions.
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{
		width:  width,
		height: height,
		edges:  make([]Edge, 0, 16),
		aet:    NewActiveEdgeTable(),
	}
}

// Resize changes the clip dimensions.
func (r *Rasterizer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the clip width.
func (r *Rasterizer) Width() int { return r.width }

// Height returns the clip height.
func (r *Rasterizer) Height() int { return r.height }

// Fill rasterizes the closed polygon through points and calls emit for each
// non-empty span, in increasing row order and left to right within a row.
// Spans are clipped to [0,width) x [0,height).
func (r *Rasterizer) Fill(points []Point, fillRule FillRule, emit func(Span)) {
	if len(points) < 3 || r.width <= 0 || r.height <= 0 {
		return
	}

	// Build edge list, closing the polygon
	r.edges = r.edges[:0]
	for i := range points {
		p0 := points[i]
		p1 := points[(i+1)%len(points)]
		if e, ok := NewEdge(p0, p1); ok {
			r.edges = append(r.edges, e)
		}
	}
	if len(r.edges) == 0 {
		return
	}

	// Find y bounds
	yMin := math.Inf(1)
	yMax := math.Inf(-1)
	for _, e := range r.edges {
		yMin = math.Min(yMin, e.y0)
		yMax = math.Max(yMax, e.y1)
	}

	// Rows whose centers fall in [yMin, yMax)
	rowStart := pixelIndex(yMin, r.height)
	rowEnd := pixelIndex(yMax, r.height)

	for y := rowStart; y < rowEnd; y++ {
		r.scanline(y, fillRule, emit)
	}
}

// scanline processes a single scanline.
func (r *Rasterizer) scanline(y int, fillRule FillRule, emit func(Span)) {
	scanY := float64(y) + 0.5

	r.aet.Clear()
	for i := range r.edges {
		if r.edges[i].Active(scanY) {
			r.aet.AddAtY(r.edges[i], scanY)
		}
	}
	if r.aet.Len() == 0 {
		return
	}

	// Sort edges by x coordinate
	r.aet.Sort()

	var pending Span
	havePending := false
	flush := func(x0, x1 int) {
		if x0 >= x1 {
			return
		}
		if havePending && pending.X1 == x0 {
			pending.X1 = x1
			return
		}
		if havePending {
			emit(pending)
		}
		pending = Span{Y: y, X0: x0, X1: x1}
		havePending = true
	}

	activeEdges := r.aet.Edges()
	if fillRule == FillRuleNonZero {
		r.fillNonZero(activeEdges, flush)
	} else {
		r.fillEvenOdd(activeEdges, flush)
	}

	if havePending {
		emit(pending)
	}
}

// fillNonZero fills using the non-zero winding rule.
func (r *Rasterizer) fillNonZero(edges []ActiveEdge, fill func(x0, x1 int)) {
	winding := 0
	var x1 float64

	for i := range edges {
		edge := edges[i]

		if winding == 0 {
			x1 = edge.x
		}

		winding += edge.dir

		if winding == 0 {
			fill(pixelIndex(x1, r.width), pixelIndex(edge.x, r.width))
		}
	}
}

// fillEvenOdd fills using the even-odd rule.
func (r *Rasterizer) fillEvenOdd(edges []ActiveEdge, fill func(x0, x1 int)) {
	for i := 0; i+1 < len(edges); i += 2 {
		fill(pixelIndex(edges[i].x, r.width), pixelIndex(edges[i+1].x, r.width))
	}
}

// pixelIndex returns the first pixel whose center is at or after v,
// clamped to [0, limit].
func pixelIndex(v float64, limit int) int {
	c := math.Ceil(v - 0.5)
	if c <= 0 {
		return 0
	}
	if c >= float64(limit) {
		return limit
	}
	return int(c)
}
