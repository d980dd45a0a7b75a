package raster

import "math"

// Point represents a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// Edge represents a polygon side normalized so that y0 < y1.
type Edge struct {
	x0, y0 float64 // Upper endpoint
	x1, y1 float64 // Lower endpoint
	dir    int     // Direction before normalization: +1 downward, -1 upward
}

// NewEdge creates a new edge from two points.
// The second result is false for horizontal edges, which never cross a
// scanline center and are dropped.
func NewEdge(p0, p1 Point) (Edge, bool) {
	if p0.Y == p1.Y {
		return Edge{}, false
	}

	// Determine direction BEFORE swap (for non-zero winding rule)
	dir := 1
	if p0.Y > p1.Y {
		dir = -1
		p0, p1 = p1, p0
	}

	return Edge{
		x0:  p0.X,
		y0:  p0.Y,
		x1:  p1.X,
		y1:  p1.Y,
		dir: dir,
	}, true
}

// Active reports whether the edge crosses the horizontal line at y.
// The interval is half-open: an edge owns its upper endpoint but not its
// lower one, so a vertex shared by two edges is counted once.
func (e *Edge) Active(y float64) bool {
	return e.y0 <= y && y < e.y1
}

// XAtY calculates the x coordinate at the given y coordinate.
//
// The value is computed from the normalized endpoints rather than by
// incremental stepping, so two polygons that share a side get bit-identical
// crossings regardless of the order in which they list its vertices.
// Endpoints far enough apart to overflow a float64 difference are
// interpolated on halved operands instead.
func (e *Edge) XAtY(y float64) float64 {
	if e.x0 == e.x1 {
		return e.x0
	}

	dy := e.y1 - e.y0
	var t float64
	if math.IsInf(dy, 0) {
		t = (y/2 - e.y0/2) / (e.y1/2 - e.y0/2)
	} else {
		t = (y - e.y0) / dy
	}

	if dx := e.x1 - e.x0; !math.IsInf(dx, 0) {
		return e.x0 + dx*t
	}
	return e.x0*(1-t) + e.x1*t
}

// ActiveEdgeTable holds the crossings of one scanline.
type ActiveEdgeTable struct {
	edges []ActiveEdge
}

// ActiveEdge is an edge crossing the current scanline.
type ActiveEdge struct {
	x   float64 // Crossing position
	dir int     // Direction for winding
}

// NewActiveEdgeTable creates a new active edge table.
func NewActiveEdgeTable() *ActiveEdgeTable {
	return &ActiveEdgeTable{
		edges: make([]ActiveEdge, 0, 32),
	}
}

// AddAtY adds an edge to the active edge table with x computed for the given y.
func (aet *ActiveEdgeTable) AddAtY(edge Edge, y float64) {
	aet.edges = append(aet.edges, ActiveEdge{
		x:   edge.XAtY(y),
		dir: edge.dir,
	})
}

// Sort sorts edges by x coordinate (insertion sort for small lists).
func (aet *ActiveEdgeTable) Sort() {
	for i := 1; i < len(aet.edges); i++ {
		key := aet.edges[i]
		j := i - 1
		for j >= 0 && aet.edges[j].x > key.x {
			aet.edges[j+1] = aet.edges[j]
			j--
		}
		aet.edges[j+1] = key
	}
}

// Edges returns the active edges.
func (aet *ActiveEdgeTable) Edges() []ActiveEdge {
	return aet.edges
}

// Clear clears all edges.
func (aet *ActiveEdgeTable) Clear() {
	aet.edges = aet.edges[:0]
}

// Len returns the number of active edges.
func (aet *ActiveEdgeTable) Len() int {
	return len(aet.edges)
}
