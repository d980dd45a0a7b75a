package polyfit

import (
	"testing"
)

func mustShape(t *testing.T, w, h, c int) Shape {
	t.Helper()
	s, err := NewShape(w, h, c)
	if err != nil {
		t.Fatalf("NewShape(%d, %d, %d): %v", w, h, c, err)
	}
	return s
}

func mustPolygon(t *testing.T, pts []Point, c RGBA) Polygon {
	t.Helper()
	p, err := NewPolygon(pts, c)
	if err != nil {
		t.Fatalf("NewPolygon(%v): %v", pts, err)
	}
	return p
}

// mustBuffer returns a buffer of shape s with every pixel set to p.
func mustBuffer(t *testing.T, s Shape, p Pixel) *Buffer {
	t.Helper()
	b, err := NewBuffer(s)
	if err != nil {
		t.Fatalf("NewBuffer(%v): %v", s, err)
	}
	b.Fill(p)
	return b
}

func rectPoints(x0, y0, x1, y1 float64) []Point {
	return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func fullRect(w, h int) []Point {
	return rectPoints(0, 0, float64(w), float64(h))
}

// gradientBuffer returns a buffer whose samples vary with position, so that
// different polygons score differently against it.
func gradientBuffer(t *testing.T, s Shape) *Buffer {
	t.Helper()
	b := mustBuffer(t, s, Pixel{})
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			v := float64(x) / float64(s.Width)
			w := float64(y) / float64(s.Height)
			if err := b.Set(x, y, Pixel{v, w, (v + w) / 2, 1}); err != nil {
				t.Fatal(err)
			}
		}
	}
	return b
}
