package polyfit

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// Generator proposes candidate polygons for a target image.
// Proposals must be reproducible given the same rng state.
type Generator interface {
	Propose(rng *rand.Rand, target *Buffer) (Polygon, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(rng *rand.Rand, target *Buffer) (Polygon, error)

// Propose implements Generator.
func (f GeneratorFunc) Propose(rng *rand.Rand, target *Buffer) (Polygon, error) {
	return f(rng, target)
}

// RandomPolygons proposes star-shaped polygons around a random center.
// The color is the target's color at the center with the configured alpha,
// which is a cheap first guess that greedy search refines by rejection.
type RandomPolygons struct {
	// MinVertices and MaxVertices bound the vertex count. Defaults: 3 and 5.
	MinVertices int
	MaxVertices int

	// MaxRadius bounds the distance of vertices from the center.
	// Default: a quarter of the larger target dimension.
	MaxRadius float64

	// Alpha is the polygon opacity. Default: 0.5.
	Alpha float64
}

const maxProposalAttempts = 16

// Propose implements Generator.
func (g RandomPolygons) Propose(rng *rand.Rand, target *Buffer) (Polygon, error) {
	s := target.Shape()

	minV, maxV := g.MinVertices, g.MaxVertices
	if minV < 3 {
		minV = 3
	}
	if maxV < minV {
		maxV = max(minV, 5)
	}
	radius := g.MaxRadius
	if radius <= 0 {
		radius = float64(max(s.Width, s.Height)) / 4
	}
	alpha := g.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 0.5
	}

	for range maxProposalAttempts {
		cx := rng.Float64() * float64(s.Width)
		cy := rng.Float64() * float64(s.Height)
		n := minV + rng.IntN(maxV-minV+1)

		angles := make([]float64, n)
		for i := range angles {
			angles[i] = rng.Float64() * 2 * math.Pi
		}
		slices.Sort(angles)

		pts := make([]Point, n)
		for i, a := range angles {
			r := 1 + rng.Float64()*(radius-1)
			pts[i] = Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
		}

		px, _ := target.Get(int(cx), int(cy))
		c := colorFromPixel(px, s.Channels)
		c.A = alpha

		p, err := NewPolygon(pts, c)
		if errors.Is(err, ErrDegeneratePolygon) {
			continue
		}
		return p, err
	}
	return Polygon{}, fmt.Errorf("%w: no valid proposal after %d attempts", ErrDegeneratePolygon, maxProposalAttempts)
}

// colorFromPixel lifts a buffer pixel back to an opaque RGBA.
func colorFromPixel(p Pixel, channels int) RGBA {
	if channels == 1 {
		return Gray(p[0])
	}
	return RGB(p[0], p[1], p[2])
}
