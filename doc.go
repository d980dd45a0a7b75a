// Package polyfit approximates a raster image with colored polygons.
//
// # Overview
//
// An Engine holds a target image and a canvas. Each step renders a candidate
// polygon onto a scratch copy of the canvas, scores the copy against the
// target with a similarity Metric and lets an Acceptor decide whether the
// copy replaces the canvas. Accepted steps can be undone.
//
// # Quick Start
//
//	import "github.com/gogpu/polyfit"
//
//	target, _ := polyfit.FromImage(img, 3)
//	e, _ := polyfit.New(target, polyfit.WithSeed(1))
//	defer e.Close()
//
//	gen := polyfit.RandomPolygons{MaxVertices: 6, Alpha: 0.6}
//	for range 1000 {
//	    cands, _ := e.Propose(gen, 32, polyfit.BlendAlpha)
//	    e.StepBatch(cands)
//	}
//	out := e.Current().ToImage()
//
// # Pixel Model
//
// Buffers store float64 samples in [0, 1], row-major and channel-interleaved,
// with 1 (gray), 3 (RGB) or 4 (RGBA) channels. Every write clamps.
//
// # Rasterization
//
// Pixels are sampled at their centers (x+0.5, y+0.5). Polygon edges are
// half-open vertically and spans are half-open horizontally, so polygons that
// share a side never both cover a pixel on it. Even-odd and non-zero fill
// rules are supported.
//
// # Compositing
//
// A BlendMode selects a separable blend function B(s, d) and the result is
// mixed by the polygon's alpha: d' = d*(1-a) + B(s, d)*a.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
package polyfit

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
