// Package raster provides a raster backend for the recording system.
// It replays a recording onto a white polyfit canvas, reproducing the pixels
// the engine produced.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/polyfit/recording/backends/raster"
//
//	// Create via registry
//	backend, _ := recording.NewBackend("raster")
//
//	// Or create directly
//	backend := raster.NewBackend()
//
//	// Playback recording
//	rec.Playback(backend)
//
//	// Get output
//	backend.SaveToFile("output.png")
//	buf := backend.Buffer()
package raster

import (
	"errors"
	"image"
	"io"

	"github.com/gogpu/polyfit"
	imageio "github.com/gogpu/polyfit/internal/image"
	"github.com/gogpu/polyfit/recording"
)

func init() {
	recording.Register("raster", func() recording.Backend {
		return NewBackend()
	})
}

// errNotStarted is returned when drawing or output is requested before Begin.
var errNotStarted = errors.New("raster: backend not started")

// Backend renders recordings to a polyfit canvas.
// It implements recording.Backend, recording.WriterBackend,
// recording.FileBackend, and recording.BufferBackend interfaces.
type Backend struct {
	canvas *polyfit.Canvas
	raster *polyfit.Rasterizer
}

// Ensure Backend implements all required interfaces.
var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
	_ recording.BufferBackend = (*Backend)(nil)
)

// NewBackend creates a new raster backend.
// The backend must be initialized with Begin before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Begin starts a white canvas of the given shape.
func (b *Backend) Begin(s polyfit.Shape, rule polyfit.FillRule) error {
	c, err := polyfit.NewCanvas(s)
	if err != nil {
		return err
	}
	b.canvas = c
	b.raster = polyfit.NewRasterizer(rule)
	return nil
}

// DrawPolygon rasterizes p and composites it with mode.
func (b *Backend) DrawPolygon(p polyfit.Polygon, mode polyfit.BlendMode) error {
	if b.canvas == nil {
		return errNotStarted
	}
	_, err := b.raster.Draw(b.canvas, p, mode)
	return err
}

// End finalizes the rendering.
func (b *Backend) End() error {
	return nil
}

// Buffer returns the rendered canvas.
func (b *Backend) Buffer() *polyfit.Buffer {
	return b.canvas
}

// Image returns the rendered canvas as an 8-bit image, or nil before Begin.
func (b *Backend) Image() image.Image {
	if b.canvas == nil {
		return nil
	}
	return b.canvas.ToImage()
}

// WriteTo writes the rendered content as PNG to the given writer.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.canvas == nil {
		return 0, errNotStarted
	}
	cw := &countingWriter{w: w}
	err := imageio.Encode(cw, b.canvas, imageio.FormatPNG)
	return cw.n, err
}

// SaveToFile saves the rendered content to path. The image format follows
// the file extension.
func (b *Backend) SaveToFile(path string) error {
	if b.canvas == nil {
		return errNotStarted
	}
	return imageio.Save(b.canvas, path)
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
