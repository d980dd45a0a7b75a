package recording

import (
	"io"

	"github.com/gogpu/polyfit"
)

// Backend is the interface that all playback backends must implement.
// Backends receive the steps of a recording in order and translate them to
// their output (raster pixels, SVG elements, database rows).
//
// # Implementation Contract
//
// Each backend must:
//  1. Register in init() using recording.Register()
//  2. Accept Begin again after End to start a new playback
//  3. Draw steps in the order received; later steps composite over earlier ones
type Backend interface {
	// Begin initializes the backend for a canvas of the given shape.
	// This must be called before any drawing operations.
	Begin(shape polyfit.Shape, rule polyfit.FillRule) error

	// DrawPolygon composites p with the given mode.
	DrawPolygon(p polyfit.Polygon, mode polyfit.BlendMode) error

	// End finalizes the output.
	// After End is called, output methods (WriteTo, SaveToFile) can be used.
	End() error
}

// WriterBackend extends Backend with the ability to write output to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered content to the given writer.
	// This should only be called after End().
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend extends Backend with the ability to save output directly to a file.
type FileBackend interface {
	Backend

	// SaveToFile saves the rendered content to a file at the given path.
	// This should only be called after End().
	SaveToFile(path string) error
}

// BufferBackend extends Backend with access to the rendered pixels.
// This is implemented by the raster backend.
type BufferBackend interface {
	Backend

	// Buffer returns the rendered canvas, or nil before Begin.
	Buffer() *polyfit.Buffer
}
