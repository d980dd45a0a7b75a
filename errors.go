package polyfit

import "errors"

// Errors returned by polyfit. All of them are local, recoverable conditions;
// callers test for them with errors.Is.
var (
	// ErrInvalidShape is returned when a shape has a non-positive dimension
	// or a channel count other than 1, 3 or 4.
	ErrInvalidShape = errors.New("polyfit: invalid shape")

	// ErrShapeMismatch is returned when two buffers (or a buffer and a
	// coverage set) that must share a shape do not.
	ErrShapeMismatch = errors.New("polyfit: shape mismatch")

	// ErrOutOfBounds is returned when pixel coordinates are outside the buffer.
	ErrOutOfBounds = errors.New("polyfit: coordinates out of bounds")

	// ErrDegeneratePolygon is returned for polygons with fewer than three
	// vertices or with all vertices on one line.
	ErrDegeneratePolygon = errors.New("polyfit: degenerate polygon")

	// ErrInvalidCoordinate is returned when a vertex coordinate is NaN or infinite.
	ErrInvalidCoordinate = errors.New("polyfit: invalid coordinate")

	// ErrEmptyHistory is returned by Undo when there is nothing to revert.
	ErrEmptyHistory = errors.New("polyfit: empty history")
)
