package polyfit

import "fmt"

// Shape describes the geometry of a Buffer: width, height and the number of
// interleaved channels per pixel. Shape is a comparable value type.
type Shape struct {
	Width    int
	Height   int
	Channels int
}

// NewShape validates and returns a Shape.
// Width and height must be positive and channels must be 1 (gray),
// 3 (RGB) or 4 (RGBA).
func NewShape(width, height, channels int) (Shape, error) {
	s := Shape{Width: width, Height: height, Channels: channels}
	if err := s.Validate(); err != nil {
		return Shape{}, err
	}
	return s, nil
}

// Validate reports whether s is a usable shape.
func (s Shape) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidShape, s.Width, s.Height)
	}
	switch s.Channels {
	case 1, 3, 4:
		return nil
	default:
		return fmt.Errorf("%w: %d channels", ErrInvalidShape, s.Channels)
	}
}

// Len returns the number of samples a buffer of this shape holds.
func (s Shape) Len() int {
	return s.Width * s.Height * s.Channels
}

// Pixels returns the number of pixels.
func (s Shape) Pixels() int {
	return s.Width * s.Height
}

// Contains reports whether (x, y) addresses a pixel inside the shape.
func (s Shape) Contains(x, y int) bool {
	return x >= 0 && x < s.Width && y >= 0 && y < s.Height
}

// String returns a human-readable form such as "64x48x3".
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Width, s.Height, s.Channels)
}
