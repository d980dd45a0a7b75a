package polyfit

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/polyfit/internal/blend"
)

// Pixel holds the channel values of one pixel. Only the first Channels
// entries of the owning buffer's shape are meaningful; the rest are zero.
type Pixel [4]float64

// Buffer is a rectangular pixel buffer of float64 samples in [0, 1].
//
// Samples are stored row-major and channel-interleaved, and the slice length
// always equals Shape().Len(). Every write clamps each channel to [0, 1].
//
// Thread safety: concurrent reads are safe; writes require external
// synchronization.
type Buffer struct {
	shape Shape
	data  []float64
}

// Canvas is a Buffer used as a render target.
type Canvas = Buffer

// NewBuffer creates a buffer of the given shape with every sample at 0.
func NewBuffer(s Shape) (*Buffer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Buffer{shape: s, data: make([]float64, s.Len())}, nil
}

// NewCanvas creates a fully white canvas of the given shape.
func NewCanvas(s Shape) (*Canvas, error) {
	b, err := NewBuffer(s)
	if err != nil {
		return nil, err
	}
	b.FillWhite()
	return b, nil
}

// NewBufferFrom creates a buffer holding a clamped copy of samples.
// len(samples) must equal s.Len().
func NewBufferFrom(s Shape, samples []float64) (*Buffer, error) {
	b, err := NewBuffer(s)
	if err != nil {
		return nil, err
	}
	if len(samples) != s.Len() {
		return nil, fmt.Errorf("%w: %d samples for shape %v", ErrShapeMismatch, len(samples), s)
	}
	for i, v := range samples {
		b.data[i] = blend.Clamp(v)
	}
	return b, nil
}

// Shape returns the buffer geometry.
func (b *Buffer) Shape() Shape {
	return b.shape
}

// Width returns the width of the buffer.
func (b *Buffer) Width() int {
	return b.shape.Width
}

// Height returns the height of the buffer.
func (b *Buffer) Height() int {
	return b.shape.Height
}

// Channels returns the number of channels per pixel.
func (b *Buffer) Channels() int {
	return b.shape.Channels
}

// Samples returns a copy of the raw samples.
func (b *Buffer) Samples() []float64 {
	out := make([]float64, len(b.data))
	copy(out, b.data)
	return out
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.shape.Width + x) * b.shape.Channels
}

// Get returns the pixel at (x, y).
func (b *Buffer) Get(x, y int) (Pixel, error) {
	if !b.shape.Contains(x, y) {
		return Pixel{}, fmt.Errorf("%w: (%d, %d) in %v", ErrOutOfBounds, x, y, b.shape)
	}
	var p Pixel
	i := b.offset(x, y)
	copy(p[:b.shape.Channels], b.data[i:i+b.shape.Channels])
	return p, nil
}

// Set stores the pixel at (x, y), clamping every channel to [0, 1].
func (b *Buffer) Set(x, y int, p Pixel) error {
	if !b.shape.Contains(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %v", ErrOutOfBounds, x, y, b.shape)
	}
	i := b.offset(x, y)
	for c := 0; c < b.shape.Channels; c++ {
		b.data[i+c] = blend.Clamp(p[c])
	}
	return nil
}

// Fill sets every pixel to p.
func (b *Buffer) Fill(p Pixel) {
	ch := b.shape.Channels
	for c := 0; c < ch; c++ {
		p[c] = blend.Clamp(p[c])
	}
	for i := 0; i < len(b.data); i += ch {
		copy(b.data[i:i+ch], p[:ch])
	}
}

// FillWhite sets every channel of every pixel to the maximum value.
func (b *Buffer) FillWhite() {
	for i := range b.data {
		b.data[i] = 1
	}
}

// Clone creates a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	data := make([]float64, len(b.data))
	copy(data, b.data)
	return &Buffer{shape: b.shape, data: data}
}

// CopyFrom overwrites b with the contents of src without allocating.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if b.shape != src.shape {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, b.shape, src.shape)
	}
	copy(b.data, src.data)
	return nil
}

// Equal reports whether both buffers have the same shape and bit-identical samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.shape != o.shape {
		return false
	}
	for i, v := range b.data {
		if v != o.data[i] {
			return false
		}
	}
	return true
}

// ToImage converts the buffer to an 8-bit image.
// Gray buffers become *image.Gray, RGB buffers opaque *image.RGBA and RGBA
// buffers *image.NRGBA.
func (b *Buffer) ToImage() image.Image {
	w, h := b.shape.Width, b.shape.Height
	rect := image.Rect(0, 0, w, h)

	switch b.shape.Channels {
	case 1:
		img := image.NewGray(rect)
		for i, v := range b.data {
			img.Pix[i] = toByte(v)
		}
		return img
	case 3:
		img := image.NewRGBA(rect)
		for p := 0; p < w*h; p++ {
			img.Pix[p*4+0] = toByte(b.data[p*3+0])
			img.Pix[p*4+1] = toByte(b.data[p*3+1])
			img.Pix[p*4+2] = toByte(b.data[p*3+2])
			img.Pix[p*4+3] = 255
		}
		return img
	default:
		img := image.NewNRGBA(rect)
		for i, v := range b.data {
			img.Pix[i] = toByte(v)
		}
		return img
	}
}

// FromImage converts an image into a buffer with the given channel count.
// Color images are reduced to gray with Rec.601 luma when channels is 1;
// alpha is dropped unless channels is 4.
func FromImage(img image.Image, channels int) (*Buffer, error) {
	bounds := img.Bounds()
	s, err := NewShape(bounds.Dx(), bounds.Dy(), channels)
	if err != nil {
		return nil, err
	}
	b, _ := NewBuffer(s)

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			c := color.NRGBA64Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
			px := RGBA{
				R: float64(c.R) / 0xffff,
				G: float64(c.G) / 0xffff,
				B: float64(c.B) / 0xffff,
				A: float64(c.A) / 0xffff,
			}
			_ = b.Set(x, y, px.Pixel(channels))
		}
	}
	return b, nil
}

// toByte quantizes a sample to 8 bits with rounding.
func toByte(v float64) uint8 {
	return uint8(blend.Clamp(v)*255 + 0.5)
}
