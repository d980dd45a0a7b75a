package image

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/gogpu/polyfit"
	"github.com/gogpu/polyfit/internal/color"
)

// Load decodes the image at path into a buffer with the given channel count.
// The format is detected from the content.
func Load(path string, channels int, opts ...Option) (*polyfit.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(bufio.NewReader(f), channels, opts...)
}

// LoadFromBytes decodes an in-memory image.
func LoadFromBytes(data []byte, channels int, opts ...Option) (*polyfit.Buffer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data), channels, opts...)
}

// Decode decodes an image from r, auto-detecting the format.
func Decode(r io.Reader, channels int, opts ...Option) (*polyfit.Buffer, error) {
	o := applyOptions(opts)

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	src := img.Bounds()
	img = Fit(img, o.maxSize)

	var buf *polyfit.Buffer
	if o.linear {
		buf, err = decodeLinear(img, channels)
	} else {
		buf, err = polyfit.FromImage(img, channels)
	}
	if err != nil {
		return nil, fmt.Errorf("image: convert: %w", err)
	}

	polyfit.Logger().Debug("image: decoded",
		"format", format,
		"source", fmt.Sprintf("%dx%d", src.Dx(), src.Dy()),
		"shape", buf.Shape().String(),
		"linear", o.linear)
	return buf, nil
}

// decodeLinear converts img through 8-bit sRGB into linear-light samples.
func decodeLinear(img image.Image, channels int) (*polyfit.Buffer, error) {
	b, err := polyfit.FromImage(toNRGBA(img), channels)
	if err != nil {
		return nil, err
	}
	samples := b.Samples()
	forColorSamples(samples, channels, func(v float64) float64 {
		return color.DecodeByte(uint8(v*255 + 0.5))
	})
	return polyfit.NewBufferFrom(b.Shape(), samples)
}

// Save writes buf to path in the format implied by its extension.
func Save(buf *polyfit.Buffer, path string, opts ...Option) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, buf, format, opts...); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("image: write file: %w", err)
	}
	return f.Close()
}

// Encode writes buf to w in the given format.
func Encode(w io.Writer, buf *polyfit.Buffer, format Format, opts ...Option) error {
	o := applyOptions(opts)
	if !format.CanEncode() {
		return fmt.Errorf("%w: cannot encode %v", ErrUnsupportedFormat, format)
	}

	img, err := toImage(buf, o.linear)
	if err != nil {
		return err
	}

	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: o.quality})
	case FormatGIF:
		err = gif.Encode(w, img, nil)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		return fmt.Errorf("image: encode %v: %w", format, err)
	}
	return nil
}

// EncodeToBytes encodes buf as PNG and returns the bytes.
func EncodeToBytes(buf *polyfit.Buffer, opts ...Option) ([]byte, error) {
	var b bytes.Buffer
	if err := Encode(&b, buf, FormatPNG, opts...); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func toImage(buf *polyfit.Buffer, linear bool) (image.Image, error) {
	if !linear {
		return buf.ToImage(), nil
	}
	samples := buf.Samples()
	forColorSamples(samples, buf.Channels(), func(v float64) float64 {
		return float64(color.EncodeByte(v)) / 255
	})
	srgb, err := polyfit.NewBufferFrom(buf.Shape(), samples)
	if err != nil {
		return nil, fmt.Errorf("image: convert: %w", err)
	}
	return srgb.ToImage(), nil
}

// forColorSamples applies fn to every sample except the alpha channel.
func forColorSamples(samples []float64, channels int, fn func(float64) float64) {
	for i := range samples {
		if channels == 4 && i%4 == 3 {
			continue
		}
		samples[i] = fn(samples[i])
	}
}
