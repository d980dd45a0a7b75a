// Package image loads and saves polyfit buffers.
//
// Decoders are registered for PNG, JPEG and GIF from the standard library
// and BMP, TIFF and WebP from golang.org/x/image. Every format except WebP
// can also be encoded.
package image

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// Format identifies an image file format.
type Format uint8

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatGIF
	FormatBMP
	FormatTIFF
	FormatWebP

	formatCount
)

var formatNames = [formatCount]string{
	FormatPNG:  "png",
	FormatJPEG: "jpeg",
	FormatGIF:  "gif",
	FormatBMP:  "bmp",
	FormatTIFF: "tiff",
	FormatWebP: "webp",
}

// String returns the format name as reported by image.Decode.
func (f Format) String() string {
	if f >= formatCount {
		return "unknown"
	}
	return formatNames[f]
}

// CanEncode reports whether buffers can be written in this format.
func (f Format) CanEncode() bool {
	return f < formatCount && f != FormatWebP
}

// ParseFormat returns the format with the given name or file extension
// (with or without the leading dot).
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "webp":
		return FormatWebP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath returns the format implied by the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%w: no extension in %q", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}
