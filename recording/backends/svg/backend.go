// Package svg provides an SVG backend for the recording system.
//
// Each step becomes a <polygon> element on a white background. Blend modes
// map to the CSS mix-blend-mode property, so viewers that implement CSS
// compositing reproduce the raster result closely. Gray recordings are
// written in color; the gray value is what a 1-channel canvas would hold.
//
// # Example
//
//	import _ "github.com/gogpu/polyfit/recording/backends/svg"
//
//	backend, _ := recording.NewBackend("svg")
//	rec.Playback(backend)
//	backend.(recording.FileBackend).SaveToFile("output.svg")
package svg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gogpu/polyfit"
	"github.com/gogpu/polyfit/recording"
)

func init() {
	recording.Register("svg", func() recording.Backend {
		return NewBackend()
	})
}

var errNotFinished = errors.New("svg: document not finished")

// Backend writes recordings as SVG documents.
type Backend struct {
	buf      bytes.Buffer
	shape    polyfit.Shape
	rule     polyfit.FillRule
	started  bool
	finished bool
}

var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
)

// NewBackend creates a new SVG backend.
func NewBackend() *Backend {
	return &Backend{}
}

// cssBlendModes maps blend modes to mix-blend-mode values.
var cssBlendModes = map[polyfit.BlendMode]string{
	polyfit.BlendAlpha:      "normal",
	polyfit.BlendMultiply:   "multiply",
	polyfit.BlendScreen:     "screen",
	polyfit.BlendOverlay:    "overlay",
	polyfit.BlendDarken:     "darken",
	polyfit.BlendLighten:    "lighten",
	polyfit.BlendColorDodge: "color-dodge",
	polyfit.BlendColorBurn:  "color-burn",
	polyfit.BlendHardLight:  "hard-light",
	polyfit.BlendSoftLight:  "soft-light",
	polyfit.BlendDifference: "difference",
	polyfit.BlendExclusion:  "exclusion",
}

// Begin starts a new document for a canvas of the given shape.
func (b *Backend) Begin(s polyfit.Shape, rule polyfit.FillRule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	b.buf.Reset()
	b.shape = s
	b.rule = rule
	b.started = true
	b.finished = false

	fmt.Fprintf(&b.buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	fmt.Fprintf(&b.buf, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", s.Width, s.Height)
	// Isolate the group so blend modes only see the painted background.
	b.buf.WriteString(`<g style="isolation:isolate">` + "\n")
	return nil
}

// DrawPolygon appends a <polygon> element.
func (b *Backend) DrawPolygon(p polyfit.Polygon, mode polyfit.BlendMode) error {
	if !b.started || b.finished {
		return errors.New("svg: DrawPolygon outside Begin/End")
	}
	css, ok := cssBlendModes[mode]
	if !ok {
		return fmt.Errorf("svg: unsupported blend mode %d", mode)
	}

	b.buf.WriteString(`<polygon points="`)
	for i, v := range p.Vertices {
		if i > 0 {
			b.buf.WriteByte(' ')
		}
		b.buf.WriteString(formatFloat(v.X))
		b.buf.WriteByte(',')
		b.buf.WriteString(formatFloat(v.Y))
	}
	fmt.Fprintf(&b.buf, `" fill="%s" fill-opacity="%s" fill-rule="%s"`,
		b.fill(p.Color), formatFloat(p.Color.A), b.rule)
	if css != "normal" {
		fmt.Fprintf(&b.buf, ` style="mix-blend-mode:%s"`, css)
	}
	b.buf.WriteString("/>\n")
	return nil
}

// fill returns the hex color of c as it appears on the canvas.
func (b *Backend) fill(c polyfit.RGBA) string {
	c = c.Clamp()
	if b.shape.Channels == 1 {
		g := c.Luma()
		c = polyfit.RGBA{R: g, G: g, B: g}
	}
	return fmt.Sprintf("#%02x%02x%02x", toByte(c.R), toByte(c.G), toByte(c.B))
}

// End closes the document.
func (b *Backend) End() error {
	if !b.started {
		return errors.New("svg: End without Begin")
	}
	b.buf.WriteString("</g>\n</svg>\n")
	b.finished = true
	return nil
}

// Bytes returns the finished document.
func (b *Backend) Bytes() ([]byte, error) {
	if !b.finished {
		return nil, errNotFinished
	}
	return bytes.Clone(b.buf.Bytes()), nil
}

// WriteTo writes the finished document to w.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if !b.finished {
		return 0, errNotFinished
	}
	n, err := w.Write(b.buf.Bytes())
	return int64(n), err
}

// SaveToFile writes the finished document to path.
func (b *Backend) SaveToFile(path string) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("svg: write file: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toByte(v float64) uint8 {
	return uint8(v*255 + 0.5)
}
