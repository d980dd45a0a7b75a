package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/polyfit"
)

func testBuffer(t *testing.T, channels int) *polyfit.Buffer {
	t.Helper()
	s, err := polyfit.NewShape(6, 4, channels)
	if err != nil {
		t.Fatal(err)
	}
	b, err := polyfit.NewBuffer(s)
	if err != nil {
		t.Fatal(err)
	}
	for y := range 4 {
		for x := range 6 {
			v := float64(x*40+y*10) / 255
			_ = b.Set(x, y, polyfit.Pixel{v, 1 - v, float64(y*60) / 255, 1})
		}
	}
	return b
}

func TestEncodeDecode_Lossless(t *testing.T) {
	for _, format := range []Format{FormatPNG, FormatBMP, FormatTIFF} {
		for _, ch := range []int{1, 3, 4} {
			t.Run(format.String(), func(t *testing.T) {
				want := testBuffer(t, ch)

				var buf bytes.Buffer
				if err := Encode(&buf, want, format); err != nil {
					t.Fatalf("Encode: %v", err)
				}
				got, err := Decode(&buf, ch)
				if err != nil {
					t.Fatalf("Decode: %v", err)
				}
				if got.Shape() != want.Shape() {
					t.Fatalf("shape = %v, want %v", got.Shape(), want.Shape())
				}
				ws, gs := want.Samples(), got.Samples()
				for i := range ws {
					if math.Abs(ws[i]-gs[i]) > 1e-9 {
						t.Fatalf("channels=%d sample %d = %v, want %v", ch, i, gs[i], ws[i])
					}
				}
			})
		}
	}
}

func TestEncode_Lossy(t *testing.T) {
	for _, format := range []Format{FormatJPEG, FormatGIF} {
		want := testBuffer(t, 3)
		var buf bytes.Buffer
		if err := Encode(&buf, want, format, WithQuality(100)); err != nil {
			t.Fatalf("%v: Encode: %v", format, err)
		}
		got, err := Decode(&buf, 3)
		if err != nil {
			t.Fatalf("%v: Decode: %v", format, err)
		}
		if got.Shape() != want.Shape() {
			t.Errorf("%v: shape = %v, want %v", format, got.Shape(), want.Shape())
		}
	}
}

func TestEncode_WebPUnsupported(t *testing.T) {
	err := Encode(&bytes.Buffer{}, testBuffer(t, 3), FormatWebP)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	want := testBuffer(t, 3)

	for _, name := range []string{"out.png", "out.bmp", "out.tif"} {
		path := filepath.Join(dir, name)
		if err := Save(want, path); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		got, err := Load(path, 3)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if got.Shape() != want.Shape() {
			t.Errorf("%s: shape = %v", name, got.Shape())
		}
	}

	if err := Save(want, filepath.Join(dir, "out.xyz")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unknown extension error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.png"), 3); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadFromBytes(t *testing.T) {
	if _, err := LoadFromBytes(nil, 3); !errors.Is(err, ErrEmptyData) {
		t.Errorf("error = %v, want ErrEmptyData", err)
	}
	if _, err := LoadFromBytes([]byte("not an image"), 3); err == nil {
		t.Error("expected decode error")
	}

	data, err := EncodeToBytes(testBuffer(t, 4))
	if err != nil {
		t.Fatal(err)
	}
	b, err := LoadFromBytes(data, 4, WithMaxSize(3))
	if err != nil {
		t.Fatal(err)
	}
	if b.Width() != 3 || b.Height() != 2 {
		t.Errorf("resized to %dx%d, want 3x2", b.Width(), b.Height())
	}
}

func TestLinearRoundTrip(t *testing.T) {
	want := testBuffer(t, 4)
	var buf bytes.Buffer
	if err := Encode(&buf, want, FormatPNG); err != nil {
		t.Fatal(err)
	}
	lin, err := Decode(bytes.NewReader(buf.Bytes()), 4, WithLinear())
	if err != nil {
		t.Fatal(err)
	}

	// Alpha is never converted.
	px, _ := lin.Get(0, 0)
	if px[3] != 1 {
		t.Errorf("alpha = %v, want 1", px[3])
	}

	var out bytes.Buffer
	if err := Encode(&out, lin, FormatPNG, WithLinear()); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&out, 4)
	if err != nil {
		t.Fatal(err)
	}
	ws, gs := want.Samples(), got.Samples()
	for i := range ws {
		if math.Abs(ws[i]-gs[i]) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v", i, gs[i], ws[i])
		}
	}
}

func TestFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 10))
	for x := range 40 {
		for y := range 10 {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	tests := []struct {
		max        int
		wantW, wantH int
	}{
		{0, 40, 10},
		{50, 40, 10},
		{20, 20, 5},
		{8, 8, 2},
	}
	for _, tt := range tests {
		got := Fit(src, tt.max).Bounds()
		if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
			t.Errorf("Fit(%d) = %dx%d, want %dx%d", tt.max, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
		}
	}

	tall := image.NewGray(image.Rect(0, 0, 3, 30))
	if got := Fit(tall, 10).Bounds(); got.Dx() != 1 || got.Dy() != 10 {
		t.Errorf("Fit(tall) = %v, want 1x10", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", FormatPNG},
		{".JPG", FormatJPEG},
		{"jpeg", FormatJPEG},
		{"gif", FormatGIF},
		{".bmp", FormatBMP},
		{"tif", FormatTIFF},
		{"webp", FormatWebP},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := FormatFromPath("noext"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatFromPath error = %v", err)
	}
}
