package recording

import (
	"errors"
	"testing"

	"github.com/gogpu/polyfit"
)

func mustEngine(t *testing.T) *polyfit.Engine {
	t.Helper()
	s, err := polyfit.NewShape(8, 6, 3)
	if err != nil {
		t.Fatal(err)
	}
	target, err := polyfit.NewBuffer(s)
	if err != nil {
		t.Fatal(err)
	}
	e, err := polyfit.New(target, polyfit.WithSeed(11), polyfit.WithFillRule(polyfit.FillNonZero))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = e.Close() })

	left, _ := polyfit.NewPolygon([]polyfit.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 6}, {X: 0, Y: 6}}, polyfit.Black)
	tri, _ := polyfit.NewPolygon([]polyfit.Point{{X: 4, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 6}}, polyfit.RGBA{R: 0.1, A: 0.8})
	if res, err := e.Step(left, polyfit.BlendAlpha); err != nil || !res.Accepted {
		t.Fatalf("Step = %+v, %v", res, err)
	}
	if res, err := e.Step(tri, polyfit.BlendMultiply); err != nil || !res.Accepted {
		t.Fatalf("Step = %+v, %v", res, err)
	}
	return e
}

func TestFromEngine(t *testing.T) {
	e := mustEngine(t)
	r := FromEngine(e)

	if r.Version != Version || r.Width != 8 || r.Height != 6 || r.Channels != 3 {
		t.Errorf("header = %+v", r)
	}
	if r.FillRule != polyfit.FillNonZero || r.Metric != polyfit.MetricMSE {
		t.Errorf("FillRule=%v Metric=%v", r.FillRule, r.Metric)
	}
	if r.Score != e.Score() {
		t.Errorf("Score = %v, want %v", r.Score, e.Score())
	}
	if r.Len() != 2 || r.Steps[1].Mode != polyfit.BlendMultiply {
		t.Errorf("Steps = %+v", r.Steps)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestPlayback(t *testing.T) {
	r := FromEngine(mustEngine(t))
	b := &mockBackend{}
	if err := r.Playback(b); err != nil {
		t.Fatal(err)
	}
	if b.beginCalls != 1 || b.endCalls != 1 {
		t.Errorf("Begin/End calls = %d/%d, want 1/1", b.beginCalls, b.endCalls)
	}
	if b.shape.Width != 8 || b.rule != polyfit.FillNonZero {
		t.Errorf("Begin(%v, %v)", b.shape, b.rule)
	}
	if len(b.polygons) != 2 || b.modes[0] != polyfit.BlendAlpha || b.modes[1] != polyfit.BlendMultiply {
		t.Errorf("drawn %d polygons with modes %v", len(b.polygons), b.modes)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Recording {
		r := New(polyfit.Shape{Width: 4, Height: 4, Channels: 1}, polyfit.MetricMSE, polyfit.FillEvenOdd)
		r.Steps = []Step{{Vertices: []polyfit.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}}, Color: polyfit.White}}
		return r
	}

	tests := []struct {
		name   string
		mutate func(*Recording)
	}{
		{"version", func(r *Recording) { r.Version = 99 }},
		{"shape", func(r *Recording) { r.Channels = 2 }},
		{"metric", func(r *Recording) { r.Metric = 42 }},
		{"degenerate step", func(r *Recording) { r.Steps[0].Vertices = r.Steps[0].Vertices[:2] }},
		{"mode", func(r *Recording) { r.Steps[0].Mode = 77 }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid recording: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			if err := r.Validate(); !errors.Is(err, ErrInvalidRecording) {
				t.Errorf("Validate error = %v, want ErrInvalidRecording", err)
			}
		})
	}
}
