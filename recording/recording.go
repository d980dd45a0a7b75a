package recording

import (
	"errors"
	"fmt"

	"github.com/gogpu/polyfit"
)

// Version is the recording format version written by this package.
const Version = 1

// ErrInvalidRecording is returned when a decoded recording is inconsistent.
var ErrInvalidRecording = errors.New("recording: invalid recording")

// Step is one accepted polygon and the mode it was composited with.
type Step struct {
	Vertices []polyfit.Point   `json:"vertices" yaml:"vertices" toml:"vertices"`
	Color    polyfit.RGBA      `json:"color" yaml:"color" toml:"color"`
	Mode     polyfit.BlendMode `json:"mode" yaml:"mode" toml:"mode"`
}

// Polygon returns the step's polygon, validated.
func (s Step) Polygon() (polyfit.Polygon, error) {
	return polyfit.NewPolygon(s.Vertices, s.Color)
}

// Recording is the replayable result of a run.
type Recording struct {
	Version  int              `json:"version" yaml:"version" toml:"version"`
	Width    int              `json:"width" yaml:"width" toml:"width"`
	Height   int              `json:"height" yaml:"height" toml:"height"`
	Channels int              `json:"channels" yaml:"channels" toml:"channels"`
	Metric   polyfit.Metric   `json:"metric" yaml:"metric" toml:"metric"`
	FillRule polyfit.FillRule `json:"fill_rule" yaml:"fill_rule" toml:"fill_rule"`

	// Score is the engine's score when the recording was taken. It is
	// informational; playback does not depend on it.
	Score float64 `json:"score" yaml:"score" toml:"score"`

	Steps []Step `json:"steps" yaml:"steps" toml:"steps"`
}

// New returns an empty recording for a canvas of shape s.
func New(s polyfit.Shape, m polyfit.Metric, rule polyfit.FillRule) *Recording {
	return &Recording{
		Version:  Version,
		Width:    s.Width,
		Height:   s.Height,
		Channels: s.Channels,
		Metric:   m,
		FillRule: rule,
	}
}

// FromEngine captures the accepted candidates of e.
func FromEngine(e *polyfit.Engine) *Recording {
	r := New(e.Shape(), e.Metric(), e.FillRule())
	r.Score = e.Score()
	for _, c := range e.Accepted() {
		r.Append(c)
	}
	return r
}

// Append adds a candidate as the next step.
func (r *Recording) Append(c polyfit.Candidate) {
	r.Steps = append(r.Steps, Step{
		Vertices: append([]polyfit.Point(nil), c.Polygon.Vertices...),
		Color:    c.Polygon.Color,
		Mode:     c.Mode,
	})
}

// Shape returns the canvas shape of the recording.
func (r *Recording) Shape() (polyfit.Shape, error) {
	return polyfit.NewShape(r.Width, r.Height, r.Channels)
}

// Len returns the number of steps.
func (r *Recording) Len() int {
	return len(r.Steps)
}

// Candidates returns the steps as validated engine candidates.
func (r *Recording) Candidates() ([]polyfit.Candidate, error) {
	out := make([]polyfit.Candidate, 0, len(r.Steps))
	for i, s := range r.Steps {
		p, err := s.Polygon()
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %w", ErrInvalidRecording, i, err)
		}
		if !s.Mode.IsValid() {
			return nil, fmt.Errorf("%w: step %d: blend mode %d", ErrInvalidRecording, i, s.Mode)
		}
		out = append(out, polyfit.Candidate{Polygon: p, Mode: s.Mode})
	}
	return out, nil
}

// Validate checks the header and every step.
func (r *Recording) Validate() error {
	if r.Version < 1 || r.Version > Version {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidRecording, r.Version)
	}
	if _, err := r.Shape(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecording, err)
	}
	if !r.Metric.IsValid() {
		return fmt.Errorf("%w: metric %d", ErrInvalidRecording, r.Metric)
	}
	_, err := r.Candidates()
	return err
}

// Playback replays every step into b, bracketed by Begin and End.
func (r *Recording) Playback(b Backend) error {
	s, err := r.Shape()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecording, err)
	}
	cands, err := r.Candidates()
	if err != nil {
		return err
	}

	if err := b.Begin(s, r.FillRule); err != nil {
		return fmt.Errorf("recording: begin: %w", err)
	}
	for i, c := range cands {
		if err := b.DrawPolygon(c.Polygon, c.Mode); err != nil {
			return fmt.Errorf("recording: step %d: %w", i, err)
		}
	}
	if err := b.End(); err != nil {
		return fmt.Errorf("recording: end: %w", err)
	}

	polyfit.Logger().Debug("recording: playback", "steps", len(cands), "shape", s.String())
	return nil
}
