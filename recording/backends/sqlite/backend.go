package sqlite

import (
	"context"
	"errors"

	"github.com/gogpu/polyfit"
	"github.com/gogpu/polyfit/recording"
)

// DefaultPath is the database opened by backends created through the
// recording registry.
const DefaultPath = "polyfit.db"

func init() {
	recording.Register("sqlite", func() recording.Backend {
		return &Backend{path: DefaultPath}
	})
}

// Backend saves each played-back recording as a new run.
// Playback carries no metric or score, so runs saved this way record
// MetricMSE and a zero score; use Store.SaveRecording to keep them.
type Backend struct {
	store *Store
	path  string
	owned bool

	rec   *recording.Recording
	runID string
}

var _ recording.Backend = (*Backend)(nil)

// NewBackend returns a backend writing to store.
func NewBackend(store *Store) *Backend {
	return &Backend{store: store}
}

// Begin starts a new run of the given shape, opening the database on first
// use if the backend came from the registry.
func (b *Backend) Begin(s polyfit.Shape, rule polyfit.FillRule) error {
	if b.store == nil {
		st, err := Open(b.path)
		if err != nil {
			return err
		}
		b.store = st
		b.owned = true
	}
	b.rec = recording.New(s, polyfit.MetricMSE, rule)
	b.runID = ""
	return nil
}

// DrawPolygon appends a step to the run.
func (b *Backend) DrawPolygon(p polyfit.Polygon, mode polyfit.BlendMode) error {
	if b.rec == nil {
		return errors.New("sqlite: DrawPolygon before Begin")
	}
	b.rec.Append(polyfit.Candidate{Polygon: p, Mode: mode})
	return nil
}

// End writes the run.
func (b *Backend) End() error {
	if b.rec == nil {
		return errors.New("sqlite: End before Begin")
	}
	id, err := b.store.SaveRecording(context.Background(), b.rec)
	if err != nil {
		return err
	}
	b.runID = id
	b.rec = nil
	return nil
}

// RunID returns the ID of the run written by the last End.
func (b *Backend) RunID() string {
	return b.runID
}

// Close closes the database if the backend opened it.
func (b *Backend) Close() error {
	if b.owned && b.store != nil {
		err := b.store.Close()
		b.store = nil
		b.owned = false
		return err
	}
	return nil
}
