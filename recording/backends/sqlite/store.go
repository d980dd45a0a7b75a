// Package sqlite persists recordings in a SQLite database using the pure-Go
// modernc.org/sqlite driver.
//
// A Store keeps one row per run and one row per accepted step. Run IDs are
// time-ordered UUIDv7 strings, so listing runs by ID lists them by age.
//
// The package also registers a "sqlite" playback backend that saves each
// played-back recording as a new run in DefaultPath.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register driver

	"github.com/gogpu/polyfit"
	"github.com/gogpu/polyfit/recording"
)

// Schema for the runs and steps tables. Open applies it automatically.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	version INTEGER NOT NULL,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	channels INTEGER NOT NULL,
	metric TEXT NOT NULL,
	fill_rule TEXT NOT NULL,
	score REAL NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS steps (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	mode TEXT NOT NULL,
	r REAL NOT NULL,
	g REAL NOT NULL,
	b REAL NOT NULL,
	a REAL NOT NULL,
	vertices TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

// ErrRunNotFound is returned when a run ID is not in the database.
var ErrRunNotFound = errors.New("sqlite: run not found")

// Run summarizes a stored recording.
type Run struct {
	ID        string
	CreatedAt time.Time
	Shape     polyfit.Shape
	Metric    polyfit.Metric
	Score     float64
	Steps     int
}

// Store reads and writes recordings.
type Store struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

// Open opens (creating if needed) the database at path and applies Schema.
// Use ":memory:" for a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One connection: SQLite serializes writers anyway, and an in-memory
	// database exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	s, err := NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an open database and applies Schema.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}
	return &Store{
		db:    db,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
		now:   time.Now,
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRecording stores r as a new run and returns its ID.
func (s *Store) SaveRecording(ctx context.Context, r *recording.Recording) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	id := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (id, version, width, height, channels, metric, fill_rule, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Version, r.Width, r.Height, r.Channels, r.Metric.String(), r.FillRule.String(), r.Score,
		s.now().UTC().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("sqlite: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO steps (run_id, seq, mode, r, g, b, a, vertices)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, st := range r.Steps {
		verts, err := json.Marshal(st.Vertices)
		if err != nil {
			return "", fmt.Errorf("sqlite: encode step %d: %w", i, err)
		}
		c := st.Color
		if _, err := stmt.ExecContext(ctx, id, i, st.Mode.String(), c.R, c.G, c.B, c.A, string(verts)); err != nil {
			return "", fmt.Errorf("sqlite: insert step %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("sqlite: commit: %w", err)
	}

	polyfit.Logger().Info("sqlite: saved run", "id", id, "steps", len(r.Steps))
	return id, nil
}

// LoadRecording reads the run with the given ID.
func (s *Store) LoadRecording(ctx context.Context, id string) (*recording.Recording, error) {
	var (
		r            recording.Recording
		metric, rule string
	)
	err := s.db.QueryRowContext(ctx, `SELECT version, width, height, channels, metric, fill_rule, score
		FROM runs WHERE id = ?`, id).
		Scan(&r.Version, &r.Width, &r.Height, &r.Channels, &metric, &rule, &r.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: query run: %w", err)
	}
	if r.Metric, err = polyfit.ParseMetric(metric); err != nil {
		return nil, fmt.Errorf("sqlite: run %s: %w", id, err)
	}
	if r.FillRule, err = polyfit.ParseFillRule(rule); err != nil {
		return nil, fmt.Errorf("sqlite: run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT mode, r, g, b, a, vertices
		FROM steps WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			st    recording.Step
			mode  string
			verts string
		)
		if err := rows.Scan(&mode, &st.Color.R, &st.Color.G, &st.Color.B, &st.Color.A, &verts); err != nil {
			return nil, fmt.Errorf("sqlite: scan step: %w", err)
		}
		if st.Mode, err = polyfit.ParseBlendMode(mode); err != nil {
			return nil, fmt.Errorf("sqlite: run %s: %w", id, err)
		}
		if err := json.Unmarshal([]byte(verts), &st.Vertices); err != nil {
			return nil, fmt.Errorf("sqlite: decode vertices: %w", err)
		}
		r.Steps = append(r.Steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate steps: %w", err)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Runs lists stored runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT r.id, r.created_at, r.width, r.height, r.channels, r.metric, r.score,
			(SELECT COUNT(*) FROM steps WHERE run_id = r.id)
		FROM runs r ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		var (
			run     Run
			created int64
			metric  string
		)
		if err := rows.Scan(&run.ID, &created, &run.Shape.Width, &run.Shape.Height, &run.Shape.Channels,
			&metric, &run.Score, &run.Steps); err != nil {
			return nil, fmt.Errorf("sqlite: scan run: %w", err)
		}
		run.CreatedAt = time.UnixMilli(created).UTC()
		if run.Metric, err = polyfit.ParseMetric(metric); err != nil {
			return nil, fmt.Errorf("sqlite: run %s: %w", run.ID, err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its steps.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
