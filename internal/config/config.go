// Package config loads polyfit run configuration from YAML or TOML files.
//
// Files are decoded over Default, so a file only needs to name what it
// changes:
//
//	input: photo.jpg
//	output: out.png
//	steps: 2000
//	mode: multiply
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/polyfit"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Anneal configures the simulated-annealing acceptor. A zero Temperature
// selects greedy acceptance.
type Anneal struct {
	Temperature float64 `yaml:"temperature" toml:"temperature"`
	Cooling     float64 `yaml:"cooling" toml:"cooling"`
}

// Config describes one run.
type Config struct {
	// Input is the target image path.
	Input string `yaml:"input" toml:"input"`
	// Output is the path of the final canvas image.
	Output string `yaml:"output" toml:"output"`
	// Record is an optional recording path (.yaml, .toml or .json).
	Record string `yaml:"record" toml:"record"`
	// Database is an optional SQLite file that receives the run.
	Database string `yaml:"database" toml:"database"`

	Steps      int    `yaml:"steps" toml:"steps"`
	Candidates int    `yaml:"candidates" toml:"candidates"`
	Workers    int    `yaml:"workers" toml:"workers"`
	Seed       uint64 `yaml:"seed" toml:"seed"`

	Mode     string `yaml:"mode" toml:"mode"`
	Metric   string `yaml:"metric" toml:"metric"`
	FillRule string `yaml:"fill_rule" toml:"fill_rule"`

	Channels int  `yaml:"channels" toml:"channels"`
	MaxSize  int  `yaml:"max_size" toml:"max_size"`
	Linear   bool `yaml:"linear" toml:"linear"`

	Alpha       float64 `yaml:"alpha" toml:"alpha"`
	MinVertices int     `yaml:"min_vertices" toml:"min_vertices"`
	MaxVertices int     `yaml:"max_vertices" toml:"max_vertices"`
	MaxRadius   float64 `yaml:"max_radius" toml:"max_radius"`

	Anneal Anneal `yaml:"anneal" toml:"anneal"`
}

// Default returns the configuration used for unset fields.
func Default() Config {
	return Config{
		Output:      "out.png",
		Steps:       1000,
		Candidates:  16,
		Mode:        "alpha",
		Metric:      "mse",
		FillRule:    "evenodd",
		Channels:    3,
		MaxSize:     256,
		Alpha:       0.5,
		MinVertices: 3,
		MaxVertices: 5,
	}
}

// Load reads the file at path. The format follows the extension: .yaml,
// .yml or .toml. The file is decoded over Default, so fields it omits keep
// their default and fields it sets, including explicit zeros, are kept.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("config: read file: %w", err)
	}

	c := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported file extension %q", ext)
	}

	return c, nil
}

// Validate reports every invalid field in one error.
func (c Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input is required"))
	}
	if c.Steps < 0 {
		errs = append(errs, fmt.Errorf("steps must be >= 0, got %d", c.Steps))
	}
	if c.Candidates < 1 {
		errs = append(errs, fmt.Errorf("candidates must be >= 1, got %d", c.Candidates))
	}
	if _, err := polyfit.ParseBlendMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := polyfit.ParseMetric(c.Metric); err != nil {
		errs = append(errs, err)
	}
	if _, err := polyfit.ParseFillRule(c.FillRule); err != nil {
		errs = append(errs, err)
	}
	switch c.Channels {
	case 1, 3, 4:
	default:
		errs = append(errs, fmt.Errorf("channels must be 1, 3 or 4, got %d", c.Channels))
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		errs = append(errs, fmt.Errorf("alpha must be in (0, 1], got %v", c.Alpha))
	}
	if c.MinVertices < 3 || c.MaxVertices < c.MinVertices {
		errs = append(errs, fmt.Errorf("vertex range [%d, %d] is invalid", c.MinVertices, c.MaxVertices))
	}
	if c.Anneal.Temperature < 0 || c.Anneal.Cooling < 0 || c.Anneal.Cooling > 1 {
		errs = append(errs, fmt.Errorf("anneal %+v is invalid", c.Anneal))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// EngineOptions translates the configuration into engine options.
// Validate must have succeeded.
func (c Config) EngineOptions() []polyfit.Option {
	metric, _ := polyfit.ParseMetric(c.Metric)
	rule, _ := polyfit.ParseFillRule(c.FillRule)

	opts := []polyfit.Option{
		polyfit.WithMetric(metric),
		polyfit.WithFillRule(rule),
		polyfit.WithWorkers(c.Workers),
	}
	if c.Seed != 0 {
		opts = append(opts, polyfit.WithSeed(c.Seed))
	}
	if c.Anneal.Temperature > 0 {
		cooling := c.Anneal.Cooling
		if cooling == 0 {
			cooling = 0.999
		}
		opts = append(opts, polyfit.WithAcceptor(polyfit.NewAnnealing(c.Anneal.Temperature, cooling)))
	}
	return opts
}

// Generator returns the candidate generator described by c.
func (c Config) Generator() polyfit.RandomPolygons {
	return polyfit.RandomPolygons{
		MinVertices: c.MinVertices,
		MaxVertices: c.MaxVertices,
		MaxRadius:   c.MaxRadius,
		Alpha:       c.Alpha,
	}
}

// BlendMode returns the parsed mode. Validate must have succeeded.
func (c Config) BlendMode() polyfit.BlendMode {
	m, _ := polyfit.ParseBlendMode(c.Mode)
	return m
}
