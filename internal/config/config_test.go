package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/polyfit"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "run.yaml", `
input: photo.jpg
steps: 50
mode: multiply
fill_rule: nonzero
anneal:
  temperature: 0.01
  cooling: 0.99
`)
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Input = "photo.jpg"
	want.Steps = 50
	want.Mode = "multiply"
	want.FillRule = "nonzero"
	want.Anneal = Anneal{Temperature: 0.01, Cooling: 0.99}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "run.toml", `
input = "photo.png"
metric = "psnr"
channels = 4
seed = 7

[anneal]
temperature = 0.5
`)
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Input = "photo.png"
	want.Metric = "psnr"
	want.Channels = 4
	want.Seed = 7
	want.Anneal.Temperature = 0.5
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyYAML(t *testing.T) {
	got, err := Load(writeFile(t, "empty.yml", ""))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("empty file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_ExplicitZero(t *testing.T) {
	tests := []struct {
		file, content string
	}{
		{"zero.yaml", "input: in.png\nsteps: 0\nworkers: 0\n"},
		{"zero.toml", "input = \"in.png\"\nsteps = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if got.Steps != 0 {
				t.Errorf("Steps = %d, want explicit 0 kept", got.Steps)
			}
			if got.Candidates != Default().Candidates {
				t.Errorf("Candidates = %d, want default %d", got.Candidates, Default().Candidates)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"unknown extension", "run.ini", "input=x"},
		{"unknown yaml field", "run.yaml", "colour: red\n"},
		{"unknown toml field", "run.toml", "colour = \"red\"\n"},
		{"malformed toml", "run.toml", "steps = [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.file, tt.content)); err == nil {
				t.Error("Load should fail")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, want os.ErrNotExist", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Input = "in.png"

	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no input", func(c *Config) { c.Input = "" }, false},
		{"negative steps", func(c *Config) { c.Steps = -1 }, false},
		{"zero candidates", func(c *Config) { c.Candidates = 0 }, false},
		{"bad mode", func(c *Config) { c.Mode = "dissolve" }, false},
		{"bad metric", func(c *Config) { c.Metric = "ssim" }, false},
		{"bad fill rule", func(c *Config) { c.FillRule = "winding" }, false},
		{"two channels", func(c *Config) { c.Channels = 2 }, false},
		{"gray", func(c *Config) { c.Channels = 1 }, true},
		{"zero alpha", func(c *Config) { c.Alpha = 0 }, false},
		{"inverted vertices", func(c *Config) { c.MinVertices, c.MaxVertices = 6, 4 }, false},
		{"cooling above one", func(c *Config) { c.Anneal = Anneal{Temperature: 1, Cooling: 2} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	c := Default()
	c.Input = "in.png"
	c.Metric = "mae"
	c.FillRule = "nonzero"
	c.Mode = "screen"
	c.Seed = 3
	c.Anneal.Temperature = 0.1
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}

	target, err := polyfit.NewBuffer(polyfit.Shape{Width: 4, Height: 4, Channels: 3})
	if err != nil {
		t.Fatal(err)
	}
	e, err := polyfit.New(target, c.EngineOptions()...)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if e.Metric() != polyfit.MetricMAE {
		t.Errorf("Metric = %v, want mae", e.Metric())
	}
	if e.FillRule() != polyfit.FillNonZero {
		t.Errorf("FillRule = %v, want nonzero", e.FillRule())
	}
	if c.BlendMode() != polyfit.BlendScreen {
		t.Errorf("BlendMode = %v, want screen", c.BlendMode())
	}

	g := c.Generator()
	if g.MinVertices != 3 || g.MaxVertices != 5 || g.Alpha != 0.5 {
		t.Errorf("Generator = %+v", g)
	}
}
