package recording

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMarshalRoundTrip(t *testing.T) {
	want := FromEngine(mustEngine(t))

	for _, f := range []Format{FormatYAML, FormatTOML, FormatJSON} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := Marshal(want, f)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got, err := Unmarshal(data, f)
			if err != nil {
				t.Fatalf("Unmarshal: %v\n%s", err, data)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshal_TextEnums(t *testing.T) {
	r := FromEngine(mustEngine(t))
	data, err := Marshal(r, FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"metric: mse", "fill_rule: nonzero", "mode: multiply"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("yaml output missing %q:\n%s", want, data)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	want := FromEngine(mustEngine(t))

	for _, name := range []string{"run.yaml", "run.yml", "run.toml", "run.json"} {
		path := filepath.Join(dir, name)
		if err := Save(want, path); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", name, diff)
		}
	}

	if err := Save(want, filepath.Join(dir, "run.xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Save(.xml) error = %v, want ErrUnknownFormat", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		f    Format
	}{
		{"bad yaml", "steps: [", FormatYAML},
		{"bad metric", `{"version":1,"width":2,"height":2,"channels":1,"metric":"ssim"}`, FormatJSON},
		{"bad shape", "version = 1\nwidth = 0\nheight = 2\nchannels = 1\nmetric = \"mse\"\n", FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data), tt.f); err == nil {
				t.Error("expected error")
			}
		})
	}
}
