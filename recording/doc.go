// Package recording stores the polygons accepted during a polyfit run so the
// result can be saved, reloaded and replayed.
//
// A Recording is a plain value: the target shape, the metric and fill rule
// of the run and the ordered list of accepted steps. Replaying the steps onto
// a white canvas of the same shape reproduces the engine's canvas exactly.
//
// # Basic Usage
//
//	rec := recording.FromEngine(e)
//	if err := recording.Save(rec, "run.yaml"); err != nil {
//	    // Handle error
//	}
//
//	rec, err := recording.Load("run.yaml")
//
// # Formats
//
// Recordings encode to YAML (gopkg.in/yaml.v3), TOML
// (github.com/pelletier/go-toml/v2) and JSON. Save and Load pick the format
// from the file extension.
//
// # Playback to Backends
//
// Play back recordings to different outputs:
//
//	import _ "github.com/gogpu/polyfit/recording/backends/svg"
//
//	svgBackend, _ := recording.NewBackend("svg")
//	rec.Playback(svgBackend)
//	svgBackend.(recording.FileBackend).SaveToFile("output.svg")
//
//	// Raster output
//	rasterBackend, _ := recording.NewBackend("raster")
//	rec.Playback(rasterBackend)
//	rasterBackend.(recording.BufferBackend).Buffer() // Get pixel data
//
// # Backend Registration
//
// Backends register themselves in init(), following the database/sql driver
// pattern. Import a backend package for its side effect to make it available
// through NewBackend.
package recording
