// Command polyfit approximates an image with translucent polygons.
//
// Usage:
//
//	polyfit -input photo.jpg -output out.png -steps 2000
//	polyfit -config run.yaml -record run.toml -db runs.db
//
// Flags given on the command line override the configuration file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/polyfit"
	"github.com/gogpu/polyfit/internal/config"
	imageio "github.com/gogpu/polyfit/internal/image"
	"github.com/gogpu/polyfit/recording"
	"github.com/gogpu/polyfit/recording/backends/sqlite"
	"github.com/gogpu/polyfit/recording/backends/svg"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML or TOML configuration file")
		input      = flag.String("input", "", "target image")
		output     = flag.String("output", "", "output image (default out.png)")
		record     = flag.String("record", "", "write the accepted polygons to this .yaml, .toml or .json file")
		database   = flag.String("db", "", "store the run in this SQLite database")
		svgPath    = flag.String("svg", "", "also render the result as SVG")
		steps      = flag.Int("steps", 0, "number of steps (default 1000)")
		candidates = flag.Int("candidates", 0, "candidates evaluated per step (default 16)")
		workers    = flag.Int("workers", 0, "evaluation goroutines (default GOMAXPROCS)")
		seed       = flag.Uint64("seed", 0, "random seed (0 picks one)")
		mode       = flag.String("mode", "", "blend mode: "+modeNames())
		metric     = flag.String("metric", "", "similarity metric: mse, mae or psnr")
		fillRule   = flag.String("fill", "", "fill rule: evenodd or nonzero")
		channels   = flag.Int("channels", 0, "channels: 1, 3 or 4 (default 3)")
		maxSize    = flag.Int("max-size", 0, "downsize the target so no side exceeds this (default 256)")
		linear     = flag.Bool("linear", false, "work in linear light")
		alpha      = flag.Float64("alpha", 0, "polygon opacity (default 0.5)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	polyfit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}

	// Explicit flags win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "output":
			cfg.Output = *output
		case "record":
			cfg.Record = *record
		case "db":
			cfg.Database = *database
		case "steps":
			cfg.Steps = *steps
		case "candidates":
			cfg.Candidates = *candidates
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "mode":
			cfg.Mode = *mode
		case "metric":
			cfg.Metric = *metric
		case "fill":
			cfg.FillRule = *fillRule
		case "channels":
			cfg.Channels = *channels
		case "max-size":
			cfg.MaxSize = *maxSize
		case "linear":
			cfg.Linear = *linear
		case "alpha":
			cfg.Alpha = *alpha
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *svgPath); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, svgPath string) error {
	var ioOpts []imageio.Option
	if cfg.Linear {
		ioOpts = append(ioOpts, imageio.WithLinear())
	}

	target, err := imageio.Load(cfg.Input, cfg.Channels, append(ioOpts, imageio.WithMaxSize(cfg.MaxSize))...)
	if err != nil {
		return err
	}

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	e, err := polyfit.New(target, cfg.EngineOptions()...)
	if err != nil {
		return err
	}
	defer e.Close()

	p := message.NewPrinter(language.English)
	p.Printf("%s: %v, %s, seed %d, %d steps of %d candidates\n",
		cfg.Input, e.Shape(), e.Metric(), cfg.Seed, cfg.Steps, cfg.Candidates)

	start := time.Now()
	if err := optimize(ctx, e, cfg, p); err != nil {
		return err
	}
	stats := e.Stats()
	p.Printf("done in %v: %d accepted of %d proposed, score %.6f\n",
		time.Since(start).Round(time.Millisecond), stats.Accepted, stats.Proposed, e.Score())

	if err := imageio.Save(e.Current(), cfg.Output, ioOpts...); err != nil {
		return err
	}
	reportFile(p, cfg.Output)

	rec := recording.FromEngine(e)
	if cfg.Record != "" {
		if err := recording.Save(rec, cfg.Record); err != nil {
			return err
		}
		reportFile(p, cfg.Record)
	}
	if svgPath != "" {
		b := svg.NewBackend()
		if err := rec.Playback(b); err != nil {
			return err
		}
		if err := b.SaveToFile(svgPath); err != nil {
			return err
		}
		reportFile(p, svgPath)
	}
	if cfg.Database != "" {
		store, err := sqlite.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.SaveRecording(ctx, rec)
		if err != nil {
			return err
		}
		p.Printf("run %s stored in %s\n", id, cfg.Database)
	}
	return nil
}

// optimize runs cfg.Steps batch steps. An interrupt stops early and keeps
// the progress made so far.
func optimize(ctx context.Context, e *polyfit.Engine, cfg config.Config, p *message.Printer) error {
	gen := cfg.Generator()
	mode := cfg.BlendMode()
	every := max(cfg.Steps/10, 1)

	for i := range cfg.Steps {
		if ctx.Err() != nil {
			p.Printf("interrupted after %d steps\n", i)
			return nil
		}

		cands, err := e.Propose(gen, cfg.Candidates, mode)
		if errors.Is(err, polyfit.ErrDegeneratePolygon) {
			continue
		}
		if err != nil {
			return err
		}
		if _, err := e.StepBatch(cands); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		if (i+1)%every == 0 {
			p.Printf("step %d/%d: score %.6f, %d polygons\n", i+1, cfg.Steps, e.Score(), e.Stats().Accepted)
		}
	}
	return nil
}

func reportFile(p *message.Printer, path string) {
	fi, err := os.Stat(path)
	if err != nil {
		return
	}
	p.Printf("wrote %s (%s)\n", path, humanize.Bytes(uint64(fi.Size())))
}

func modeNames() string {
	var s string
	for i, m := range polyfit.BlendModes() {
		if i > 0 {
			s += ", "
		}
		s += m.String()
	}
	return s
}
