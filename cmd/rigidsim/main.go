// Command rigidsim runs a scene headless and optionally records it to CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/jakecoffman/rigid"
	"github.com/jakecoffman/rigid/internal/scene"
	"github.com/jakecoffman/rigid/internal/trace"
	"github.com/jakecoffman/rigid/internal/watch"
	"github.com/jakecoffman/rigid/scenes"
)

type options struct {
	scenePath string
	demo      string
	steps     int
	delta     float64
	outputDir string
	sample    int
}

func main() {
	var opts options
	flag.StringVar(&opts.scenePath, "scene", "", "Path to a scene YAML file")
	flag.StringVar(&opts.demo, "demo", "", "Bundled scene to run instead of -scene")
	flag.IntVar(&opts.steps, "steps", 300, "Number of steps to run")
	flag.Float64Var(&opts.delta, "delta", rigid.DefaultDelta, "Step length in milliseconds")
	flag.StringVar(&opts.outputDir, "out", "", "Output directory for bodies.csv and events.csv")
	flag.IntVar(&opts.sample, "sample", 10, "Sample bodies every N steps")
	watchScene := flag.Bool("watch", false, "Run again whenever the scene file changes")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if opts.scenePath == "" && opts.demo == "" {
		logger.Error("either -scene or -demo is required", "demos", scenes.Names())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, opts); err != nil {
		logger.Error("run failed", "err", err)
		if !*watchScene {
			os.Exit(1)
		}
	}
	if *watchScene {
		if opts.scenePath == "" {
			logger.Error("-watch needs -scene")
			os.Exit(2)
		}
		if err := watchAndRun(ctx, logger, opts); err != nil {
			logger.Error("watch failed", "err", err)
			os.Exit(1)
		}
	}
}

func load(opts options) (*scene.Scene, error) {
	if opts.scenePath != "" {
		return scene.Load(opts.scenePath)
	}
	data, err := scenes.Read(opts.demo)
	if err != nil {
		return nil, err
	}
	return scene.Parse(data)
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	s, err := load(opts)
	if err != nil {
		return err
	}
	engine, err := s.Build(logger)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}

	var recorder *trace.Recorder
	if opts.outputDir != "" {
		recorder, err = trace.Create(opts.outputDir, opts.sample)
		if err != nil {
			return err
		}
		if opts.scenePath != "" {
			if err := s.WriteYAML(filepath.Join(opts.outputDir, "scene.yaml")); err != nil {
				recorder.Close()
				return err
			}
		}
	} else {
		recorder = trace.New(nil, nil, opts.sample)
	}
	recorder.Attach(engine)

	logger.Info("starting simulation",
		"scene", opts.scenePath,
		"demo", opts.demo,
		"bodies", len(engine.World().AllBodies()),
		"steps", opts.steps,
		"delta", opts.delta,
	)

	start := time.Now()
	step := 0
	for ; step < opts.steps; step++ {
		if ctx.Err() != nil {
			break
		}
		engine.Update(opts.delta)
	}
	elapsed := time.Since(start)

	if err := recorder.Close(); err != nil {
		return err
	}
	logger.Info("simulation finished",
		"steps", step,
		"elapsed", elapsed,
		"sim_time_ms", engine.Timing.Timestamp,
		"summary", recorder.Summary(),
	)
	if step < opts.steps {
		return errors.New("interrupted")
	}
	return nil
}

func watchAndRun(ctx context.Context, logger *slog.Logger, opts options) error {
	w, err := watch.New(opts.scenePath)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching scene", "path", opts.scenePath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			logger.Info("scene changed", "path", path)
			if err := run(ctx, logger, opts); err != nil {
				logger.Error("run failed", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
