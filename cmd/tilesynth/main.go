// Command tilesynth runs one tile synthesis from a tileset YAML file
// and a target grid size, printing progress as it runs and writing the
// resulting arrangement to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wavetile/tilesynth/internal/config"
	"github.com/wavetile/tilesynth/internal/eventbus"
	"github.com/wavetile/tilesynth/internal/logger"
	"github.com/wavetile/tilesynth/internal/tileset"
	"github.com/wavetile/tilesynth/internal/wfc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	tilesetPath := flag.String("tileset", "", "Path to a tile catalog YAML file (required)")
	configPath := flag.String("config", "", "Path to a config YAML file (defaults to built-in defaults)")
	width := flag.Int("width", 0, "Target grid width in tiles (required)")
	height := flag.Int("height", 0, "Target grid height in tiles (required)")
	outPath := flag.String("out", "arrangement.yaml", "Output path for the resulting arrangement")
	seedOverride := flag.Int64("seed", 0, "Override the configured random seed (0 uses the config value)")
	serve := flag.Bool("serve", false, "Broadcast the synthesis event stream over the configured WebSocket endpoint while running")

	flag.Parse()

	if *tilesetPath == "" {
		return fmt.Errorf("--tileset is required")
	}
	if *width <= 0 || *height <= 0 {
		return fmt.Errorf("--width and --height must both be positive")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := logger.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	tiles, err := tileset.Load(*tilesetPath)
	if err != nil {
		return fmt.Errorf("loading tileset: %w", err)
	}

	opts := wfc.DefaultOptions()
	opts.MaxAttempts = cfg.Synthesis.MaxAttempts
	opts.MaxIterationsPerAttempt = cfg.Synthesis.MaxIterationsPerAttempt
	opts.CandidatePoolSize = cfg.Synthesis.CandidatePoolSize
	opts.MaxConsecutiveContradictions = cfg.Synthesis.MaxConsecutiveContradictions
	opts.Seed = cfg.Synthesis.Seed
	opts.ProgressEvery = cfg.Synthesis.YieldEvery
	if *seedOverride != 0 {
		opts.Seed = *seedOverride
	}

	sinks := []wfc.Sink{progressSink{}}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *serve {
		hub := eventbus.NewHub(cfg.EventBus, 0, 0)
		addr := eventbus.Addr(cfg.EventBus)
		mux := http.NewServeMux()
		mux.Handle(cfg.EventBus.Path, hub)
		server := &http.Server{Addr: addr, Handler: mux}

		go func() {
			logger.Infof("eventbus: listening on %s%s", addr, cfg.EventBus.Path)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("eventbus: server error: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			server.Shutdown(shutdownCtx)
		}()

		sinks = append(sinks, hub)
	}

	synth, err := wfc.NewSynthesizer(tiles, opts, multiSink(sinks))
	if err != nil {
		return fmt.Errorf("building synthesizer: %w", err)
	}

	fmt.Printf("Synthesizing a %dx%d grid from %d tiles (seed %d)\n", *width, *height, len(tiles), opts.Seed)

	arrangement, err := synth.Run(ctx, *width, *height)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	if rules, err := wfc.NewRuleTable(tiles); err == nil {
		if violations := wfc.Validate(arrangement, rules); len(violations) > 0 {
			logger.Warningf("synthesis succeeded but the arrangement has %d adjacency violations", len(violations))
		}
	}

	if err := tileset.WriteArrangement(*outPath, arrangement); err != nil {
		return fmt.Errorf("writing arrangement: %w", err)
	}

	fmt.Printf("Wrote %s\n", *outPath)
	return nil
}

// progressSink prints a one-line status update for each attempt start
// and final result; EventProgress is intentionally not printed since
// grids of any reasonable size emit far too many to read.
type progressSink struct{}

func (progressSink) Emit(e wfc.Event) {
	switch e.Kind {
	case wfc.EventAttemptStart:
		fmt.Printf("attempt %d/%d...\n", e.AttemptNumber, e.MaxAttempts)
	case wfc.EventResult:
		if e.Result == nil {
			return
		}
		if e.Result.Success {
			fmt.Printf("attempt %d succeeded (compatibility score %d)\n", e.Result.AttemptNumber, e.Result.CompatibilityScore)
		} else if !e.Result.IsPartial {
			fmt.Printf("all attempts exhausted: %v\n", e.Result.Err)
		}
	}
}

// multiSink fans one event out to several sinks in order.
type multiSink []wfc.Sink

func (m multiSink) Emit(e wfc.Event) {
	for _, s := range m {
		s.Emit(e)
	}
}
