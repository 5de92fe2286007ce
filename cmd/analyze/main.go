// Command analyze extracts per-frame HUD telemetry from a recorded frame directory or the live screen.
package main

import (
	"context"
	"errors"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/analyzer"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/config"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/digit"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/framesource"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/overlay"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/region"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/server"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

func main() {
	configPath := flag.StringP("config", "c", "", "path to config file (default: ./config.yaml if present)")
	dir := flag.String("dir", "", "frame directory, overrides source.dir")
	start := flag.Int("start", -1, "first frame index, overrides source.start")
	end := flag.Int("end", -1, "end frame index (exclusive), overrides source.end")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if *dir != "" {
		cfg.Source.Dir = *dir
	}
	if *start >= 0 {
		cfg.Source.Start = *start
	}
	if *end >= 0 {
		cfg.Source.End = *end
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	samplesDir := cfg.SamplesDir
	if samplesDir == "" {
		d, err := digit.ResolveSamplesDir()
		if err != nil {
			return err
		}
		samplesDir = d
	}
	sets, err := digit.LoadSets(samplesDir)
	if err != nil {
		return err
	}

	var masks []region.Mask
	if cfg.MaskPath != "" {
		m, err := region.LoadRasterMask(cfg.MaskPath)
		if err != nil {
			return err
		}
		masks = append(masks, m)
	}

	sess := analyzer.NewSession(analyzer.New(sets, cfg.Analyzer, masks...))

	src, err := openSource(cfg.Source)
	if err != nil {
		return err
	}

	sinks, closeSinks, err := openSinks(ctx, cfg.Output)
	if err != nil {
		return err
	}
	defer closeSinks()

	if cfg.Server.Addr != "" {
		go func() {
			if err := server.ListenAndServe(ctx, cfg.Server.Addr, sess); err != nil {
				log.Error().Err(err).Msg("query server stopped")
			}
		}()
	}

	n, err := analyzer.Run(ctx, sess, src, sinks...)
	mean, stddev, samples := sess.AxisStats()
	log.Info().
		Int("frames", n).
		Int("heroes", len(sess.Heroes())).
		Float64("axis_mean", mean).
		Float64("axis_stddev", stddev).
		Int("axis_samples", samples).
		Msg("analysis finished")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}

	// Keep serving queries after a finite source is drained.
	if cfg.Server.Addr != "" {
		log.Info().Str("addr", cfg.Server.Addr).Msg("serving results, interrupt to exit")
		<-ctx.Done()
	}
	return nil
}

func openSource(c config.SourceConfig) (framesource.Source, error) {
	if c.Screen {
		return framesource.NewScreenSource(image.Rectangle{}, time.Duration(c.IntervalMs)*time.Millisecond)
	}
	if c.Dir == "" {
		return nil, errors.New("no frame source: set source.dir or source.screen")
	}
	ds, err := framesource.NewDirSource(c.Dir, c.Start, c.End)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dir", c.Dir).Int("frames", ds.Len()).Msg("frame directory opened")
	return ds, nil
}

func openSinks(ctx context.Context, c config.OutputConfig) ([]analyzer.Sink, func(), error) {
	var (
		sinks   []analyzer.Sink
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn().Err(err).Msg("failed to close output")
			}
		}
	}

	if c.JSONLPath != "" {
		if err := os.MkdirAll(filepath.Dir(c.JSONLPath), 0o755); err != nil {
			return nil, nil, err
		}
		s, err := store.NewJSONLSink(c.JSONLPath)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, s)
		closers = append(closers, s.Close)
	}
	if c.MySQLDSN != "" {
		runID := time.Now().Format("20060102-150405")
		s, err := store.OpenMySQL(ctx, c.MySQLDSN, runID)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		log.Info().Str("run", runID).Msg("writing frames to mysql")
		sinks = append(sinks, s)
		closers = append(closers, s.Close)
	}
	if c.DebugDir != "" {
		s, err := overlay.NewSink(c.DebugDir)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, s)
	}
	return sinks, closeAll, nil
}
