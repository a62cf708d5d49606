package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mkazantsev/csv_timesort/internal/config"
	"github.com/mkazantsev/csv_timesort/internal/domain"
	"github.com/mkazantsev/csv_timesort/internal/infrastructure/summary"
	"github.com/mkazantsev/csv_timesort/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

const (
	pathsBuffer       = 100
	resultsBuffer     = 50
	transformedBuffer = 50
	reportsBuffer     = 100
)

type App struct {
	log *slog.Logger
	cfg *config.Config
}

func New(log *slog.Logger, cfg *config.Config) *App {
	return &App{
		log: log,
		cfg: cfg,
	}
}

func (a *App) Run(ctx context.Context) error {
	a.log.InfoContext(ctx, "starting app",
		slog.String("input_dir", a.cfg.InputDirectory),
		slog.String("output_dir", a.cfg.OutputDirectory),
		slog.String("timestamp_field", a.cfg.TimestampField),
		slog.Bool("summary", a.cfg.WriteSummary),
	)

	if err := os.MkdirAll(a.cfg.OutputDirectory, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return a.startPipeline(ctx)
}

func (a *App) startPipeline(ctx context.Context) error {
	paths := make(chan string, pathsBuffer)
	results := make(chan *domain.ParseResult, resultsBuffer)
	transformed := make(chan *domain.TransformResult, transformedBuffer)
	reports := make(chan *domain.FileReport, reportsBuffer)

	walker := pipeline.NewWalker(a.log, a.cfg.InputDirectory, paths)
	decoder := pipeline.NewDecoder(a.log, paths, results)
	transformer := pipeline.NewTransformer(a.log, a.cfg.TimestampField, results, transformed)
	encoder := pipeline.NewEncoder(a.log, a.cfg.OutputDirectory, transformed, reports)
	reporter := pipeline.NewReporter(a.log, a.cfg.OutputDirectory, a.cfg.WriteSummary, reports, summary.New())

	erg, ctx := errgroup.WithContext(ctx)

	erg.Go(func() error {
		a.log.InfoContext(ctx, "walker started")
		return walker.Run(ctx)
	})

	erg.Go(func() error {
		a.log.InfoContext(ctx, "decoder started")
		return decoder.Run(ctx)
	})

	erg.Go(func() error {
		a.log.InfoContext(ctx, "transformer started")
		return transformer.Run(ctx)
	})

	erg.Go(func() error {
		a.log.InfoContext(ctx, "encoder started")
		return encoder.Run(ctx)
	})

	erg.Go(func() error {
		a.log.InfoContext(ctx, "reporter started")
		return reporter.Run(ctx)
	})

	a.log.InfoContext(ctx, "all components started")

	if err := erg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.log.ErrorContext(ctx, "pipeline stopped with error", slog.String("err", err.Error()))

		return err
	}

	a.log.InfoContext(ctx, "pipeline finished")

	return nil
}
