package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mkazantsev/csv_timesort/internal/domain"
)

type Encoder struct {
	log         *slog.Logger
	outputDir   string
	transformed <-chan *domain.TransformResult
	reports     chan<- *domain.FileReport
	written     map[string]string // basename -> first source path
}

func NewEncoder(
	log *slog.Logger,
	outputDir string,
	transformed <-chan *domain.TransformResult,
	reports chan<- *domain.FileReport,
) *Encoder {
	return &Encoder{
		log:         log,
		outputDir:   outputDir,
		transformed: transformed,
		reports:     reports,
		written:     make(map[string]string),
	}
}

func (e *Encoder) Run(ctx context.Context) error {
	defer close(e.reports)

	for {
		select {
		case result, ok := <-e.transformed:
			if !ok {
				return nil
			}

			log := e.log.With(slog.String("path", result.Path))

			log.InfoContext(ctx, "received transform result")

			e.reports <- e.processResult(ctx, log, result)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (e *Encoder) processResult(ctx context.Context, log *slog.Logger, result *domain.TransformResult) *domain.FileReport {
	now := time.Now()

	report := &domain.FileReport{
		File:        filepath.Base(result.Path),
		Warnings:    result.Warnings,
		ProcessedAt: now,
	}

	if result.Err != nil {
		report.Error = result.Err.Error()
		report.Status = domain.StatusError
		if errors.Is(result.Err, ErrEmptyInput) || errors.Is(result.Err, ErrMissingColumn) {
			report.Status = domain.StatusSkipped
		}

		return report
	}

	report.Rows = len(result.Table.Rows)

	name := filepath.Base(result.Path)
	if first, ok := e.written[name]; ok {
		// recursive search may yield same-named files in different
		// subdirectories; the later one wins
		log.WarnContext(ctx, "output basename collision, previous file is overwritten",
			slog.String("name", name),
			slog.String("previous_source", first),
		)
	} else {
		e.written[name] = result.Path
	}

	outputPath := filepath.Join(e.outputDir, name)

	if err := e.encodeFile(outputPath, result.Table); err != nil {
		log.ErrorContext(ctx, "failed to write output file", slog.String("err", err.Error()))

		report.Status = domain.StatusError
		report.Error = err.Error()

		return report
	}

	log.DebugContext(ctx, "wrote output file", slog.String("output_path", outputPath))

	report.Status = domain.StatusDone

	return report
}

func (e *Encoder) encodeFile(path string, table *domain.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	w := csv.NewWriter(f)

	if err := w.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(table.Header))
	for _, row := range table.Rows {
		for i, name := range table.Header {
			record[i] = row[name]
		}

		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.Flush()

	return w.Error()
}
