package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/mkazantsev/csv_timesort/internal/domain"
)

// SummaryFilename is the run summary written next to the converted files.
const SummaryFilename = "_summary.csv"

type Reporter struct {
	log              *slog.Logger
	outputDir        string
	writeSummary     bool
	reports          <-chan *domain.FileReport
	summaryGenerator SummaryGenerator
}

func NewReporter(
	log *slog.Logger,
	outputDir string,
	writeSummary bool,
	reports <-chan *domain.FileReport,
	summaryGenerator SummaryGenerator,
) *Reporter {
	return &Reporter{
		log:              log,
		outputDir:        outputDir,
		writeSummary:     writeSummary,
		reports:          reports,
		summaryGenerator: summaryGenerator,
	}
}

func (r *Reporter) Run(ctx context.Context) error {
	var reports []*domain.FileReport

	for {
		select {
		case report, ok := <-r.reports:
			if !ok {
				return r.finish(ctx, reports)
			}

			r.log.InfoContext(ctx, "file processed",
				slog.String("file", report.File),
				slog.String("status", string(report.Status)),
				slog.Int("rows", report.Rows),
				slog.Int("warnings", report.Warnings),
			)

			reports = append(reports, report)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Reporter) finish(ctx context.Context, reports []*domain.FileReport) error {
	if !r.writeSummary || len(reports) == 0 {
		return nil
	}

	path := filepath.Join(r.outputDir, SummaryFilename)

	if err := r.summaryGenerator.GenerateSummary(path, reports); err != nil {
		// the converted files are already on disk, a failed summary
		// does not fail the run
		r.log.ErrorContext(ctx, "failed to write run summary", slog.String("err", err.Error()))

		return nil
	}

	r.log.InfoContext(ctx, "run summary written", slog.String("path", path))

	return nil
}
