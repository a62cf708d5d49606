package pipeline

import (
	"github.com/mkazantsev/csv_timesort/internal/domain"
)

type SummaryGenerator interface {
	GenerateSummary(outputPath string, reports []*domain.FileReport) error
}
