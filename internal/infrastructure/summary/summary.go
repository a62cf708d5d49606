package summary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/mkazantsev/csv_timesort/internal/domain"
)

type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) GenerateSummary(outputPath string, reports []*domain.FileReport) (err error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", outputPath, err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	w := csv.NewWriter(f)

	if err := csvutil.NewEncoder(w).Encode(reports); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	w.Flush()

	return w.Error()
}
