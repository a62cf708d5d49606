package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/mkazantsev/csv_timesort/internal/domain"
)

// EpochField is the name of the derived column prepended to every output file.
const EpochField = "EpochTime"

// layouts accepted for the timestamp column, tried in order. Strings without
// an explicit offset are interpreted as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// Warning records a row whose timestamp could not be parsed. The row is kept
// with an epoch of zero.
type Warning struct {
	Row   int    // 1-based position in the input
	Value string // raw timestamp field value
}

type Transformer struct {
	log            *slog.Logger
	timestampField string
	results        <-chan *domain.ParseResult
	transformed    chan<- *domain.TransformResult
}

func NewTransformer(
	log *slog.Logger,
	timestampField string,
	results <-chan *domain.ParseResult,
	transformed chan<- *domain.TransformResult,
) *Transformer {
	return &Transformer{
		log:            log,
		timestampField: timestampField,
		results:        results,
		transformed:    transformed,
	}
}

func (t *Transformer) Run(ctx context.Context) error {
	defer close(t.transformed)

	for {
		select {
		case result, ok := <-t.results:
			if !ok {
				return nil
			}

			t.transformed <- t.processResult(ctx, result)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *Transformer) processResult(ctx context.Context, result *domain.ParseResult) *domain.TransformResult {
	if result.Err != nil {
		return &domain.TransformResult{Path: result.Path, Err: result.Err}
	}

	log := t.log.With(slog.String("path", result.Path))

	table, warnings, err := Transform(result.Table, t.timestampField)
	if err != nil {
		log.ErrorContext(ctx, "failed to transform file, skipping", slog.String("err", err.Error()))

		return &domain.TransformResult{Path: result.Path, Err: err}
	}

	for _, warning := range warnings {
		log.WarnContext(ctx, "unparseable timestamp, row keeps epoch 0",
			slog.Int("row", warning.Row),
			slog.String("value", warning.Value),
		)
	}

	log.DebugContext(ctx, "transformed file",
		slog.Int("rows", len(table.Rows)),
		slog.Int("warnings", len(warnings)),
	)

	return &domain.TransformResult{
		Path:     result.Path,
		Table:    table,
		Warnings: len(warnings),
	}
}

// Transform derives the epoch column and reorders the table: every row gets an
// EpochTime field holding milliseconds since the Unix epoch parsed from
// timestampField (zero when the value is unparseable), rows are stably sorted
// ascending by that value, and the output header leads with EpochTime and
// timestampField followed by the remaining columns in their original order.
// Row count is always preserved.
func Transform(t *domain.Table, timestampField string) (*domain.Table, []Warning, error) {
	if t == nil || len(t.Rows) == 0 {
		return nil, nil, ErrEmptyInput
	}

	if !slices.Contains(t.Header, timestampField) {
		return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, timestampField)
	}

	var warnings []Warning

	epochs := make([]int64, len(t.Rows))
	for i, row := range t.Rows {
		ms, err := parseEpochMillis(row[timestampField])
		if err != nil {
			warnings = append(warnings, Warning{Row: i + 1, Value: row[timestampField]})
			ms = 0
		}

		epochs[i] = ms
	}

	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return epochs[order[a]] < epochs[order[b]]
	})

	header := make([]string, 0, len(t.Header)+1)
	header = append(header, EpochField, timestampField)
	for _, name := range t.Header {
		if name != EpochField && name != timestampField {
			header = append(header, name)
		}
	}

	rows := make([]domain.Row, len(t.Rows))
	for i, src := range order {
		row := make(domain.Row, len(t.Rows[src])+1)
		for name, value := range t.Rows[src] {
			row[name] = value
		}
		row[EpochField] = strconv.FormatInt(epochs[src], 10)

		rows[i] = row
	}

	return &domain.Table{Header: header, Rows: rows}, warnings, nil
}

func parseEpochMillis(value string) (int64, error) {
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UnixMilli(), nil
		}
	}

	return 0, fmt.Errorf("unparseable timestamp %q", value)
}
