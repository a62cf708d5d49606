package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mkazantsev/csv_timesort/internal/domain"
)

type Decoder struct {
	log     *slog.Logger
	paths   <-chan string
	results chan<- *domain.ParseResult
}

func NewDecoder(log *slog.Logger, paths <-chan string, results chan<- *domain.ParseResult) *Decoder {
	return &Decoder{
		log:     log,
		paths:   paths,
		results: results,
	}
}

func (d *Decoder) Run(ctx context.Context) error {
	defer close(d.results)

	for {
		select {
		case path, ok := <-d.paths:
			if !ok {
				return nil
			}

			d.log.DebugContext(ctx, "received file to decode", slog.String("path", path))

			table, err := d.decodeFile(path)
			if err != nil {
				d.log.ErrorContext(ctx, "failed to decode file",
					slog.String("path", path),
					slog.String("err", err.Error()),
				)
			}

			d.results <- &domain.ParseResult{
				Path:  path,
				Table: table,
				Err:   err,
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (d *Decoder) decodeFile(path string) (_ *domain.Table, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	return d.decode(f)
}

func (d *Decoder) decode(r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		// no header at all, treated the same as a file with no data rows
		return &domain.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table := &domain.Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read record #%d: %w", len(table.Rows)+1, err)
		}

		row := make(domain.Row, len(header))
		for i, name := range header {
			row[name] = record[i]
		}

		table.Rows = append(table.Rows, row)
	}

	d.log.Debug("successfully decoded records", slog.Int("row_count", len(table.Rows)))

	return table, nil
}
