package pipeline

import "errors"

var (
	// ErrEmptyInput marks a file that decoded to zero data rows.
	ErrEmptyInput = errors.New("file has no data rows")

	// ErrMissingColumn marks a file whose header lacks the timestamp column.
	ErrMissingColumn = errors.New("timestamp column is missing")
)
