package pipeline_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkazantsev/csv_timesort/internal/domain"
	"github.com/mkazantsev/csv_timesort/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Run_HappyPath(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	filename := createCSV(t, "TimeCreated,User\n2021-01-01 00:00:01,a\n1970-01-01 00:00:00,b\n")

	paths := make(chan string, 1)
	go func() {
		paths <- filename
	}()

	results := make(chan *domain.ParseResult, 1)

	decoder := pipeline.NewDecoder(log, paths, results)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- decoder.Run(ctx)
	}()

	select {
	case result := <-results:
		require.NotNil(t, result)
		require.NoError(t, result.Err)
		assert.Equal(t, filename, result.Path)
		assert.Equal(t, []string{"TimeCreated", "User"}, result.Table.Header)
		require.Len(t, result.Table.Rows, 2)
		assert.Equal(t, domain.Row{"TimeCreated": "2021-01-01 00:00:01", "User": "a"}, result.Table.Rows[0])
		assert.Equal(t, domain.Row{"TimeCreated": "1970-01-01 00:00:00", "User": "b"}, result.Table.Rows[1])
	case err := <-errChan:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(10 * time.Millisecond):
		t.Fatal("timeout: parse result was not sent to channel")
	}

	cancel()

	select {
	case err := <-errChan:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Millisecond):
		t.Fatal("timeout: error was not sent to channel")
	}
}

func TestDecoder_Run_HeaderOnly(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	filename := createCSV(t, "TimeCreated,User\n")

	paths := make(chan string, 1)
	go func() {
		paths <- filename
	}()

	results := make(chan *domain.ParseResult, 1)

	decoder := pipeline.NewDecoder(log, paths, results)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- decoder.Run(ctx)
	}()

	select {
	case result := <-results:
		require.NotNil(t, result)
		require.NoError(t, result.Err)
		assert.Equal(t, []string{"TimeCreated", "User"}, result.Table.Header)
		assert.Empty(t, result.Table.Rows)
	case err := <-errChan:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(10 * time.Millisecond):
		t.Fatal("timeout: parse result was not sent to channel")
	}

	cancel()

	select {
	case err := <-errChan:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Millisecond):
		t.Fatal("timeout: error was not sent to channel")
	}
}

func TestDecoder_Run_RaggedRecord(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	filename := createCSV(t, "TimeCreated,User\n2021-01-01 00:00:01\n")

	paths := make(chan string, 1)
	go func() {
		paths <- filename
	}()

	results := make(chan *domain.ParseResult, 1)

	decoder := pipeline.NewDecoder(log, paths, results)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- decoder.Run(ctx)
	}()

	select {
	case result := <-results:
		require.NotNil(t, result)
		require.Error(t, result.Err)
	case err := <-errChan:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(10 * time.Millisecond):
		t.Fatal("timeout: parse result was not sent to channel")
	}

	cancel()

	select {
	case err := <-errChan:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Millisecond):
		t.Fatal("timeout: error was not sent to channel")
	}
}

func TestDecoder_Run_MissingFile(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	paths := make(chan string, 1)
	go func() {
		paths <- filepath.Join(t.TempDir(), "nope.csv")
	}()

	results := make(chan *domain.ParseResult, 1)

	decoder := pipeline.NewDecoder(log, paths, results)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- decoder.Run(ctx)
	}()

	select {
	case result := <-results:
		require.NotNil(t, result)
		require.ErrorIs(t, result.Err, os.ErrNotExist)
	case err := <-errChan:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(10 * time.Millisecond):
		t.Fatal("timeout: parse result was not sent to channel")
	}

	cancel()

	select {
	case err := <-errChan:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Millisecond):
		t.Fatal("timeout: error was not sent to channel")
	}
}

func TestDecoder_Run_ChannelCloses(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	paths := make(chan string, 1)
	results := make(chan *domain.ParseResult, 1)

	decoder := pipeline.NewDecoder(log, paths, results)

	errChan := make(chan error, 1)
	go func() {
		errChan <- decoder.Run(t.Context())
	}()

	close(paths)

	select {
	case err := <-errChan:
		require.NoError(t, err)
	case <-time.After(10 * time.Millisecond):
		t.Fatal("timeout: error was not sent to channel")
	}
}

func createCSV(t *testing.T, content string) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "*.csv")
	require.NoError(t, err)

	_, err = f.WriteString(content)
	require.NoError(t, err)

	require.NoError(t, f.Close())

	return f.Name()
}
