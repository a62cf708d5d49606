package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

type Walker struct {
	log      *slog.Logger
	inputDir string
	paths    chan<- string
}

func NewWalker(log *slog.Logger, inputDir string, paths chan<- string) *Walker {
	return &Walker{
		log:      log,
		inputDir: inputDir,
		paths:    paths,
	}
}

func (w *Walker) Run(ctx context.Context) error {
	defer close(w.paths)

	found := 0

	err := filepath.WalkDir(w.inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.ErrorContext(ctx, "failed to access path, skipping",
				slog.String("path", path),
				slog.String("err", err.Error()),
			)

			if d != nil && d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}

		select {
		case w.paths <- path:
			found++
			w.log.DebugContext(ctx, "discovered file", slog.String("path", path))
		case <-ctx.Done():
			return ctx.Err()
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %q: %w", w.inputDir, err)
	}

	if found == 0 {
		w.log.InfoContext(ctx, "no csv files found", slog.String("input_dir", w.inputDir))
	}

	return nil
}
