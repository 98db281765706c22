package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Write stores content in a temp file in the same directory as destPath
// and renames it to destPath on success. On any error the temp file is
// removed and destPath is left untouched.
func Write(ctx context.Context, content []byte, destPath string, logger *slog.Logger, optFns ...Option) error {
	if destPath == "" {
		return ErrEmptyPath
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return fmt.Errorf("applying option: %w", err)
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	if opts.skipExisting {
		if _, err := os.Stat(destPath); err == nil {
			logger.Info("skipping existing file", "path", destPath)
			return nil
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write cancelled: %w", err)
	}

	file, err := os.CreateTemp(filepath.Dir(destPath), ".dispatch-dl-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing temp file", "error", err)
		}
		if !successful {
			if err := os.Remove(file.Name()); err != nil {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	var writer io.Writer = file
	if opts.checksum != nil {
		writer = io.MultiWriter(writer, opts.checksum)
	}

	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("writing content: %w", err)
	}

	if err := opts.checksum.Verify(); err != nil {
		return err
	}

	if err := file.Chmod(0o644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(file.Name(), destPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	successful = true
	logger.Debug("file written", "path", destPath, "bytes", len(content))

	return nil
}
