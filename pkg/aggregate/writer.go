package aggregate

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Write persists the rendered document at destPath, creating parent
// directories as needed and overwriting any existing file. The document is
// written to a temporary file first and renamed into place so readers never
// observe a partially written artifact. Write errors are fatal and returned
// with their cause.
func Write(document string, destPath string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error("Failed to create output directory", zap.String("dir", dir), zap.Error(err))
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(destPath)+".tmp-*")
	if err != nil {
		logger.Error("Failed to create temporary output file", zap.String("dir", dir), zap.Error(err))
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(document); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set output permissions: %w", err)
	}

	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		logger.Error("Failed to move output into place", zap.String("dest", destPath), zap.Error(err))
		return fmt.Errorf("failed to write output file %s: %w", destPath, err)
	}

	logger.Debug("Wrote output file", zap.String("dest", destPath), zap.Int("bytes", len(document)))
	return nil
}
