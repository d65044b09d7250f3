package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"butcher-generator/internal/ctxlog"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files next to their sources.
// It creates the directories if they don't exist.
func WriteFiles(ctx context.Context, files []GeneratedFile) error {
	for _, file := range files {
		if err := os.MkdirAll(file.Dir, dirPerm); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		outputPath := filepath.Join(file.Dir, file.Filename)

		if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		ctxlog.FromContext(ctx).Info("wrote file", "path", outputPath, "bytes", len(file.Content))
	}

	return nil
}
