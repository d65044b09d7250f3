package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes source that failed to format next to the
// intended output and returns its path. Empty locations are skipped.
func writeDebugUnformatted(outDir, filename string, content []byte) (string, error) {
	if outDir == "" || filename == "" {
		return "", nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return "", err
	}
	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.go"
	p := filepath.Join(outDir, debugName)

	return p, os.WriteFile(p, content, filePerm)
}
