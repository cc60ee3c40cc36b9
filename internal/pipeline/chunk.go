package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ChunkDocs splits every .txt summary under inDir on blank lines and
// writes each fragment as <stem>_<i>.txt into outDir
func ChunkDocs(inDir, outDir string) (int, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read docs directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		text, err := os.ReadFile(filepath.Join(inDir, e.Name()))
		if err != nil {
			return count, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}

		stem := strings.TrimSuffix(e.Name(), ".txt")
		for i, part := range strings.Split(string(text), "\n\n") {
			out := filepath.Join(outDir, fmt.Sprintf("%s_%d.txt", stem, i))
			if err := os.WriteFile(out, []byte(part), 0o644); err != nil {
				return count, fmt.Errorf("failed to write %s: %w", out, err)
			}
			count++
		}
	}
	return count, nil
}
