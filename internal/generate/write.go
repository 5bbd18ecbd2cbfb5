package generate

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFiles writes generated schema files to disk. All outputs of one
// job land in the same directory, so each directory is created once.
func WriteFiles(outputs []OutputFile) error {
	created := make(map[string]bool)
	for _, file := range outputs {
		dir := filepath.Dir(file.Path)
		if !created[dir] {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir %s: %w", dir, err)
			}
			created[dir] = true
		}
		if err := os.WriteFile(file.Path, file.Content, 0o644); err != nil {
			return fmt.Errorf("write generated file %s: %w", file.Path, err)
		}
	}
	return nil
}
