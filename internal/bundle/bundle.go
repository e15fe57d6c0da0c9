// Package bundle collects model definition files into a JSON manifest
// for the reporting frontend.
package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const modelExt = ".preql"

// Model is one bundled model definition.
type Model struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Contents string `json:"contents"`
	Type     string `json:"type"`
}

// Bundle reads every .preql file directly under dir and writes them as
// a JSON array to outFile. Returns the number of models bundled.
// Directory order is the sorted order os.ReadDir provides, so output is
// deterministic.
func Bundle(dir, outFile string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read models dir: %w", err)
	}

	models := make([]Model, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), modelExt) {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return 0, fmt.Errorf("read model %s: %w", entry.Name(), err)
		}
		models = append(models, Model{
			ID:       entry.Name(),
			Name:     strings.TrimSuffix(entry.Name(), modelExt),
			Contents: string(contents),
			Type:     "preql",
		})
	}

	data, err := json.MarshalIndent(models, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return 0, fmt.Errorf("write manifest: %w", err)
	}
	return len(models), nil
}
