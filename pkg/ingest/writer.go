package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tanyahukum/tanya/internal/models"
)

// WriteCorpusRecord persists one document's chunks as the JSON record the
// chunk store loads at startup. The file is named after the source.
func WriteCorpusRecord(dir string, doc models.Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create corpus directory: %w", err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode corpus record: %w", err)
	}

	path := filepath.Join(dir, recordName(doc.Source))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write corpus record: %w", err)
	}
	return nil
}

// recordName maps a source name to its corpus file name.
func recordName(source string) string {
	name := filepath.Base(source)
	if ext := filepath.Ext(name); ext != "" && ext != "." {
		name = name[:len(name)-len(ext)]
	}
	return name + ".json"
}
