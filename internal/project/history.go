package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/GangSheet/internal/model"
)

// PassRecord is the top-level structure for an exported planning pass.
type PassRecord struct {
	Version   string           `json:"version"`
	CreatedAt string           `json:"created_at"`
	Result    model.PassResult `json:"result"`
}

// ExportPass writes the outcome of one planning pass to a JSON file at the
// specified path, for audit or replay.
func ExportPass(exportPath string, result model.PassResult) error {
	record := PassRecord{
		Version:   "1.0.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Result:    result,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pass record: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write pass record: %w", err)
	}
	return nil
}

// ImportPass reads a previously exported pass record.
func ImportPass(importPath string) (PassRecord, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return PassRecord{}, fmt.Errorf("failed to read pass record: %w", err)
	}
	var record PassRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return PassRecord{}, fmt.Errorf("failed to parse pass record: %w", err)
	}
	if record.Version == "" {
		return PassRecord{}, fmt.Errorf("invalid pass record: missing version field")
	}
	return record, nil
}
