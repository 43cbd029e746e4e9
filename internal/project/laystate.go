package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/GangSheet/internal/model"
)

// DefaultLayStatePath returns the default file path for the LAY column
// occupancy store. This is located at ~/.gangsheet/laystate.json.
func DefaultLayStatePath() string {
	return filepath.Join(DefaultDataDir(), "laystate.json")
}

// SaveColumns writes the LAY column occupancy to a JSON file.
func SaveColumns(path string, columns []model.LayColumn) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(columns, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadColumns reads LAY column occupancy from a JSON file. If the file does
// not exist, the full empty column layout at the given capacity is returned.
func LoadColumns(path string, capacity int) ([]model.LayColumn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.LayColumns(capacity), nil
		}
		return nil, err
	}
	var columns []model.LayColumn
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return model.LayColumns(capacity), nil
	}
	return columns, nil
}
