package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/GangSheet/internal/model"
)

// DefaultDataDir returns the default directory for application data.
// On all platforms this is ~/.gangsheet/
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".gangsheet")
}

// DefaultTasksPath returns the default file path for the task pool store.
// This is located at ~/.gangsheet/tasks.json.
func DefaultTasksPath() string {
	return filepath.Join(DefaultDataDir(), "tasks.json")
}

// SaveTasks writes the task pool to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveTasks(path string, tasks []model.Task) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTasks reads the task pool from the specified JSON file.
// If the file does not exist, it returns an empty pool.
func LoadTasks(path string) ([]model.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Task{}, nil
		}
		return nil, err
	}
	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ImportTasks imports tasks from a user-specified JSON file, merging them
// with the existing pool. Duplicate IDs are skipped.
func ImportTasks(path string, existing []model.Task) ([]model.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported []model.Task
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}

	ids := make(map[string]bool, len(existing))
	for _, t := range existing {
		ids[t.ID] = true
	}
	for _, t := range imported {
		if !ids[t.ID] {
			existing = append(existing, t)
			ids[t.ID] = true
		}
	}
	return existing, nil
}
