package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// saveMu serialises the load-merge-write cycle so overlapping saves keep every entry.
var saveMu sync.Mutex

// Save appends entries to the JSON export file, creating it if necessary.
func Save(path string, entries []Entry) error {
	if path == "" || len(entries) == 0 {
		return nil
	}
	saveMu.Lock()
	defer saveMu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	existing, err := Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, entry := range existing {
		seen[entry.ID] = true
	}
	for _, entry := range entries {
		if seen[entry.ID] {
			continue
		}
		existing = append(existing, entry)
	}
	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load returns every exported entry.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
