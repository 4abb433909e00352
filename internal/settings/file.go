package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const settingsFilename = "settings.json"

// FileStore implements Store with a JSON file under the data directory.
type FileStore struct {
	path string
}

// NewFileStore creates the data directory if needed and returns a store.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return &FileStore{path: filepath.Join(dataDir, settingsFilename)}, nil
}

// Load reads the durable settings. A missing file yields zero settings.
func (f *FileStore) Load() (durableSettings, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return durableSettings{}, nil
		}
		return durableSettings{}, err
	}

	var s durableSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return durableSettings{}, fmt.Errorf("corrupt settings file %s: %w", f.path, err)
	}
	return s, nil
}

// Save writes the durable settings.
func (f *FileStore) Save(s durableSettings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0644)
}
