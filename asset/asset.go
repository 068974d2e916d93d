package asset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/framelight76/photowall/util/log"
)

// defaultModelDir is searched when no directory is configured.
const defaultModelDir = "models"

// Manager manages the loading of detection model assets. Models (such as
// the pigo facefinder cascade) are binary files shipped alongside the
// application rather than embedded, so deployments can swap them without a
// rebuild.
type Manager struct {
	dir string
}

// NewManager creates an asset manager reading from dir. An empty dir falls
// back to the "models" directory next to the working directory.
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = defaultModelDir
	}
	return &Manager{dir: dir}
}

// GetModel loads and returns the raw bytes of a model asset by name.
func (am *Manager) GetModel(name string) ([]byte, error) {
	path := filepath.Join(am.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Println("Error loading model:", err)
		return nil, fmt.Errorf("loading model %q: %w", name, err)
	}
	return data, nil
}

// HasModel reports whether a model asset exists without loading it.
func (am *Manager) HasModel(name string) bool {
	info, err := os.Stat(filepath.Join(am.dir, name))
	return err == nil && !info.IsDir()
}
