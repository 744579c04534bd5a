// Package project persists projects and printer profiles. Projects are
// stored as JSON; printer profiles as TOML files in a profiles
// directory under the application config dir.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/plateforge/plateforge/internal/model"
)

// DefaultConfigDir returns the default directory for application
// configuration. On all platforms this is ~/.plateforge/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".plateforge")
}

// SaveProject persists a project to the given path as JSON. Missing
// parent directories are created automatically.
func SaveProject(path string, p model.Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProject reads a project from the given path.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, err
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, err
	}
	if p.Items == nil {
		p.Items = []*model.Item{}
	}
	return p, nil
}
