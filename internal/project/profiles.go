package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/plateforge/plateforge/internal/model"
)

// profileFile is the on-disk shape of a printer profile: a single
// [printer] table.
type profileFile struct {
	Printer model.PrinterProfile `toml:"printer"`
}

// ProfilesDir returns the directory holding printer profile TOML files.
func ProfilesDir() string {
	return filepath.Join(DefaultConfigDir(), "profiles")
}

// LoadProfile reads a printer profile from a TOML file.
func LoadProfile(path string) (model.PrinterProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PrinterProfile{}, err
	}
	var pf profileFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return model.PrinterProfile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if pf.Printer.Name == "" {
		pf.Printer.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return pf.Printer, nil
}

// SaveProfile writes a printer profile as TOML, creating missing parent
// directories.
func SaveProfile(path string, p model.PrinterProfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(profileFile{Printer: p})
}

// ListProfiles returns the profiles found in dir, sorted by file name.
// A missing directory yields an empty list, not an error.
func ListProfiles(dir string) ([]model.PrinterProfile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var profiles []model.PrinterProfile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".toml") {
			continue
		}
		p, err := LoadProfile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// LoadProfileByName finds a profile by printer name in dir. An empty
// name or no match falls back to the default profile.
func LoadProfileByName(dir, name string) (model.PrinterProfile, error) {
	if name == "" {
		return model.DefaultProfile(), nil
	}
	profiles, err := ListProfiles(dir)
	if err != nil {
		return model.PrinterProfile{}, err
	}
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return model.PrinterProfile{}, fmt.Errorf("printer profile %q not found in %s", name, dir)
}

// InitProfiles writes the default profile into dir unless a profile
// with that name already exists. Returns the path written, or "" if
// nothing was done.
func InitProfiles(dir string) (string, error) {
	def := model.DefaultProfile()
	path := filepath.Join(dir, strings.ToLower(def.Name)+".toml")
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}
	if err := SaveProfile(path, def); err != nil {
		return "", err
	}
	return path, nil
}
