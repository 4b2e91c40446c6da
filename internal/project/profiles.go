package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/CakeCut/internal/model"
)

// ErrUnnamedProfile is returned for a knife profile without a name.
var ErrUnnamedProfile = errors.New("profile has no name")

// DefaultProfilesPath returns the custom knife profile library,
// ~/.cakecut/profiles.json.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles writes the custom profile library.
func SaveCustomProfiles(path string, profiles []model.GCodeProfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return writeJSON(path, profiles)
}

// LoadCustomProfiles reads the custom profile library. A missing file is an
// empty library.
func LoadCustomProfiles(path string) ([]model.GCodeProfile, error) {
	var profiles []model.GCodeProfile
	if err := readJSON(path, &profiles); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.GCodeProfile{}, nil
		}
		return nil, err
	}
	return profiles, nil
}

// ExportProfile writes one profile on its own so it can be shared.
func ExportProfile(path string, profile model.GCodeProfile) error {
	if profile.Name == "" {
		return ErrUnnamedProfile
	}
	return writeJSON(path, profile)
}

// ImportProfile reads a shared profile. Missing move commands default to G0
// and G1 and the decimal places are kept between 0 and 6.
func ImportProfile(path string) (model.GCodeProfile, error) {
	var profile model.GCodeProfile
	if err := readJSON(path, &profile); err != nil {
		return model.GCodeProfile{}, err
	}
	if profile.Name == "" {
		return model.GCodeProfile{}, fmt.Errorf("%s: %w", path, ErrUnnamedProfile)
	}
	if profile.RapidMove == "" {
		profile.RapidMove = "G0"
	}
	if profile.FeedMove == "" {
		profile.FeedMove = "G1"
	}
	if profile.CommentPrefix == "" {
		profile.CommentPrefix = ";"
	}
	profile.DecimalPlaces = min(max(profile.DecimalPlaces, 0), 6)
	return profile, nil
}

// AddCustomProfile returns custom with profile added, replacing any profile
// of the same name.
func AddCustomProfile(custom []model.GCodeProfile, profile model.GCodeProfile) []model.GCodeProfile {
	out := make([]model.GCodeProfile, 0, len(custom)+1)
	for _, p := range custom {
		if p.Name != profile.Name {
			out = append(out, p)
		}
	}
	return append(out, profile)
}

// InstallProfile imports the profile at importPath into the library at
// libraryPath and returns it.
func InstallProfile(libraryPath, importPath string) (model.GCodeProfile, error) {
	profile, err := ImportProfile(importPath)
	if err != nil {
		return model.GCodeProfile{}, err
	}
	custom, err := LoadCustomProfiles(libraryPath)
	if err != nil {
		return model.GCodeProfile{}, fmt.Errorf("loading %s: %w", libraryPath, err)
	}
	if err := SaveCustomProfiles(libraryPath, AddCustomProfile(custom, profile)); err != nil {
		return model.GCodeProfile{}, err
	}
	return profile, nil
}

// ResolveProfile returns the custom profile called name, falling back to the
// built-in profiles and finally to the Generic one. Custom profiles shadow
// built-ins of the same name.
func ResolveProfile(name string, custom []model.GCodeProfile) model.GCodeProfile {
	for _, p := range custom {
		if p.Name == name {
			return p
		}
	}
	return model.GetProfile(name)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
