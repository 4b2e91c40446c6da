package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/piwi3910/CakeCut/internal/sim"
)

// archiveVersion is written into every archive.
const archiveVersion = "1.0.0"

// GameArchive is the top-level structure for exporting played games together
// with the settings they were played with.
type GameArchive struct {
	Version   string             `json:"version"`
	CreatedAt string             `json:"created_at"`
	Config    model.PlayerConfig `json:"config"`
	Games     []*sim.Record      `json:"games"`
}

// ExportGames writes the records and the player config to a single JSON file
// at the specified path.
func ExportGames(exportPath string, config model.PlayerConfig, records []*sim.Record) error {
	archive := GameArchive{
		Version:   archiveVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Games:     records,
	}
	if archive.Games == nil {
		archive.Games = []*sim.Record{}
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game archive: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write game archive: %w", err)
	}
	return nil
}

// ImportGames reads a game archive. Records whose cake is invalid are
// rejected so they never reach the exporters.
func ImportGames(importPath string) (GameArchive, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return GameArchive{}, fmt.Errorf("failed to read game archive: %w", err)
	}
	var archive GameArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		return GameArchive{}, fmt.Errorf("failed to parse game archive: %w", err)
	}
	if archive.Version == "" {
		return GameArchive{}, fmt.Errorf("invalid game archive: missing version field")
	}
	for i, rec := range archive.Games {
		if rec == nil {
			return GameArchive{}, fmt.Errorf("invalid game archive: game %d is empty", i+1)
		}
		if err := rec.Game.Surface.Validate(); err != nil {
			return GameArchive{}, fmt.Errorf("invalid game archive: game %d: %w", i+1, err)
		}
	}
	if archive.Games == nil {
		archive.Games = []*sim.Record{}
	}
	archive.Config.Normalize()
	return archive, nil
}
