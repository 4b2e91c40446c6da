package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/piwi3910/CakeCut/internal/sim"
)

func testRecord() *sim.Record {
	return &sim.Record{
		Game: model.Game{
			ID:       "abcd1234",
			Surface:  model.Surface{Width: 40, Length: 20},
			Requests: []float64{400, 400},
			Behavior: model.BehaviorSneak,
		},
		Tolerance: 5,
		Moves: []model.Move{
			model.InitMove(model.Point{X: 20, Y: 0}),
			model.CutMove(model.Point{X: 20, Y: 20}),
			model.AssignMove(model.Assignment{0, 1}),
		},
		Pieces: []model.Piece{
			model.NewRectPiece(0, 0, 20, 20),
			model.NewRectPiece(20, 0, 20, 20),
		},
		Assignment: model.Assignment{0, 1},
		Penalty:    200,
		PlayedAt:   time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

func TestExportAndImportGames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.json")

	cfg := model.DefaultPlayerConfig()
	cfg.Tolerance = 10

	if err := ExportGames(path, cfg, []*sim.Record{testRecord()}); err != nil {
		t.Fatalf("ExportGames failed: %v", err)
	}

	archive, err := ImportGames(path)
	if err != nil {
		t.Fatalf("ImportGames failed: %v", err)
	}

	if archive.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", archive.Version)
	}
	if archive.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if archive.Config.Tolerance != 10 {
		t.Errorf("expected Tolerance=10, got %f", archive.Config.Tolerance)
	}
	if len(archive.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(archive.Games))
	}

	rec := archive.Games[0]
	if rec.Game.ID != "abcd1234" || rec.Penalty != 200 {
		t.Errorf("unexpected record %+v", rec.Game)
	}
	if len(rec.Moves) != 3 || rec.Moves[2].Kind != model.MoveAssign {
		t.Errorf("moves not preserved: %v", rec.Moves)
	}
	if len(rec.Path()) != 2 {
		t.Errorf("expected a 2 point knife path, got %v", rec.Path())
	}
	if !rec.PlayedAt.Equal(testRecord().PlayedAt) {
		t.Errorf("PlayedAt changed: %v", rec.PlayedAt)
	}
}

func TestExportGamesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "games.json")

	if err := ExportGames(path, model.DefaultPlayerConfig(), nil); err != nil {
		t.Fatalf("ExportGames failed: %v", err)
	}

	archive, err := ImportGames(path)
	if err != nil {
		t.Fatalf("ImportGames failed: %v", err)
	}
	if archive.Games == nil || len(archive.Games) != 0 {
		t.Errorf("expected an empty game list, got %v", archive.Games)
	}
}

func TestImportGamesMissingFile(t *testing.T) {
	if _, err := ImportGames(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportGamesInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportGames(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportGamesMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noversion.json")
	if err := os.WriteFile(path, []byte(`{"games": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportGames(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestImportGamesInvalidSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.json")
	rec := testRecord()
	rec.Game.Surface.Length = -1
	if err := ExportGames(path, model.DefaultPlayerConfig(), []*sim.Record{rec}); err != nil {
		t.Fatalf("ExportGames failed: %v", err)
	}

	_, err := ImportGames(path)
	if err == nil {
		t.Fatal("expected error for an invalid cake")
	}
	if !errors.Is(err, model.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}
