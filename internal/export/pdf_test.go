package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/CakeCut/internal/engine"
	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/piwi3910/CakeCut/internal/sim"
)

// buildTestRecord creates a quartered 40x20 cake where the last request is
// served with a piece that is too large.
func buildTestRecord() *sim.Record {
	return &sim.Record{
		Game: model.Game{
			ID:       "abcd1234",
			Surface:  model.Surface{Width: 40, Length: 20},
			Requests: []float64{200, 200, 200, 150},
			Behavior: model.BehaviorSneak,
		},
		Tolerance: 5,
		Moves: []model.Move{
			model.InitMove(model.Point{X: 0, Y: 10}),
			model.CutMove(model.Point{X: 40, Y: 10}),
			model.CutMove(model.Point{X: 40, Y: 20}),
			model.CutMove(model.Point{X: 20, Y: 20}),
			model.CutMove(model.Point{X: 20, Y: 0}),
			model.AssignMove(model.Assignment{0, 1, 2, 3}),
		},
		Pieces: []model.Piece{
			model.NewRectPiece(0, 0, 20, 10),
			model.NewRectPiece(20, 0, 20, 10),
			model.NewRectPiece(0, 10, 20, 10),
			model.NewRectPiece(20, 10, 20, 10),
		},
		Assignment: model.Assignment{0, 1, 2, 3},
		Penalty:    100.0 / 3,
		PlayedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func assertNonEmptyFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("file is empty")
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.pdf")

	if err := ExportPDF(path, buildTestRecord(), model.DefaultPlayerConfig(), nil); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	// Plan page plus summary page
	assertNonEmptyFile(t, path, 500)
}

func TestExportPDF_NilRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportPDF(path, nil, model.DefaultPlayerConfig(), nil); err == nil {
		t.Fatal("expected error for nil record, got nil")
	}
}

func TestExportPDF_InvalidSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.pdf")
	rec := buildTestRecord()
	rec.Game.Surface.Width = 0

	if err := ExportPDF(path, rec, model.DefaultPlayerConfig(), nil); err == nil {
		t.Fatal("expected error for zero-width cake, got nil")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("no file should be written for an invalid cake")
	}
}

func TestExportPDF_WithComparison(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.pdf")
	rec := buildTestRecord()
	cfg := model.DefaultPlayerConfig()
	results := engine.CompareAssigners(engine.BuildDefaultScenarios(cfg, len(rec.Pieces)),
		rec.Pieces, rec.Game.Requests, rec.Tolerance, cfg.PlateRadius)

	if err := ExportPDF(path, rec, cfg, results); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 500)
}

func TestExportPDF_ManyRequests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")
	rec := buildTestRecord()

	// More rows than fit on the summary page, most of them unassigned
	rec.Game.Requests = make([]float64, 60)
	for i := range rec.Game.Requests {
		rec.Game.Requests[i] = float64(10 + i)
	}

	if err := ExportPDF(path, rec, model.DefaultPlayerConfig(), nil); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 500)
}

func TestExportPDF_DiagonalPieces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagonal.pdf")
	rec := buildTestRecord()
	rec.Moves = []model.Move{
		model.InitMove(model.Point{X: 0, Y: 0}),
		model.CutMove(model.Point{X: 40, Y: 20}),
	}
	rec.Pieces = []model.Piece{
		{Outline: model.Outline{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 20}}},
		{Outline: model.Outline{{X: 0, Y: 0}, {X: 40, Y: 20}, {X: 0, Y: 20}}},
	}
	rec.Assignment = model.Assignment{0, 1, model.Unassigned, model.Unassigned}

	if err := ExportPDF(path, rec, model.DefaultPlayerConfig(), nil); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 500)
}

func TestCountCuts(t *testing.T) {
	if got := countCuts(buildTestRecord()); got != 4 {
		t.Errorf("expected 4 cuts, got %d", got)
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h     float64
		expected float64
	}{
		{100, 100, 8},
		{50, 50, 8},
		{30, 30, 7},
		{25, 100, 7},
		{15, 15, 6},
		{10, 50, 6},
	}

	for _, tt := range tests {
		got := labelFontSize(tt.w, tt.h)
		if got != tt.expected {
			t.Errorf("labelFontSize(%.0f, %.0f) = %.0f, want %.0f", tt.w, tt.h, got, tt.expected)
		}
	}
}

func TestCakeViewFlipsY(t *testing.T) {
	v := cakeView{scale: 2, offsetX: 10, offsetY: 30, canvasH: 40}

	x, y := v.point(model.Point{X: 0, Y: 0})
	if x != 10 || y != 70 {
		t.Errorf("origin mapped to (%.1f, %.1f), want (10, 70)", x, y)
	}
	x, y = v.point(model.Point{X: 5, Y: 20})
	if x != 20 || y != 30 {
		t.Errorf("top edge mapped to (%.1f, %.1f), want (20, 30)", x, y)
	}
}
