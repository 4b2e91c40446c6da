package gcode

import (
	"testing"

	"github.com/piwi3910/CakeCut/internal/model"
)

func TestParseGCode_IgnoresNonMoves(t *testing.T) {
	for name, code := range map[string]string{
		"empty":       "",
		"comments":    "; Init at 0.00, 10.00\n(Cut 1 to 40.00, 10.00)\n",
		"setup codes": "G90\nG21\nM3\nM5\nM2\n",
	} {
		if moves := ParseGCode(code); len(moves) != 0 {
			t.Errorf("%s: expected no moves, got %d", name, len(moves))
		}
	}
}

// lastMove parses code and returns its final move.
func lastMove(t *testing.T, code string, wantCount int) GCodeMove {
	t.Helper()
	moves := ParseGCode(code)
	if len(moves) != wantCount {
		t.Fatalf("expected %d moves, got %d", wantCount, len(moves))
	}
	return moves[len(moves)-1]
}

func TestParseGCode_Classification(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantCount int
		wantType  MoveType
		wantTo    [3]float64
	}{
		{"rapid to start", "G0 X100.000 Y50.000\n", 1, MoveRapid, [3]float64{100, 50, 0}},
		{"cut across", "G0 X0 Y100\nG1 Z-60 F400\nG1 X400.000 Y100.000 F1200.0\n", 3, MoveFeed, [3]float64{400, 100, -60}},
		{"knife down", "G0 X0 Y100\nG0 Z10\nG1 Z-60.000 F400.0\n", 3, MovePlunge, [3]float64{0, 100, -60}},
		{"knife up", "G0 X0 Y100\nG1 Z-60 F400\nG0 Z10.000\n", 3, MoveRetract, [3]float64{0, 100, 10}},
		{"two digit codes", "G00 X10 Y10\nG01 X20 Y10 F900\n", 2, MoveFeed, [3]float64{20, 10, 0}},
		{"inline comment", "G1 X50.000 Y50.000 F1200.0 ; Cut 3 to 5.00, 5.00\n", 1, MoveFeed, [3]float64{50, 50, 0}},
		{"negative coordinates", "G0 X-3.000 Y-3.000\n", 1, MoveRapid, [3]float64{-3, -3, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := lastMove(t, tt.code, tt.wantCount)
			if m.Type != tt.wantType {
				t.Errorf("expected type %d, got %d", tt.wantType, m.Type)
			}
			if got := [3]float64{m.ToX, m.ToY, m.ToZ}; got != tt.wantTo {
				t.Errorf("expected to %v, got %v", tt.wantTo, got)
			}
		})
	}
}

func TestParseGCode_FeedRate(t *testing.T) {
	m := lastMove(t, "G0 X0 Y100\nG1 X400 Y100 F1200\n", 2)
	if m.FeedRate != 1200 {
		t.Errorf("expected feed rate 1200, got %.1f", m.FeedRate)
	}
	if m.FromX != 0 || m.FromY != 100 {
		t.Errorf("expected from (0,100), got (%.3f, %.3f)", m.FromX, m.FromY)
	}
}

func TestParseGCode_StateTracking(t *testing.T) {
	code := `G0 X10.000 Y20.000
G0 Z5.000
G1 Z-6.000 F500.0
G1 X100.000 Y20.000 F1500.0
G1 X100.000 Y80.000
G0 Z5.000
`
	moves := ParseGCode(code)
	if len(moves) != 6 {
		t.Fatalf("expected 6 moves, got %d", len(moves))
	}

	// Verify position state is tracked across moves
	// Move 3 (index 2): plunge at X=10, Y=20
	if moves[2].FromX != 10 || moves[2].FromY != 20 {
		t.Errorf("move 2: expected from (10,20), got (%.3f, %.3f)", moves[2].FromX, moves[2].FromY)
	}
	// Move 4 (index 3): feed from (10,20) to (100,20)
	if moves[3].FromX != 10 || moves[3].ToX != 100 {
		t.Errorf("move 3: expected X from 10 to 100, got %.3f to %.3f", moves[3].FromX, moves[3].ToX)
	}
	// Move 5 (index 4): feed from (100,20) to (100,80)
	if moves[4].FromX != 100 || moves[4].FromY != 20 || moves[4].ToY != 80 {
		t.Errorf("move 4: expected from (100,20) to (100,80), got (%.3f,%.3f) to (%.3f,%.3f)",
			moves[4].FromX, moves[4].FromY, moves[4].ToX, moves[4].ToY)
	}
}

func TestParseGCode_FeedRateSticky(t *testing.T) {
	code := `G1 X10.000 Y10.000 F1500.0
G1 X20.000 Y20.000
`
	moves := ParseGCode(code)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	// Feed rate should persist from previous command
	if moves[1].FeedRate != 1500 {
		t.Errorf("expected sticky feed rate 1500, got %.1f", moves[1].FeedRate)
	}
}

func TestParseGCode_FullCutSequence(t *testing.T) {
	// A single horizontal cut across a 40x20 cake with one lifted sneak
	code := `; CakeCut GCode - Game abcd1234, behavior sneak
G90
G21
M3
G0 Z10.000

; Init at 0.00, 100.00
G0 X0.000 Y100.000
G1 Z-60.000 F400.000
; Cut 1 to 40.00, 10.00
G1 X400.000 Y100.000 F1200.000
; Sneak 2 to 40.00, 20.00
G0 Z10.000
G0 X400.000 Y200.000
G1 Z-60.000 F400.000

; === Job complete ===
G0 Z10.000
G0 X0 Y0
M2
M5
`
	moves := ParseGCode(code)

	counts := map[MoveType]int{}
	for _, m := range moves {
		counts[m.Type]++
	}

	if counts[MoveRapid] != 3 {
		t.Errorf("expected 3 rapid moves, got %d", counts[MoveRapid])
	}
	if counts[MoveFeed] != 1 {
		t.Errorf("expected 1 feed move, got %d", counts[MoveFeed])
	}
	if counts[MovePlunge] != 2 {
		t.Errorf("expected 2 plunge moves, got %d", counts[MovePlunge])
	}
	if counts[MoveRetract] != 3 {
		t.Errorf("expected 3 retract moves, got %d", counts[MoveRetract])
	}

	path := KnifePath(moves, 10)
	want := []model.Point{{X: 0, Y: 10}, {X: 40, Y: 10}, {X: 40, Y: 20}}
	if len(path) != len(want) {
		t.Fatalf("expected %d knife positions, got %v", len(want), path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], path[i])
		}
	}
}

func TestKnifePath_IgnoresMovesAboveCake(t *testing.T) {
	code := "G0 Z10\nG0 X100 Y0\nG0 X200 Y0\n"
	if path := KnifePath(ParseGCode(code), 10); len(path) != 0 {
		t.Errorf("expected no knife positions, got %v", path)
	}
}

func TestKnifePath_CollapsesRepeats(t *testing.T) {
	code := "G0 X100 Y0\nG1 Z-60\nG1 X100 Y0\nG1 X100 Y200\n"
	path := KnifePath(ParseGCode(code), 10)
	if len(path) != 2 {
		t.Fatalf("expected 2 knife positions, got %v", path)
	}
	if path[1] != (model.Point{X: 10, Y: 20}) {
		t.Errorf("expected (10, 20), got %s", path[1])
	}
}

func TestClassifyMove(t *testing.T) {
	tests := []struct {
		name    string
		isRapid bool
		fromZ   float64
		toZ     float64
		fromX   float64
		fromY   float64
		toX     float64
		toY     float64
		want    MoveType
	}{
		{"rapid XY", true, 5, 5, 0, 0, 10, 20, MoveRapid},
		{"rapid retract", true, -6, 5, 10, 20, 10, 20, MoveRetract},
		{"rapid with Z up", true, 0, 5, 0, 0, 0, 0, MoveRetract},
		{"feed XY", false, -6, -6, 0, 0, 100, 0, MoveFeed},
		{"plunge", false, 5, -6, 10, 20, 10, 20, MovePlunge},
		{"retract feed", false, -6, 0, 10, 20, 10, 20, MoveRetract},
		{"feed with slight Z", false, -6, -6.0001, 0, 0, 100, 0, MoveFeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyMove(tt.isRapid, tt.fromZ, tt.toZ, tt.fromX, tt.fromY, tt.toX, tt.toY)
			if got != tt.want {
				t.Errorf("classifyMove() = %d, want %d", got, tt.want)
			}
		})
	}
}
