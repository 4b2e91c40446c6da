package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/piwi3910/CakeCut/internal/strategy"
)

// DefaultMaxTurns bounds a simulated game.
const DefaultMaxTurns = 500

// ErrTurnLimit is returned when a behavior never assigns.
var ErrTurnLimit = errors.New("turn limit reached")

// Record is the outcome of one played game.
type Record struct {
	Game       model.Game       `json:"game"`
	Tolerance  float64          `json:"tolerance"`
	Moves      []model.Move     `json:"moves"`
	Pieces     []model.Piece    `json:"pieces"`
	Assignment model.Assignment `json:"assignment"`
	Penalty    float64          `json:"penalty"`
	PlayedAt   time.Time        `json:"played_at"`
}

// Path returns the knife positions of the record in order, starting with the
// init position.
func (r *Record) Path() []model.Point {
	var path []model.Point
	for _, mv := range r.Moves {
		if mv.Kind == model.MoveInit || mv.Kind == model.MoveCut {
			path = append(path, mv.Position)
		}
	}
	return path
}

// Play runs game.Behavior against a fresh host until it assigns.
func Play(game model.Game, cfg model.PlayerConfig, maxTurns int, log zerolog.Logger) (*Record, error) {
	if game.Behavior != "" {
		cfg.Behavior = game.Behavior
	}
	cfg.Normalize()
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	host, err := NewHost(game.Surface, game.Requests, cfg.Tolerance, cfg.PlateRadius)
	if err != nil {
		return nil, err
	}
	ctrl := strategy.NewController(cfg, log)

	for !host.Finished() {
		if host.Turn() > maxTurns {
			return nil, fmt.Errorf("%s after %d turns: %w", ctrl.Behavior().Name(), maxTurns, ErrTurnLimit)
		}
		mv, err := ctrl.Move(host.Snapshot())
		if err != nil {
			return nil, err
		}
		if err := host.Apply(mv); err != nil {
			return nil, fmt.Errorf("turn %d %s: %w", host.Turn(), mv, err)
		}
	}

	game.Behavior = ctrl.Behavior().Name()
	rec := &Record{
		Game:       game,
		Tolerance:  cfg.Tolerance,
		Moves:      host.Moves(),
		Pieces:     host.Pieces(),
		Assignment: host.Assignment(),
		Penalty:    host.Penalty(),
		PlayedAt:   time.Now().UTC(),
	}

	log.Info().
		Str("game", game.ID).
		Str("behavior", game.Behavior).
		Int("turns", len(rec.Moves)).
		Int("pieces", len(rec.Pieces)).
		Float64("penalty", rec.Penalty).
		Msg("Game finished")
	return rec, nil
}

// PlayAll plays the same game once per behavior name.
func PlayAll(game model.Game, cfg model.PlayerConfig, behaviors []string, maxTurns int, log zerolog.Logger) ([]*Record, error) {
	records := make([]*Record, 0, len(behaviors))
	for _, name := range behaviors {
		g := game
		g.Behavior = name
		rec, err := Play(g, cfg, maxTurns, log)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReplayPath cuts a fresh cake along a knife path: the first position places
// the knife and each later one is a cut.
func ReplayPath(surface model.Surface, path []model.Point) (*Host, error) {
	host, err := NewHost(surface, nil, 0, model.DefaultPlateRadius)
	if err != nil {
		return nil, err
	}
	for i, p := range path {
		mv := model.CutMove(p)
		if i == 0 {
			mv = model.InitMove(p)
		}
		if err := host.Apply(mv); err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
	}
	return host, nil
}
