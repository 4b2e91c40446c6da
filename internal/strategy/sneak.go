package strategy

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/piwi3910/CakeCut/internal/engine"
	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/piwi3910/CakeCut/internal/planner"
)

// Sneak follows the cut-path planner and assigns once it is exhausted: exact
// matching while the piece count is within the configured limit, greedy
// best-fit beyond it.
type Sneak struct {
	cfg     model.PlayerConfig
	log     zerolog.Logger
	planner *planner.Planner
}

func NewSneak(cfg model.PlayerConfig, log zerolog.Logger) *Sneak {
	return &Sneak{cfg: cfg, log: log}
}

func (*Sneak) Name() string { return model.BehaviorSneak }

func (s *Sneak) Decide(snap model.Snapshot) (model.Move, error) {
	if snap.TurnNumber <= 1 || s.planner == nil {
		p, err := planner.New(len(snap.Requests), snap.Surface)
		if err != nil {
			return model.Move{}, fmt.Errorf("sizing planner: %w", err)
		}
		s.planner = p
	}

	mv, err := s.planner.Next(snap.TurnNumber, snap.Position)
	if errors.Is(err, model.ErrExhaustedPlanner) {
		name := engine.AssignGreedy
		if len(snap.Pieces) <= s.cfg.ExactMatchLimit {
			name = engine.AssignHungarian
		}
		return assignWith(name, snap, s.cfg, s.log), nil
	}
	if err != nil {
		return model.Move{}, fmt.Errorf("turn %d: %w", snap.TurnNumber, err)
	}
	return mv, nil
}

// Phase reports the planner phase, or Horizontal before the first turn.
func (s *Sneak) Phase() planner.Phase {
	if s.planner == nil {
		return planner.Horizontal
	}
	return s.planner.State().Phase
}
