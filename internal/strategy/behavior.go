// Package strategy decides the player's move each turn. A named Behavior
// produces cuts until it is satisfied with the pieces on the table and then
// hands the pieces out through the assignment engine.
package strategy

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/piwi3910/CakeCut/internal/engine"
	"github.com/piwi3910/CakeCut/internal/model"
)

// posEps is the tolerance used when deciding which edge the knife is on.
const posEps = 0.01

// Behavior is one way of playing a game. Decide is called once per turn with
// the host's snapshot and returns exactly one move. A Behavior belongs to a
// single game.
type Behavior interface {
	Name() string
	Decide(snap model.Snapshot) (model.Move, error)
}

// BehaviorFor returns a fresh behavior for name. Unknown names fall back to
// climb_hills.
func BehaviorFor(name string, cfg model.PlayerConfig, log zerolog.Logger) Behavior {
	cfg.Normalize()
	switch name {
	case model.BehaviorSneak:
		return NewSneak(cfg, log)
	case model.BehaviorSawtooth:
		return NewFixedScan(cfg, log)
	case model.BehaviorClimbHills:
		return NewClimbHills(cfg, log)
	default:
		log.Warn().Str("behavior", name).Msg("Unknown behavior, falling back to climb_hills")
		return NewClimbHills(cfg, log)
	}
}

// BehaviorNames lists the registered behavior names.
func BehaviorNames() []string {
	return []string{model.BehaviorSneak, model.BehaviorClimbHills, model.BehaviorSawtooth}
}

// assignWith hands the pieces out with one named assigner.
func assignWith(name string, snap model.Snapshot, cfg model.PlayerConfig, log zerolog.Logger) model.Move {
	assigner := engine.AssignerFor(name, cfg)
	a := assigner.Assign(snap.Pieces, snap.Requests, cfg.Tolerance)
	penalty := engine.NewScorer(snap.Pieces, snap.Requests, cfg.Tolerance, cfg.PlateRadius).Total(a)

	log.Debug().
		Str("strategy", assigner.Name()).
		Int("pieces", len(snap.Pieces)).
		Int("requests", len(snap.Requests)).
		Float64("penalty", penalty).
		Msg("Assigning pieces")
	return model.AssignMove(a)
}

// assignCheapest runs every default scenario and keeps the lowest penalty.
func assignCheapest(snap model.Snapshot, cfg model.PlayerConfig, log zerolog.Logger) model.Move {
	scenarios := engine.BuildDefaultScenarios(cfg, len(snap.Pieces))
	results := engine.CompareAssigners(scenarios, snap.Pieces, snap.Requests, cfg.Tolerance, cfg.PlateRadius)
	for _, r := range results {
		log.Debug().
			Str("strategy", r.Scenario.Name).
			Float64("penalty", r.Penalty).
			Int("assigned", r.AssignedCount).
			Int("infeasible", r.InfeasibleCount).
			Msg("Strategy penalty")
	}

	best, ok := engine.Cheapest(results)
	if !ok {
		return model.AssignMove(model.NewAssignment(len(snap.Requests)))
	}
	log.Debug().Str("strategy", best.Scenario.Name).Float64("penalty", best.Penalty).Msg("Cheapest strategy")
	return model.AssignMove(best.Assignment)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
