package strategy

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/piwi3910/CakeCut/internal/model"
)

// Controller owns the behavior of one game and turns host snapshots into moves.
type Controller struct {
	cfg      model.PlayerConfig
	behavior Behavior
	log      zerolog.Logger
	turns    int
}

// NewController creates a controller for cfg.Behavior.
func NewController(cfg model.PlayerConfig, log zerolog.Logger) *Controller {
	cfg.Normalize()
	return &Controller{
		cfg:      cfg,
		behavior: BehaviorFor(cfg.Behavior, cfg, log),
		log:      log,
	}
}

// Behavior returns the behavior in use.
func (c *Controller) Behavior() Behavior {
	return c.behavior
}

// Config returns the normalized configuration.
func (c *Controller) Config() model.PlayerConfig {
	return c.cfg
}

// Move returns the move for one turn.
func (c *Controller) Move(snap model.Snapshot) (model.Move, error) {
	if err := snap.Surface.Validate(); err != nil {
		return model.Move{}, err
	}
	if snap.TurnNumber < 1 {
		return model.Move{}, fmt.Errorf("turn %d: turns start at 1", snap.TurnNumber)
	}

	mv, err := c.behavior.Decide(snap)
	if err != nil {
		c.log.Error().Err(err).Int("turn", snap.TurnNumber).Str("behavior", c.behavior.Name()).Msg("Behavior failed")
		return model.Move{}, fmt.Errorf("%s: %w", c.behavior.Name(), err)
	}
	c.turns++

	c.log.Debug().
		Int("turn", snap.TurnNumber).
		Str("behavior", c.behavior.Name()).
		Int("pieces", len(snap.Pieces)).
		Str("move", mv.String()).
		Msg("Move decided")
	return mv, nil
}

// Turns returns how many moves the controller has produced.
func (c *Controller) Turns() int {
	return c.turns
}
