package strategy

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/piwi3910/CakeCut/internal/model"
)

type chord struct {
	from, to model.Point
}

func newChord(a, b model.Point) chord {
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	return chord{from: a, to: b}
}

// ClimbHills zig-zags across the cake, stepping down the far edge each time,
// until there are at least as many pieces as requests. It then compares the
// assignment strategies and hands out the cheapest result. A zig-zag that
// would retrace an earlier chord ends the cutting early.
type ClimbHills struct {
	cfg  model.PlayerConfig
	log  zerolog.Logger
	cuts map[chord]bool
}

func NewClimbHills(cfg model.PlayerConfig, log zerolog.Logger) *ClimbHills {
	return &ClimbHills{cfg: cfg, log: log, cuts: make(map[chord]bool)}
}

func (*ClimbHills) Name() string { return model.BehaviorClimbHills }

func (c *ClimbHills) Decide(snap model.Snapshot) (model.Move, error) {
	if err := snap.Surface.Validate(); err != nil {
		return model.Move{}, err
	}
	if snap.TurnNumber <= 1 {
		c.cuts = make(map[chord]bool)
		return model.InitMove(model.Point{}), nil
	}

	if len(snap.Pieces) < len(snap.Requests) {
		next := zigZag(snap.Surface, snap.Position, c.cfg.BigCakeStep)
		key := newChord(snap.Position, next)
		if !c.cuts[key] {
			c.cuts[key] = true
			return model.CutMove(next), nil
		}
		c.log.Debug().
			Str("from", snap.Position.String()).
			Str("to", next.String()).
			Msg("Zig-zag would retrace a cut, assigning early")
	}

	return assignCheapest(snap, c.cfg, c.log), nil
}

// zigZag crosses to the opposite vertical edge, step further along it,
// wrapping around the cake length.
func zigZag(s model.Surface, pos model.Point, step float64) model.Point {
	x := 0.0
	if math.Abs(pos.X) <= posEps {
		x = s.Width
	}
	y := round2(math.Mod(pos.Y+step, s.Length))
	return s.Clamp(model.Point{X: x, Y: y})
}
