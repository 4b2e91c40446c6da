package strategy

import (
	"github.com/rs/zerolog"

	"github.com/piwi3910/CakeCut/internal/model"
)

// FixedScan sweeps the cake in a sawtooth of horizontal slices of fixed
// height and then hands out the cheapest assignment. Small cakes use the
// configured slice height; large ones use the wider step.
type FixedScan struct {
	cfg  model.PlayerConfig
	log  zerolog.Logger
	path []model.Point
	next int
}

func NewFixedScan(cfg model.PlayerConfig, log zerolog.Logger) *FixedScan {
	return &FixedScan{cfg: cfg, log: log}
}

func (*FixedScan) Name() string { return model.BehaviorSawtooth }

func (f *FixedScan) Decide(snap model.Snapshot) (model.Move, error) {
	if err := snap.Surface.Validate(); err != nil {
		return model.Move{}, err
	}
	if snap.TurnNumber <= 1 || f.path == nil {
		f.path = SawtoothPath(snap.Surface, f.sliceHeight(snap.Surface))
		f.next = 0
		f.log.Debug().Int("positions", len(f.path)).Msg("Sawtooth path planned")
		if snap.TurnNumber <= 1 {
			return model.InitMove(model.Point{}), nil
		}
	}

	if f.next < len(f.path) {
		p := f.path[f.next]
		f.next++
		return model.CutMove(p), nil
	}
	return assignCheapest(snap, f.cfg, f.log), nil
}

func (f *FixedScan) sliceHeight(s model.Surface) float64 {
	if s.Area() >= f.cfg.BigCakeArea {
		return f.cfg.BigCakeStep
	}
	return f.cfg.SawtoothSliceHeight
}

// SawtoothPath returns the knife positions of a sawtooth sweep starting from
// the origin: a cut across at every multiple of height, joined by moves along
// the side edges. The origin itself is omitted since the knife starts there.
func SawtoothPath(s model.Surface, height float64) []model.Point {
	if height <= 0 {
		return nil
	}
	var path []model.Point
	left := true
	for k := 0; ; k++ {
		y := round2(float64(k) * height)
		if y >= s.Length {
			break
		}
		if left {
			path = append(path, model.Point{X: 0, Y: y}, model.Point{X: s.Width, Y: y})
		} else {
			path = append(path, model.Point{X: s.Width, Y: y}, model.Point{X: 0, Y: y})
		}
		left = !left
	}
	if len(path) > 0 && path[0] == (model.Point{}) {
		path = path[1:]
	}
	return path
}
