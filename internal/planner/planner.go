// Package planner turns a request count and a cake surface into a turn-by-turn
// sequence of knife positions: horizontal slices first, then vertical ones.
package planner

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/CakeCut/internal/model"
)

// eps is the position resolution. Emitted coordinates are rounded to it and
// bounds tests keep at least this much room from the far edge.
const eps = 0.01

// InitPosition is where the knife is placed on turn 1, just inside the left edge.
var InitPosition = model.Point{X: 0.01, Y: 0}

// ErrNoRequests is returned when a planner is sized for zero requests.
var ErrNoRequests = errors.New("planner needs at least one request")

// Phase is the stage of the cut path.
type Phase int

const (
	Horizontal Phase = iota
	Vertical
	Done
)

func (p Phase) String() string {
	switch p {
	case Horizontal:
		return "HORIZONTAL"
	case Vertical:
		return "VERTICAL"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// PlannerState is the complete planner state. It is passed by value into Step
// and a new value is returned; the caller decides which one to keep.
type PlannerState struct {
	Phase   Phase
	Queue   Queue
	SX      float64 // spacing between vertical cuts, signed by travel direction
	SY      float64 // spacing between horizontal cuts
	Surface model.Surface
	Started bool // bootstrap cut enqueued
}

// NewPlannerState sizes a planner for n requests so that roughly sqrt(n) by
// sqrt(n) pieces result.
func NewPlannerState(n int, surface model.Surface) (PlannerState, error) {
	if err := surface.Validate(); err != nil {
		return PlannerState{}, err
	}
	if n < 1 {
		return PlannerState{}, fmt.Errorf("%d requests: %w", n, ErrNoRequests)
	}
	root := math.Sqrt(float64(n))
	return PlannerState{
		Phase:   Horizontal,
		SX:      surface.Width / root,
		SY:      surface.Length / root,
		Surface: surface,
	}, nil
}

// Step computes the move for one turn from the current knife position.
// Turn 1 always places the knife. Later turns pop one pending position,
// refilling the queue from the current phase when it runs dry. Once the
// phase is Done and nothing is pending, Step returns model.ErrExhaustedPlanner
// together with the Done state. On any other error the input state is returned.
func Step(state PlannerState, turn int, pos model.Point) (PlannerState, model.Move, error) {
	if turn <= 1 {
		return state, model.InitMove(InitPosition), nil
	}

	next := state
	next.Queue = state.Queue.Clone()

	if !next.Started {
		s := next.Surface
		next.Queue.Push(next.emit(model.Point{X: 0, Y: next.SY}), next.emit(model.Point{X: s.Width, Y: next.SY}))
		next.Started = true
	}

	for next.Queue.IsEmpty() {
		if next.Phase == Done {
			return next, model.Move{}, model.ErrExhaustedPlanner
		}
		if err := next.refill(pos); err != nil {
			return state, model.Move{}, err
		}
	}

	p, _ := next.Queue.Pop()
	return next, model.CutMove(p), nil
}

// refill enqueues the next cut (with its sneak sub-path) of the current phase,
// or advances the phase when there is no room for another cut.
func (s *PlannerState) refill(pos model.Point) error {
	w, l := s.Surface.Width, s.Surface.Length
	if !s.Surface.OnBoundary(pos, eps) {
		return fmt.Errorf("knife at %s is off the boundary: %w", pos, model.ErrInvalidGeometry)
	}

	switch s.Phase {
	case Horizontal:
		side, opposite := 0.0, w
		if pos.X > w/2 {
			side, opposite = w, 0
		}
		if y := pos.Y + s.SY; y < l-eps {
			return s.enqueueCut(pos, model.Point{X: side, Y: y}, model.Point{X: opposite, Y: y})
		}

		// No room for another slice: move over by one column and drop to the bottom.
		s.SX = math.Abs(s.SX)
		if side != 0 {
			s.SX = -s.SX
		}
		x := side + s.SX
		s.Phase = Vertical
		return s.enqueueCut(pos, model.Point{X: x, Y: l}, model.Point{X: x, Y: 0})

	case Vertical:
		side, opposite := 0.0, l
		if pos.Y > l/2 {
			side, opposite = l, 0
		}
		if x := pos.X + s.SX; x > eps && x < w-eps {
			return s.enqueueCut(pos, model.Point{X: x, Y: side}, model.Point{X: x, Y: opposite})
		}
		s.Phase = Done
	}
	return nil
}

// enqueueCut walks the boundary from pos to start and then cuts to end.
func (s *PlannerState) enqueueCut(pos, start, end model.Point) error {
	start, end = s.emit(start), s.emit(end)
	path, err := sneakPath(s.Surface, pos, start)
	if err != nil {
		return err
	}
	s.Queue.Push(path...)
	s.Queue.Push(end)
	return nil
}

// emit rounds p to the position resolution and clamps it into the surface.
// Coordinates on an edge are kept exact so the position stays on the
// boundary when the surface is not a multiple of the resolution.
func (s PlannerState) emit(p model.Point) model.Point {
	return s.Surface.Clamp(model.Point{
		X: roundCoord(p.X, s.Surface.Width),
		Y: roundCoord(p.Y, s.Surface.Length),
	})
}

// roundCoord rounds v to hundredths unless it lies on 0 or extent.
func roundCoord(v, extent float64) float64 {
	const edgeEps = 1e-9
	switch {
	case math.Abs(v) <= edgeEps:
		return 0
	case math.Abs(v-extent) <= edgeEps:
		return extent
	}
	return math.Round(v*100) / 100
}

// Planner wraps a PlannerState for callers that want a single owner.
type Planner struct {
	state PlannerState
}

// New creates a planner sized for n requests on surface.
func New(n int, surface model.Surface) (*Planner, error) {
	state, err := NewPlannerState(n, surface)
	if err != nil {
		return nil, err
	}
	return &Planner{state: state}, nil
}

// Next returns the move for this turn and keeps the advanced state. Exhaustion
// is reported as model.ErrExhaustedPlanner; any other error leaves the state
// untouched.
func (p *Planner) Next(turn int, pos model.Point) (model.Move, error) {
	next, mv, err := Step(p.state, turn, pos)
	if err != nil && !errors.Is(err, model.ErrExhaustedPlanner) {
		return model.Move{}, err
	}
	p.state = next
	return mv, err
}

// State returns a copy of the current state.
func (p *Planner) State() PlannerState {
	s := p.state
	s.Queue = p.state.Queue.Clone()
	return s
}

// Done reports whether the planner has nothing left to emit.
func (p *Planner) Done() bool {
	return p.state.Phase == Done && p.state.Queue.IsEmpty()
}
