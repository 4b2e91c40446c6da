// Package sim is a minimal offline game host. It keeps the cake pieces, applies
// the player's moves and scores the final assignment, so behaviors can be
// played and compared without the real game server.
package sim

import (
	"errors"
	"fmt"

	"github.com/piwi3910/CakeCut/internal/engine"
	"github.com/piwi3910/CakeCut/internal/model"
)

// boundaryEps is how far a knife position may stray from the cake edge.
const boundaryEps = 0.01

var (
	// ErrIllegalMove is returned for moves the host refuses.
	ErrIllegalMove = errors.New("illegal move")

	// ErrGameOver is returned for moves made after the assignment.
	ErrGameOver = errors.New("game over")
)

// Host holds the state of one simulated game.
type Host struct {
	surface    model.Surface
	requests   []float64
	tolerance  float64
	radius     float64
	pieces     []model.Piece
	pos        model.Point
	placed     bool
	turn       int
	assignment model.Assignment
	moves      []model.Move
}

// NewHost starts a game on an uncut cake.
func NewHost(surface model.Surface, requests []float64, tolerance, plateRadius float64) (*Host, error) {
	if err := surface.Validate(); err != nil {
		return nil, err
	}
	if plateRadius <= 0 {
		plateRadius = model.DefaultPlateRadius
	}
	return &Host{
		surface:   surface,
		requests:  requests,
		tolerance: tolerance,
		radius:    plateRadius,
		pieces:    []model.Piece{{Outline: surface.Corners()}},
		turn:      1,
	}, nil
}

// Snapshot returns the player's view of the current turn.
func (h *Host) Snapshot() model.Snapshot {
	pieces := make([]model.Piece, len(h.pieces))
	copy(pieces, h.pieces)
	return model.Snapshot{
		Pieces:     pieces,
		TurnNumber: h.turn,
		Position:   h.pos,
		Requests:   h.requests,
		Surface:    h.surface,
	}
}

// Apply executes one move and advances the turn.
func (h *Host) Apply(mv model.Move) error {
	if h.Finished() {
		return ErrGameOver
	}

	switch mv.Kind {
	case model.MoveInit:
		if h.placed {
			return fmt.Errorf("knife already placed: %w", ErrIllegalMove)
		}
		if !h.surface.OnBoundary(mv.Position, boundaryEps) {
			return fmt.Errorf("init at %s off the boundary: %w", mv.Position, ErrIllegalMove)
		}
		h.pos = mv.Position
		h.placed = true

	case model.MoveCut:
		if !h.placed {
			return fmt.Errorf("cut before init: %w", ErrIllegalMove)
		}
		if !h.surface.OnBoundary(mv.Position, boundaryEps) {
			return fmt.Errorf("cut to %s off the boundary: %w", mv.Position, ErrIllegalMove)
		}
		if mv.Position.Dist(h.pos) < boundaryEps {
			return fmt.Errorf("cut to the current position %s: %w", mv.Position, ErrIllegalMove)
		}
		h.pieces = cutPieces(h.pieces, h.pos, mv.Position)
		h.pos = mv.Position

	case model.MoveAssign:
		if len(mv.Assignment) != len(h.requests) {
			return fmt.Errorf("assignment of length %d for %d requests: %w", len(mv.Assignment), len(h.requests), ErrIllegalMove)
		}
		used := make(map[int]bool)
		for _, j := range mv.Assignment {
			if j == model.Unassigned {
				continue
			}
			if j < 0 || j >= len(h.pieces) || used[j] {
				return fmt.Errorf("piece %d handed out twice or unknown: %w", j, ErrIllegalMove)
			}
			used[j] = true
		}
		h.assignment = mv.Assignment

	default:
		return fmt.Errorf("move kind %d: %w", mv.Kind, ErrIllegalMove)
	}

	h.moves = append(h.moves, mv)
	h.turn++
	return nil
}

// Finished reports whether the pieces have been handed out.
func (h *Host) Finished() bool {
	return h.assignment != nil
}

// Penalty scores the assignment, or an all-unassigned one before it is made.
func (h *Host) Penalty() float64 {
	a := h.assignment
	if a == nil {
		a = model.NewAssignment(len(h.requests))
	}
	return engine.NewScorer(h.pieces, h.requests, h.tolerance, h.radius).Total(a)
}

// Pieces returns the current pieces.
func (h *Host) Pieces() []model.Piece { return h.pieces }

func (h *Host) Position() model.Point { return h.pos }

// Moves returns every accepted move in order.
func (h *Host) Moves() []model.Move { return h.moves }

func (h *Host) Assignment() model.Assignment { return h.assignment }

func (h *Host) Turn() int { return h.turn }
