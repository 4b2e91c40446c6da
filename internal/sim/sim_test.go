package sim

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/piwi3910/CakeCut/internal/strategy"
)

var cake = model.Surface{Width: 40, Length: 20}

func totalArea(pieces []model.Piece) float64 {
	sum := 0.0
	for _, p := range pieces {
		sum += p.Area()
	}
	return sum
}

func TestSplitConvex(t *testing.T) {
	square := model.NewRectPiece(0, 0, 10, 10).Outline

	left, right, split := splitConvex(square, model.Point{X: 5, Y: 0}, model.Point{X: 5, Y: 10})
	require.True(t, split)
	assert.InDelta(t, 50, left.Area(), 1e-9)
	assert.InDelta(t, 50, right.Area(), 1e-9)

	// Diagonal through two vertices
	left, right, split = splitConvex(square, model.Point{X: 0, Y: 0}, model.Point{X: 10, Y: 10})
	require.True(t, split)
	assert.Len(t, left, 3)
	assert.Len(t, right, 3)
	assert.InDelta(t, 50, left.Area(), 1e-9)

	// Along an edge: nothing to split
	_, _, split = splitConvex(square, model.Point{X: 0, Y: 0}, model.Point{X: 10, Y: 0})
	assert.False(t, split)

	// Line outside the piece
	_, _, split = splitConvex(square, model.Point{X: 20, Y: 0}, model.Point{X: 20, Y: 10})
	assert.False(t, split)
}

func TestCutPiecesKeepsArea(t *testing.T) {
	pieces := []model.Piece{{Outline: cake.Corners()}}
	pieces = cutPieces(pieces, model.Point{X: 0, Y: 10}, model.Point{X: 40, Y: 10})
	pieces = cutPieces(pieces, model.Point{X: 20, Y: 20}, model.Point{X: 20, Y: 0})
	pieces = cutPieces(pieces, model.Point{X: 0, Y: 0}, model.Point{X: 40, Y: 20})

	assert.Len(t, pieces, 6)
	assert.InDelta(t, cake.Area(), totalArea(pieces), 1e-9)
}

func TestHost_RejectsIllegalMoves(t *testing.T) {
	h, err := NewHost(cake, []float64{100, 100}, 5, 0)
	require.NoError(t, err)

	err = h.Apply(model.CutMove(model.Point{X: 40, Y: 10}))
	assert.True(t, errors.Is(err, ErrIllegalMove), "cut before init")

	err = h.Apply(model.InitMove(model.Point{X: 10, Y: 10}))
	assert.True(t, errors.Is(err, ErrIllegalMove), "init inside the cake")

	require.NoError(t, h.Apply(model.InitMove(model.Point{X: 0, Y: 10})))
	err = h.Apply(model.InitMove(model.Point{X: 0, Y: 5}))
	assert.True(t, errors.Is(err, ErrIllegalMove), "second init")

	err = h.Apply(model.CutMove(model.Point{X: 0, Y: 10}))
	assert.True(t, errors.Is(err, ErrIllegalMove), "zero-length cut")

	require.NoError(t, h.Apply(model.CutMove(model.Point{X: 40, Y: 10})))
	assert.Len(t, h.Pieces(), 2)
	assert.Equal(t, 3, h.Turn())

	err = h.Apply(model.AssignMove(model.Assignment{0}))
	assert.True(t, errors.Is(err, ErrIllegalMove), "short assignment")

	err = h.Apply(model.AssignMove(model.Assignment{1, 1}))
	assert.True(t, errors.Is(err, ErrIllegalMove), "piece handed out twice")

	require.NoError(t, h.Apply(model.AssignMove(model.Assignment{1, model.Unassigned})))
	assert.True(t, h.Finished())
	// 40x10 pieces do not fit on a plate
	assert.Equal(t, 200.0, h.Penalty())

	err = h.Apply(model.CutMove(model.Point{X: 0, Y: 0}))
	assert.True(t, errors.Is(err, ErrGameOver))
}

func TestNewHost_InvalidSurface(t *testing.T) {
	_, err := NewHost(model.Surface{Width: 0, Length: 1}, nil, 5, 0)
	assert.True(t, errors.Is(err, model.ErrInvalidGeometry))
}

func TestPlay_SneakQuarters(t *testing.T) {
	game := model.NewGame(cake, []float64{200, 200, 200, 200}, model.BehaviorSneak)
	rec, err := Play(game, model.DefaultPlayerConfig(), 0, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, game.ID, rec.Game.ID)
	assert.Equal(t, model.BehaviorSneak, rec.Game.Behavior)
	// Four quarters plus the corner sliver left by the bootstrap cut
	assert.Len(t, rec.Pieces, 5)
	assert.InDelta(t, cake.Area(), totalArea(rec.Pieces), 1e-6)
	assert.Equal(t, 4, rec.Assignment.AssignedCount())
	assert.Equal(t, 0.0, rec.Penalty)

	path := rec.Path()
	require.NotEmpty(t, path)
	assert.Equal(t, model.Point{X: 0.01, Y: 0}, path[0])
	assert.Equal(t, model.Point{X: 20, Y: 0}, path[len(path)-1])
}

func TestPlayAll_EveryBehaviorFinishes(t *testing.T) {
	game := model.NewGame(cake, []float64{60, 80, 100, 120, 140}, "")
	records, err := PlayAll(game, model.DefaultPlayerConfig(), strategy.BehaviorNames(), 0, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, len(strategy.BehaviorNames()))

	for i, rec := range records {
		assert.Equal(t, strategy.BehaviorNames()[i], rec.Game.Behavior)
		assert.Len(t, rec.Assignment, 5)
		assert.InDelta(t, cake.Area(), totalArea(rec.Pieces), 1e-6)
		assert.GreaterOrEqual(t, rec.Penalty, 0.0)
		assert.LessOrEqual(t, rec.Penalty, 500.0)
	}
}

func TestPlay_TurnLimit(t *testing.T) {
	game := model.NewGame(cake, []float64{50, 50}, model.BehaviorSawtooth)
	_, err := Play(game, model.DefaultPlayerConfig(), 3, zerolog.Nop())
	assert.True(t, errors.Is(err, ErrTurnLimit))
}

func TestReplayPath(t *testing.T) {
	path := []model.Point{{X: 0, Y: 10}, {X: 40, Y: 10}, {X: 40, Y: 20}, {X: 20, Y: 20}, {X: 20, Y: 0}}
	h, err := ReplayPath(cake, path)
	require.NoError(t, err)
	assert.Len(t, h.Pieces(), 4)
	for _, p := range h.Pieces() {
		assert.InDelta(t, 200, p.Area(), 1e-9)
	}

	_, err = ReplayPath(cake, []model.Point{{X: 0, Y: 10}, {X: 10, Y: 10}})
	assert.True(t, errors.Is(err, ErrIllegalMove))
}
