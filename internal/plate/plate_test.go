package plate

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitsOnPlate_SquareTooLarge(t *testing.T) {
	piece := model.Piece{Outline: model.Outline{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}, {X: 0, Y: 20}}}

	c, err := MinEnclosingCircle(piece.Outline)
	require.NoError(t, err)
	assert.InDelta(t, 14.142, c.Radius, 1e-3)
	assert.InDelta(t, 10.0, c.Center.X, 1e-9)
	assert.InDelta(t, 10.0, c.Center.Y, 1e-9)

	ok, err := FitsOnPlate(piece, model.DefaultPlateRadius)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFitsOnPlate_SmallPieceFits(t *testing.T) {
	ok, err := FitsOnPlate(model.NewRectPiece(5, 5, 10, 10), model.DefaultPlateRadius)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFitsOnPlate_BoundaryRadius(t *testing.T) {
	// A 3-4-5 right triangle has its circumcircle on the hypotenuse: radius 2.5
	tri := model.Piece{Outline: model.Outline{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}}
	ok, err := FitsOnPlate(tri, 2.5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = FitsOnPlate(tri, 2.49)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFitsOnPlate_DegenerateInput(t *testing.T) {
	for _, outline := range []model.Outline{nil, {{X: 0, Y: 0}}, {{X: 0, Y: 0}, {X: 1, Y: 1}}} {
		_, err := FitsOnPlate(model.Piece{Outline: outline}, 12.5)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInvalidGeometry))
	}

	_, err := MinEnclosingCircle(model.Outline{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}, {X: 2, Y: 2}})
	assert.True(t, errors.Is(err, model.ErrInvalidGeometry))
}

func TestMinEnclosingCircle_Collinear(t *testing.T) {
	c, err := MinEnclosingCircle(model.Outline{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, c.Radius, 1e-9)
	assert.InDelta(t, 5.0, c.Center.X, 1e-9)
}

func TestMinEnclosingCircle_ObtuseTriangleUsesLongestSide(t *testing.T) {
	c, err := MinEnclosingCircle(model.Outline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 1}})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, c.Radius, 1e-9)
}

func TestMinEnclosingCircle_ContainsAllRandomPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 3 + rng.Intn(30)
		pts := make(model.Outline, n)
		for i := range pts {
			pts[i] = model.Point{X: rng.Float64() * 40, Y: rng.Float64() * 20}
		}
		c, err := MinEnclosingCircle(pts)
		require.NoError(t, err)

		onCircle := 0
		for _, p := range pts {
			d := c.Center.Dist(p)
			assert.LessOrEqual(t, d, c.Radius+1e-6)
			if math.Abs(d-c.Radius) < 1e-6 {
				onCircle++
			}
		}
		// A minimal circle is pinned by at least two points
		assert.GreaterOrEqual(t, onCircle, 2)
	}
}

func TestFeasibleSet(t *testing.T) {
	pieces := []model.Piece{
		model.NewRectPiece(0, 0, 10, 10),
		model.NewRectPiece(0, 0, 20, 20),
		{Outline: model.Outline{{X: 0, Y: 0}}},
	}
	assert.Equal(t, []bool{true, false, false}, FeasibleSet(pieces, 12.5))
}
