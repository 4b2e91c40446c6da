package engine

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squares builds one small square piece per area so every piece fits on a plate.
func squares(areas ...float64) []model.Piece {
	pieces := make([]model.Piece, len(areas))
	for i, a := range areas {
		side := math.Sqrt(a)
		pieces[i] = model.NewRectPiece(0, 0, side, side)
	}
	return pieces
}

func allAssigners() []Assigner {
	cfg := model.DefaultPlayerConfig()
	return []Assigner{
		IdentityAssigner{},
		SortedAssigner{},
		GreedyAssigner{},
		AssignerFor(AssignHungarian, cfg),
		AssignerFor(AssignSubsetDP, cfg),
		AssignerFor(AssignGenetic, cfg),
	}
}

func randomInstance(rng *rand.Rand, maxN int) ([]model.Piece, []float64) {
	nPieces := rng.Intn(maxN + 1)
	nRequests := 1 + rng.Intn(maxN)
	areas := make([]float64, nPieces)
	for i := range areas {
		areas[i] = 5 + rng.Float64()*140
	}
	requests := make([]float64, nRequests)
	for i := range requests {
		requests[i] = 10 + rng.Float64()*90
	}
	return squares(areas...), requests
}

func TestDeviation(t *testing.T) {
	dev, err := Deviation(55, 50)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, dev, 1e-9)

	_, err = Deviation(10, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDivisionByZero))
}

func TestPenalty_ExactMatchIsZero(t *testing.T) {
	pieces := squares(50, 80)
	for _, tol := range []float64{0, 5, 25} {
		assert.Equal(t, 0.0, Penalty(pieces, []float64{50, 80}, model.Assignment{0, 1}, tol))
	}
}

func TestPenalty_Components(t *testing.T) {
	pieces := []model.Piece{
		model.NewRectPiece(0, 0, 5, 10),  // 50, fits
		model.NewRectPiece(0, 0, 20, 20), // 400, too large for the plate
		model.NewRectPiece(0, 0, 6, 10),  // 60, fits
	}

	// Unassigned request
	assert.Equal(t, 100.0, Penalty(pieces, []float64{50}, model.Assignment{model.Unassigned}, 5))
	// Infeasible piece
	assert.Equal(t, 100.0, Penalty(pieces, []float64{400}, model.Assignment{1}, 5))
	// 20% deviation beyond tolerance
	assert.InDelta(t, 20.0, Penalty(pieces, []float64{50}, model.Assignment{2}, 5), 1e-9)
	// 20% deviation within tolerance
	assert.Equal(t, 0.0, Penalty(pieces, []float64{50}, model.Assignment{2}, 20))
	// Out of range index counts as unassigned
	assert.Equal(t, 100.0, Penalty(pieces, []float64{50}, model.Assignment{9}, 5))
	// Short assignment vector
	assert.Equal(t, 100.0, Penalty(pieces, []float64{50, 60}, model.Assignment{0}, 5))
}

func TestPenalty_ZeroRequestUsesUnassignedPenalty(t *testing.T) {
	assert.Equal(t, 100.0, Penalty(squares(50), []float64{0}, model.Assignment{0}, 5))
}

func TestIdentityAssign_MorRequestsThanPieces(t *testing.T) {
	a := IdentityAssigner{}.Assign(squares(10, 20, 30), []float64{1, 2, 3, 4, 5}, 5)
	assert.Equal(t, model.Assignment{0, 1, 2, model.Unassigned, model.Unassigned}, a)
}

func TestSortedAssign_RankForRank(t *testing.T) {
	pieces := squares(30, 10, 20)
	a := SortedAssigner{}.Assign(pieces, []float64{20, 30, 10}, 5)
	assert.Equal(t, model.Assignment{2, 0, 1}, a)
	assert.Equal(t, 0.0, Penalty(pieces, []float64{20, 30, 10}, a, 5))
}

func TestSortedAssign_StableTies(t *testing.T) {
	a := SortedAssigner{}.Assign(squares(10, 10), []float64{10, 10}, 5)
	assert.Equal(t, model.Assignment{0, 1}, a)
}

func TestSortedAssign_FewerPieces(t *testing.T) {
	a := SortedAssigner{}.Assign(squares(10, 20), []float64{30, 10, 20}, 5)
	// The largest request is the trailing rank and stays unassigned
	assert.Equal(t, model.Assignment{model.Unassigned, 0, 1}, a)
}

func TestSortedAssign_SurplusPiecesStayUnused(t *testing.T) {
	pieces := squares(30, 10, 20)
	requests := []float64{20, 10}
	a := SortedAssigner{}.Assign(pieces, requests, 5)

	// Smallest request takes the smallest piece, the 30 piece is left over
	assert.Equal(t, model.Assignment{2, 1}, a)
	assert.InDelta(t, 0.0, Penalty(pieces, requests, a, 5), 1e-9)
}

func TestGreedyAssign_InputOrderNoBacktracking(t *testing.T) {
	// Request 0 (45) takes the 40 piece; request 1 (40) is left with the 100 piece
	pieces := squares(40, 100)
	a := GreedyAssigner{}.Assign(pieces, []float64{45, 40}, 5)
	assert.Equal(t, model.Assignment{0, 1}, a)

	// Exact matching finds the better mapping
	h := HungarianAssigner{}.Assign(squares(40, 50), []float64{50, 40}, 5)
	assert.Equal(t, model.Assignment{1, 0}, h)
}

func TestHungarian_NonSquare(t *testing.T) {
	// More pieces than requests
	a := HungarianAssigner{}.Assign(squares(5, 50, 80, 20), []float64{80, 20}, 0)
	assert.Equal(t, model.Assignment{2, 3}, a)

	// More requests than pieces: exactly one request is left out
	a = HungarianAssigner{}.Assign(squares(50), []float64{80, 50, 20}, 0)
	assert.Equal(t, model.Assignment{model.Unassigned, 0, model.Unassigned}, a)
}

func TestHungarian_NeverHandsOutOversizedPieces(t *testing.T) {
	// A 20x20 piece matches the request exactly but does not fit on a plate
	pieces := []model.Piece{model.NewRectPiece(0, 0, 20, 20)}
	a := HungarianAssigner{}.Assign(pieces, []float64{400}, 5)
	assert.Equal(t, model.Assignment{model.Unassigned}, a)

	// A fitting piece is still preferred over the oversized one
	pieces = append(pieces, model.NewRectPiece(0, 0, 10, 10))
	a = HungarianAssigner{}.Assign(pieces, []float64{400}, 5)
	assert.Equal(t, model.Assignment{1}, a)
}

func TestHungarian_DropsMatchesWorseThanNothing(t *testing.T) {
	// A piece three times the request deviates by 200%, worse than unassigned
	a := HungarianAssigner{}.Assign(squares(90), []float64{30}, 5)
	assert.Equal(t, model.Assignment{model.Unassigned}, a)
}

func TestSolveMinCostMatching(t *testing.T) {
	cost := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}
	rowToCol := solveMinCostMatching(cost)
	total := 0.0
	for i, j := range rowToCol {
		total += cost[i][j]
	}
	assert.Equal(t, 5.0, total)
	assert.ElementsMatch(t, []int{0, 1, 2}, rowToCol)
	assert.Nil(t, solveMinCostMatching(nil))
}

func TestAllAssigners_VectorShape(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 40; trial++ {
		pieces, requests := randomInstance(rng, 8)
		for _, as := range allAssigners() {
			a := as.Assign(pieces, requests, 5)
			require.Len(t, a, len(requests), as.Name())

			seen := map[int]bool{}
			for _, j := range a {
				if j == model.Unassigned {
					continue
				}
				assert.True(t, j >= 0 && j < len(pieces), "%s returned piece %d of %d", as.Name(), j, len(pieces))
				assert.False(t, seen[j], "%s reused piece %d", as.Name(), j)
				seen[j] = true
			}
		}
	}
}

func TestAllAssigners_EmptyPieces(t *testing.T) {
	for _, as := range allAssigners() {
		a := as.Assign(nil, []float64{10, 20, 30}, 5)
		assert.Equal(t, model.Assignment{model.Unassigned, model.Unassigned, model.Unassigned}, a, as.Name())
	}
}

func TestHungarian_OptimalOnRandomInstances(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cfg := model.DefaultPlayerConfig()
	for trial := 0; trial < 200; trial++ {
		pieces, requests := randomInstance(rng, 8)
		tol := float64(rng.Intn(20))

		hung := Penalty(pieces, requests, AssignerFor(AssignHungarian, cfg).Assign(pieces, requests, tol), tol)
		dp := Penalty(pieces, requests, AssignerFor(AssignSubsetDP, cfg).Assign(pieces, requests, tol), tol)
		greedy := Penalty(pieces, requests, GreedyAssigner{}.Assign(pieces, requests, tol), tol)
		sorted := Penalty(pieces, requests, SortedAssigner{}.Assign(pieces, requests, tol), tol)

		assert.InDelta(t, dp, hung, 1e-6, "trial %d", trial)
		assert.LessOrEqual(t, hung, greedy+1e-6, "trial %d", trial)
		assert.LessOrEqual(t, hung, sorted+1e-6, "trial %d", trial)
	}
}

func TestSubsetDP_DelegatesLargeInstances(t *testing.T) {
	areas := make([]float64, MaxSubsetPieces+2)
	for i := range areas {
		areas[i] = float64(10 + i)
	}
	pieces := squares(areas...)
	requests := []float64{12, 15, 20}

	dp := SubsetDPAssigner{}.Assign(pieces, requests, 0)
	assert.Equal(t, HungarianAssigner{}.Assign(pieces, requests, 0), dp)
}

func TestAssignerFor(t *testing.T) {
	cfg := model.DefaultPlayerConfig()
	for _, name := range []string{AssignIdentity, AssignSorted, AssignGreedy, AssignHungarian, AssignSubsetDP, AssignGenetic} {
		assert.Equal(t, name, AssignerFor(name, cfg).Name())
	}
	assert.Equal(t, AssignGreedy, AssignerFor("unknown", cfg).Name())
}
