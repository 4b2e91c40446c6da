package engine

import (
	"math"

	"github.com/piwi3910/CakeCut/internal/model"
)

// HungarianAssigner solves the assignment exactly as a minimum-cost bipartite
// matching over the per-request penalty matrix.
//
// Costs are capped at UnassignedPenalty: handing out a piece that deviates by
// more than 100% is never better than handing out nothing, so such matches and
// pieces that do not fit on a plate are stripped back to model.Unassigned
// after solving.
type HungarianAssigner struct {
	PlateRadius float64
}

func (HungarianAssigner) Name() string { return AssignHungarian }

func (h HungarianAssigner) Assign(pieces []model.Piece, requests []float64, tolerance float64) model.Assignment {
	a := model.NewAssignment(len(requests))
	if len(pieces) == 0 || len(requests) == 0 {
		return a
	}

	scorer := NewScorer(pieces, requests, tolerance, radiusOrDefault(h.PlateRadius))

	n := len(requests)
	if len(pieces) > n {
		n = len(pieces)
	}
	padCost := UnassignedPenalty*float64(n) + 1

	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		for j := range cost[i] {
			if i >= len(requests) || j >= len(pieces) {
				cost[i][j] = padCost
				continue
			}
			cost[i][j] = math.Min(scorer.Cost(i, j), UnassignedPenalty)
		}
	}

	rowToCol := solveMinCostMatching(cost)
	for i := range requests {
		j := rowToCol[i]
		if j < 0 || j >= len(pieces) {
			continue
		}
		if !scorer.Feasible(j) || scorer.Cost(i, j) > UnassignedPenalty {
			continue
		}
		a[i] = j
	}
	return a
}

// solveMinCostMatching runs the O(n^3) Hungarian algorithm with row and column
// potentials on a square cost matrix and returns the column matched to each row.
func solveMinCostMatching(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	// 1-based potentials; column 0 is a virtual start column.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)   // p[j] = row matched to column j
	way := make([]int, n+1) // previous column on the augmenting path

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		used := make([]bool, n+1)

		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, n)
	for i := range rowToCol {
		rowToCol[i] = -1
	}
	for j := 1; j <= n; j++ {
		if p[j] > 0 {
			rowToCol[p[j]-1] = j - 1
		}
	}
	return rowToCol
}
