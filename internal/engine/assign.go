package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/CakeCut/internal/model"
)

// Assigner maps pieces to requests. Implementations are pure and may be called
// repeatedly, e.g. to compare penalties before committing to one.
type Assigner interface {
	Name() string
	Assign(pieces []model.Piece, requests []float64, tolerance float64) model.Assignment
}

// Assigner names accepted by AssignerFor.
const (
	AssignIdentity  = "identity"
	AssignSorted    = "sorted"
	AssignGreedy    = "greedy"
	AssignHungarian = "hungarian"
	AssignSubsetDP  = "subset_dp"
	AssignGenetic   = "genetic"
)

// AssignerFor returns the assignment strategy registered under name. Unknown
// names fall back to greedy best-fit.
func AssignerFor(name string, cfg model.PlayerConfig) Assigner {
	switch name {
	case AssignIdentity:
		return IdentityAssigner{}
	case AssignSorted:
		return SortedAssigner{}
	case AssignHungarian:
		return HungarianAssigner{PlateRadius: cfg.PlateRadius}
	case AssignSubsetDP:
		return SubsetDPAssigner{PlateRadius: cfg.PlateRadius}
	case AssignGenetic:
		gc := DefaultGeneticConfig()
		gc.Seed = cfg.Seed
		return GeneticAssigner{Config: gc, PlateRadius: cfg.PlateRadius}
	default:
		return GreedyAssigner{}
	}
}

// --- IdentityAssigner ---

// IdentityAssigner gives piece i to request i. Baseline only.
type IdentityAssigner struct{}

func (IdentityAssigner) Name() string { return AssignIdentity }

func (IdentityAssigner) Assign(pieces []model.Piece, requests []float64, _ float64) model.Assignment {
	a := model.NewAssignment(len(requests))
	for i := range a {
		if i < len(pieces) {
			a[i] = i
		}
	}
	return a
}

// --- SortedAssigner ---

// SortedAssigner matches pieces and requests rank for rank by size: the k-th
// smallest request gets the k-th smallest piece. Surplus pieces at the large
// end stay unused and surplus requests at the large end stay unassigned.
type SortedAssigner struct{}

func (SortedAssigner) Name() string { return AssignSorted }

func (SortedAssigner) Assign(pieces []model.Piece, requests []float64, _ float64) model.Assignment {
	a := model.NewAssignment(len(requests))
	if len(pieces) == 0 {
		return a
	}

	areas := make([]float64, len(pieces))
	for i, p := range pieces {
		areas[i] = p.Area()
	}

	pieceIdx := indexRange(len(pieces))
	sort.SliceStable(pieceIdx, func(i, j int) bool {
		return areas[pieceIdx[i]] < areas[pieceIdx[j]]
	})

	reqIdx := indexRange(len(requests))
	sort.SliceStable(reqIdx, func(i, j int) bool {
		return requests[reqIdx[i]] < requests[reqIdx[j]]
	})

	for rank := 0; rank < len(reqIdx) && rank < len(pieceIdx); rank++ {
		a[reqIdx[rank]] = pieceIdx[rank]
	}
	return a
}

// --- GreedyAssigner ---

// GreedyAssigner processes requests in input order and gives each the unused
// piece whose area is closest to it. There is no backtracking.
type GreedyAssigner struct{}

func (GreedyAssigner) Name() string { return AssignGreedy }

func (GreedyAssigner) Assign(pieces []model.Piece, requests []float64, _ float64) model.Assignment {
	a := model.NewAssignment(len(requests))
	used := make([]bool, len(pieces))

	areas := make([]float64, len(pieces))
	for i, p := range pieces {
		areas[i] = p.Area()
	}

	for i, req := range requests {
		best := model.Unassigned
		bestDiff := math.Inf(1)
		for j := range pieces {
			if used[j] {
				continue
			}
			if diff := math.Abs(areas[j] - req); diff < bestDiff {
				best = j
				bestDiff = diff
			}
		}
		if best != model.Unassigned {
			used[best] = true
			a[i] = best
		}
	}
	return a
}

func indexRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func radiusOrDefault(r float64) float64 {
	if r <= 0 {
		return model.DefaultPlateRadius
	}
	return r
}
