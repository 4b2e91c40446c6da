package engine

import (
	"math"

	"github.com/piwi3910/CakeCut/internal/model"
)

// MaxSubsetPieces bounds the piece count the subset DP will enumerate. Larger
// inputs are delegated to the Hungarian solver, which reaches the same optimum.
const MaxSubsetPieces = 16

// SubsetDPAssigner is an exact dynamic program over (requests processed,
// pieces used). It is exponential in the piece count and exists to cross-check
// the matching solver on small instances.
type SubsetDPAssigner struct {
	PlateRadius float64
}

func (SubsetDPAssigner) Name() string { return AssignSubsetDP }

func (s SubsetDPAssigner) Assign(pieces []model.Piece, requests []float64, tolerance float64) model.Assignment {
	if len(pieces) > MaxSubsetPieces {
		return HungarianAssigner(s).Assign(pieces, requests, tolerance)
	}

	a := model.NewAssignment(len(requests))
	if len(requests) == 0 {
		return a
	}

	scorer := NewScorer(pieces, requests, tolerance, radiusOrDefault(s.PlateRadius))
	states := 1 << len(pieces)

	// best[mask] is the minimum penalty of the processed requests using exactly mask.
	best := make([]float64, states)
	for m := range best {
		best[m] = math.Inf(1)
	}
	best[0] = 0

	// choice[i][mask] is the piece request i took to reach mask, or Unassigned.
	choice := make([][]int8, len(requests))

	for i := range requests {
		next := make([]float64, states)
		for m := range next {
			next[m] = math.Inf(1)
		}
		choice[i] = make([]int8, states)

		for mask, cur := range best {
			if math.IsInf(cur, 1) {
				continue
			}
			if c := cur + UnassignedPenalty; c < next[mask] {
				next[mask] = c
				choice[i][mask] = model.Unassigned
			}
			for j := range pieces {
				bit := 1 << j
				if mask&bit != 0 {
					continue
				}
				if c := cur + scorer.Cost(i, j); c < next[mask|bit] {
					next[mask|bit] = c
					choice[i][mask|bit] = int8(j)
				}
			}
		}
		best = next
	}

	bestMask := 0
	for mask, c := range best {
		if c < best[bestMask] {
			bestMask = mask
		}
	}

	mask := bestMask
	for i := len(requests) - 1; i >= 0; i-- {
		j := int(choice[i][mask])
		a[i] = j
		if j != model.Unassigned {
			mask &^= 1 << j
		}
	}
	return a
}
