package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/piwi3910/CakeCut/internal/plate"
)

// UnassignedPenalty is charged for a request that gets no piece or a piece
// that does not fit on a plate.
const UnassignedPenalty = 100.0

// Deviation returns the relative area deviation of a piece from a request in percent.
func Deviation(area, request float64) (float64, error) {
	if request == 0 {
		return 0, fmt.Errorf("deviation of area %.2f from a zero request: %w", area, model.ErrDivisionByZero)
	}
	return 100 * math.Abs(area-request) / request, nil
}

// Scorer evaluates assignments of one set of pieces to one set of requests.
// Piece areas and plate feasibility are computed once.
type Scorer struct {
	requests  []float64
	tolerance float64
	areas     []float64
	fits      []bool
}

// NewScorer precomputes piece areas and feasibility. A non-positive plateRadius
// selects model.DefaultPlateRadius.
func NewScorer(pieces []model.Piece, requests []float64, tolerance, plateRadius float64) *Scorer {
	if plateRadius <= 0 {
		plateRadius = model.DefaultPlateRadius
	}
	areas := make([]float64, len(pieces))
	for i, p := range pieces {
		areas[i] = p.Area()
	}
	return &Scorer{
		requests:  requests,
		tolerance: tolerance,
		areas:     areas,
		fits:      plate.FeasibleSet(pieces, plateRadius),
	}
}

// Cost returns the penalty of giving piece to request, independent of any
// other assignment. piece may be model.Unassigned.
func (s *Scorer) Cost(request, piece int) float64 {
	if piece < 0 || piece >= len(s.areas) || !s.fits[piece] {
		return UnassignedPenalty
	}
	dev, err := Deviation(s.areas[piece], s.requests[request])
	if err != nil {
		return UnassignedPenalty
	}
	if dev > s.tolerance {
		return dev
	}
	return 0
}

// Total returns the summed penalty of an assignment.
func (s *Scorer) Total(a model.Assignment) float64 {
	var total float64
	for i := range s.requests {
		piece := model.Unassigned
		if i < len(a) {
			piece = a[i]
		}
		total += s.Cost(i, piece)
	}
	return total
}

// Feasible reports whether piece fits on a plate.
func (s *Scorer) Feasible(piece int) bool {
	return piece >= 0 && piece < len(s.fits) && s.fits[piece]
}

// Area returns the cached area of piece.
func (s *Scorer) Area(piece int) float64 {
	return s.areas[piece]
}

// Penalty scores an assignment with the default plate radius.
func Penalty(pieces []model.Piece, requests []float64, a model.Assignment, tolerance float64) float64 {
	return NewScorer(pieces, requests, tolerance, model.DefaultPlateRadius).Total(a)
}
