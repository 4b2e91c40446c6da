package engine

import (
	"github.com/piwi3910/CakeCut/internal/model"
)

// ComparisonScenario names an assignment strategy to compare.
type ComparisonScenario struct {
	Name     string
	Assigner Assigner
}

// ComparisonResult holds the assignment and computed statistics for a single
// scenario.
type ComparisonResult struct {
	Scenario        ComparisonScenario
	Assignment      model.Assignment
	Penalty         float64
	AssignedCount   int
	InfeasibleCount int
}

// CompareAssigners runs every scenario on the same pieces and requests and
// returns the results in scenario order. Strategies are pure, so running them
// speculatively has no effect on the game.
func CompareAssigners(scenarios []ComparisonScenario, pieces []model.Piece, requests []float64, tolerance, plateRadius float64) []ComparisonResult {
	scorer := NewScorer(pieces, requests, tolerance, plateRadius)
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		a := scenario.Assigner.Assign(pieces, requests, tolerance)

		infeasible := 0
		for _, j := range a {
			if j != model.Unassigned && !scorer.Feasible(j) {
				infeasible++
			}
		}

		results = append(results, ComparisonResult{
			Scenario:        scenario,
			Assignment:      a,
			Penalty:         scorer.Total(a),
			AssignedCount:   a.AssignedCount(),
			InfeasibleCount: infeasible,
		})
	}

	return results
}

// Cheapest returns the result with the lowest penalty. Ties keep the earlier
// scenario. ok is false when results is empty.
func Cheapest(results []ComparisonResult) (best ComparisonResult, ok bool) {
	for i, r := range results {
		if i == 0 || r.Penalty < best.Penalty {
			best = r
			ok = true
		}
	}
	return best, ok
}

// BuildDefaultScenarios returns the strategies worth comparing for an instance
// with pieceCount pieces. The exact solver is only included while it stays
// within the configured size limit.
func BuildDefaultScenarios(cfg model.PlayerConfig, pieceCount int) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Identity", Assigner: IdentityAssigner{}},
		{Name: "Sorted", Assigner: SortedAssigner{}},
		{Name: "Greedy Best Fit", Assigner: GreedyAssigner{}},
	}

	limit := cfg.ExactMatchLimit
	if limit <= 0 {
		limit = model.DefaultPlayerConfig().ExactMatchLimit
	}
	if pieceCount <= limit {
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Hungarian",
			Assigner: AssignerFor(AssignHungarian, cfg),
		})
	} else {
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Genetic",
			Assigner: AssignerFor(AssignGenetic, cfg),
		})
	}

	return scenarios
}
