package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/CakeCut/internal/model"
)

// GeneticConfig holds parameters for the genetic assignment search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 40,
		Generations:    60,
		MutationRate:   0.2,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// chromosome is an ordering of piece indices: request i receives genes[i].
type chromosome struct {
	genes   []int
	penalty float64
}

// geneticSearch evolves piece orderings for one assignment instance.
type geneticSearch struct {
	config   GeneticConfig
	scorer   *Scorer
	requests int
	pieces   int
	rng      *rand.Rand
}

// GeneticAssigner searches piece orderings with a seeded genetic algorithm.
// The population is seeded with the greedy best-fit solution and elites are
// carried over, so the result is never worse than greedy.
type GeneticAssigner struct {
	Config      GeneticConfig
	PlateRadius float64
}

func (GeneticAssigner) Name() string { return AssignGenetic }

func (g GeneticAssigner) Assign(pieces []model.Piece, requests []float64, tolerance float64) model.Assignment {
	if len(pieces) == 0 || len(requests) == 0 {
		return model.NewAssignment(len(requests))
	}

	config := g.Config
	if config.PopulationSize <= 0 {
		config = DefaultGeneticConfig()
	}
	// Scale generations for larger problems
	if len(pieces) > 20 && config.Generations < 120 {
		config.Generations = 120
	}

	ga := &geneticSearch{
		config:   config,
		scorer:   NewScorer(pieces, requests, tolerance, radiusOrDefault(g.PlateRadius)),
		requests: len(requests),
		pieces:   len(pieces),
		rng:      rand.New(rand.NewSource(config.Seed)),
	}
	seed := GreedyAssigner{}.Assign(pieces, requests, tolerance)
	return ga.decode(ga.optimize(seed))
}

// optimize runs the genetic algorithm and returns the best chromosome.
func (g *geneticSearch) optimize(seed model.Assignment) chromosome {
	population := g.initPopulation(seed)
	for i := range population {
		population[i].penalty = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByPenalty(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := max(1, min(g.config.EliteCount, len(population)))
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.penalty = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sortByPenalty(population)
	return population[0]
}

// initPopulation creates random orderings plus one seeded from a known assignment.
func (g *geneticSearch) initPopulation(seed model.Assignment) []chromosome {
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		population[i] = chromosome{genes: g.rng.Perm(g.pieces)}
	}
	population[0] = g.chromosomeFromAssignment(seed)
	return population
}

// chromosomeFromAssignment lays the assigned pieces out in request order and
// appends the unused ones.
func (g *geneticSearch) chromosomeFromAssignment(a model.Assignment) chromosome {
	used := make([]bool, g.pieces)
	genes := make([]int, 0, g.pieces)
	for _, j := range a {
		if j != model.Unassigned && j < g.pieces && !used[j] && len(genes) < g.pieces {
			genes = append(genes, j)
			used[j] = true
		}
	}
	for j := 0; j < g.pieces; j++ {
		if !used[j] {
			genes = append(genes, j)
		}
	}
	return chromosome{genes: genes}
}

// decode turns an ordering into an assignment. Matches worse than leaving the
// request empty are dropped.
func (g *geneticSearch) decode(c chromosome) model.Assignment {
	a := model.NewAssignment(g.requests)
	for i := 0; i < g.requests && i < len(c.genes); i++ {
		if g.scorer.Cost(i, c.genes[i]) <= UnassignedPenalty {
			a[i] = c.genes[i]
		}
	}
	return a
}

func (g *geneticSearch) evaluate(c chromosome) float64 {
	return g.scorer.Total(g.decode(c))
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.penalty < best.penalty {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (g *geneticSearch) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}

	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticSearch) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion mutation: reverse a small segment (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func sortByPenalty(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].penalty < population[j].penalty
	})
}

func copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, penalty: c.penalty}
}
