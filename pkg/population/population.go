package population

import "github.com/dshills/vrpcore/pkg/rng"

// Phase reports which stage of the search a population is in, exposed so
// telemetry and the evolution strategy can adapt behavior (e.g. a wider
// ruin fraction during Exploration).
type Phase int

const (
	// Initial: the population has never reached capacity.
	Initial Phase = iota
	// Exploration: at capacity, but the non-dominated front is still
	// growing relative to the last few generations.
	Exploration
	// Exploitation: at capacity and the non-dominated front has stopped
	// growing; offspring mostly refine existing solutions.
	Exploitation
)

// HeuristicPopulation is a bounded, dominance-ranked set of Individuals.
// Grounded on pkg/cache.SolutionCache's bounded-with-eviction shape
// (an LRU evicts least-recently-used; here capacity evicts
// dominated-furthest), generalized from a single eviction policy keyed on
// recency to one keyed on Pareto rank plus cost distance from the front.
type HeuristicPopulation struct {
	capacity    int
	individuals []*Individual
	frontSizes  []int // front-0 size at the end of each of the last few Add calls
}

// NewHeuristicPopulation returns an empty population bounded to capacity.
// capacity must be > 0.
func NewHeuristicPopulation(capacity int) *HeuristicPopulation {
	return &HeuristicPopulation{capacity: capacity}
}

// Add inserts individual, evicting the dominated-furthest member if this
// would exceed capacity. Returns whether the population's best (rank-0,
// lowest cost) individual changed.
func (p *HeuristicPopulation) Add(individual *Individual) bool {
	return p.AddAll([]*Individual{individual})
}

// AddAll inserts every individual in batch, evicting as needed, and
// returns whether the population's best individual changed as a result of
// the whole batch.
func (p *HeuristicPopulation) AddAll(batch []*Individual) bool {
	bestBefore := p.bestCost()
	p.individuals = append(p.individuals, batch...)
	for len(p.individuals) > p.capacity {
		p.evictDominatedFurthest()
	}
	p.recordFrontSize()
	return p.bestCost() < bestBefore
}

func (p *HeuristicPopulation) bestCost() float64 {
	best := maxFloat
	for _, ind := range p.individuals {
		if ind.Objectives.Cost < best {
			best = ind.Objectives.Cost
		}
	}
	return best
}

const maxFloat = 1.7976931348623157e+308

// evictDominatedFurthest removes the individual in the worst-ranked
// (highest-rank, most dominated) front with the largest Cost — the
// "furthest" member of that front from the non-dominated front's
// objective values.
func (p *HeuristicPopulation) evictDominatedFurthest() {
	ranked := rankFronts(p.individuals)
	worstRank := 0
	for _, r := range ranked {
		if r.Rank > worstRank {
			worstRank = r.Rank
		}
	}
	var victim *Individual
	victimCost := -1.0
	for _, r := range ranked {
		if r.Rank != worstRank {
			continue
		}
		if r.Individual.Objectives.Cost > victimCost {
			victim = r.Individual
			victimCost = r.Individual.Objectives.Cost
		}
	}
	if victim == nil {
		return
	}
	for i, ind := range p.individuals {
		if ind == victim {
			p.individuals = append(p.individuals[:i], p.individuals[i+1:]...)
			break
		}
	}
}

func (p *HeuristicPopulation) recordFrontSize() {
	front0 := 0
	for _, r := range rankFronts(p.individuals) {
		if r.Rank == 0 {
			front0++
		}
	}
	p.frontSizes = append(p.frontSizes, front0)
	if len(p.frontSizes) > 5 {
		p.frontSizes = p.frontSizes[len(p.frontSizes)-5:]
	}
}

// Ranked returns every individual paired with its Pareto front rank, rank
// 0 first.
func (p *HeuristicPopulation) Ranked() []Ranked {
	return rankFronts(p.individuals)
}

// All returns every individual currently held, in no particular order.
func (p *HeuristicPopulation) All() []*Individual {
	return append([]*Individual(nil), p.individuals...)
}

// Size returns the number of individuals currently held.
func (p *HeuristicPopulation) Size() int {
	return len(p.individuals)
}

// Select returns n parents drawn from the population, shuffled by r;
// duplicates occur once n exceeds the population size. Order is this
// policy's business — callers must not
// assume any relationship between selection order and fitness.
func (p *HeuristicPopulation) Select(n int, r *rng.RNG) []*Individual {
	if len(p.individuals) == 0 || n <= 0 {
		return nil
	}
	pool := append([]*Individual(nil), p.individuals...)
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	out := make([]*Individual, n)
	for i := 0; i < n; i++ {
		out[i] = pool[i%len(pool)]
	}
	return out
}

// SelectionPhase reports which stage of the search the population is in:
// Initial while under capacity, Exploration while the non-dominated front
// is still growing across the last few Add calls, Exploitation once it
// has leveled off.
func (p *HeuristicPopulation) SelectionPhase() Phase {
	if len(p.individuals) < p.capacity {
		return Initial
	}
	if len(p.frontSizes) < 2 {
		return Exploration
	}
	last := p.frontSizes[len(p.frontSizes)-1]
	prev := p.frontSizes[len(p.frontSizes)-2]
	if last > prev {
		return Exploration
	}
	return Exploitation
}
