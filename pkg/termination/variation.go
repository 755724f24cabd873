package termination

import (
	"math"
	"time"
)

// VariationMode selects how MinVariation windows its observations: Sample
// keeps the last K observations regardless of when they arrived; Period
// keeps every observation recorded within the last K seconds.
type VariationMode int

const (
	// Sample windows by observation count.
	Sample VariationMode = iota
	// Period windows by elapsed time.
	Period
)

type observation struct {
	value float64
	at    time.Time
}

// MinVariation stops the run once the coefficient of variation (standard
// deviation / mean) across its observation window drops below Theta —
// the fitness has stopped improving meaningfully, so further generations
// are unlikely to pay for themselves. IsGlobal selects whether Observe is
// fed the population-wide best fitness or a single route's fitness
// (looked up by Key from Statistics.RouteFitness).
type MinVariation struct {
	Mode     VariationMode
	K        int
	Theta    float64
	IsGlobal bool
	Key      string

	window []observation
}

// NewMinVariation returns a MinVariation predicate. k must be > 0 for
// Sample mode (observation count) or express a duration in seconds for
// Period mode. theta must be >= 0.
func NewMinVariation(mode VariationMode, k int, theta float64, isGlobal bool, key string) *MinVariation {
	return &MinVariation{Mode: mode, K: k, Theta: theta, IsGlobal: isGlobal, Key: key}
}

// Name implements Predicate.
func (p *MinVariation) Name() string { return "MinVariation" }

// Observe records stats' relevant fitness value into the window, evicting
// whatever the configured Mode says is now out of range. Composite calls
// this once per generation, before calling ShouldTerminate, so the window
// always reflects every generation seen so far.
func (p *MinVariation) Observe(stats Statistics) {
	value, ok := p.valueFrom(stats)
	if !ok {
		return
	}
	now := stats.Now
	p.window = append(p.window, observation{value: value, at: now})
	p.evict(now)
}

func (p *MinVariation) valueFrom(stats Statistics) (float64, bool) {
	if p.IsGlobal {
		return stats.BestFitness, true
	}
	v, ok := stats.RouteFitness[p.Key]
	return v, ok
}

func (p *MinVariation) evict(now time.Time) {
	switch p.Mode {
	case Sample:
		if len(p.window) > p.K {
			p.window = p.window[len(p.window)-p.K:]
		}
	case Period:
		cutoff := now.Add(-time.Duration(p.K) * time.Second)
		i := 0
		for i < len(p.window) && p.window[i].at.Before(cutoff) {
			i++
		}
		p.window = p.window[i:]
	}
}

// ShouldTerminate implements Predicate: true once the window holds at
// least 2 observations (in Sample mode, at least K) and their coefficient
// of variation is below Theta.
func (p *MinVariation) ShouldTerminate(stats Statistics) bool {
	if len(p.window) < 2 {
		return false
	}
	if p.Mode == Sample && len(p.window) < p.K {
		return false
	}
	return coeffVariation(p.window) < p.Theta
}

func coeffVariation(window []observation) float64 {
	var sum float64
	for _, o := range window {
		sum += o.value
	}
	mean := sum / float64(len(window))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, o := range window {
		d := o.value - mean
		variance += d * d
	}
	variance /= float64(len(window))
	return math.Sqrt(variance) / mean
}
