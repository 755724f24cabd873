package termination

import "github.com/dshills/vrpcore/pkg/quota"

// Composite ORs a set of predicates together: the run stops the first
// generation any one of them reports true. Predicates that also implement
// observer are fed every generation's Statistics before being polled, so
// MinVariation's window stays current even though ShouldTerminate alone is
// stateless from Composite's point of view.
type Composite struct {
	predicates []Predicate
	quota      *quota.Quota
}

// observer is implemented by predicates (MinVariation) that need to see
// every generation's statistics, not just the one that might end the run.
type observer interface {
	Observe(stats Statistics)
}

// NewComposite returns a Composite evaluating predicates in order and
// raising q the first generation any one of them stops the run. q may be
// nil; Check still returns the correct bool but nothing is raised.
func NewComposite(q *quota.Quota, predicates ...Predicate) *Composite {
	return &Composite{predicates: predicates, quota: q}
}

// Add appends another predicate to the composite.
func (c *Composite) Add(p Predicate) {
	c.predicates = append(c.predicates, p)
}

// Check records stats against every observer predicate, then reports
// whether any predicate now says to stop. If so, and the Composite was
// built with a non-nil quota, the quota is raised so every other goroutine
// watching it observes the same decision at its next safe point.
func (c *Composite) Check(stats Statistics) (bool, string) {
	for _, p := range c.predicates {
		if o, ok := p.(observer); ok {
			o.Observe(stats)
		}
	}
	for _, p := range c.predicates {
		if p.ShouldTerminate(stats) {
			if c.quota != nil {
				c.quota.Raise()
			}
			return true, p.Name()
		}
	}
	return false, ""
}
