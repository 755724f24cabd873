// Package termination implements the solver's stop predicates:
// MaxGeneration, MaxTime, and MinVariation, composed by Composite as a
// disjunction — the run stops the first generation any one predicate
// reports true. Composite.Check raises a shared pkg/quota.Quota
// so every island in a Branches run observes the same stop decision on its
// next generation boundary.
package termination
