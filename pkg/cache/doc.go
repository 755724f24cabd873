// Package cache implements the two-level insertion cache the evolution
// strategies consult while searching for where to place an unassigned job:
// SolutionCache, a bounded LRU shared across an entire generation's worth of
// insertion search, and JobCache, an unbounded per-candidate scratch map
// reset before evaluating each job. Both wrap constraint.Pipeline results
// keyed by (actor, job, index) so repeated insertion-cost queries against
// an unchanged route never re-run the constraint pipeline.
package cache
