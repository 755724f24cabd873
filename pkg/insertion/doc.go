// Package insertion implements the candidate-position search every
// mutation operator drives: given a SolutionContext and a job, find the
// cheapest feasible (actor, index) to place it at, backed by the
// constraint pipeline and the two-level insertion cache. It also supplies
// the ruin-and-recreate operators the evolution strategies use to produce
// offspring, registered under the same Register/Get/List plugin-lookup
// shape pkg/constraint's module registry uses.
package insertion
