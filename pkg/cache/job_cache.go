package cache

import "github.com/dshills/vrpcore/pkg/constraint"

// JobCache is unbounded, per-candidate-job scratch storage: it holds
// every insertion result computed while searching for the best place to
// insert one specific job, since one job's candidate results have no
// bearing on the next job's. The recreate operators in pkg/insertion
// allocate one JobCache and call Reset each time they move on to a new
// job.
type JobCache struct {
	results map[InsertionKey]constraint.Result
}

// NewJobCache returns an empty job cache.
func NewJobCache() *JobCache {
	return &JobCache{results: make(map[InsertionKey]constraint.Result)}
}

// Get returns the cached result for key, if present.
func (c *JobCache) Get(key InsertionKey) (constraint.Result, bool) {
	r, ok := c.results[key]
	return r, ok
}

// Put stores result under key.
func (c *JobCache) Put(key InsertionKey, result constraint.Result) {
	c.results[key] = result
}

// Len returns the number of entries currently cached.
func (c *JobCache) Len() int {
	return len(c.results)
}

// Reset clears every cached entry, reused when the search moves on to
// evaluating the next job rather than allocating a fresh JobCache each
// time.
func (c *JobCache) Reset() {
	for k := range c.results {
		delete(c.results, k)
	}
}
