package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	set "github.com/hashicorp/go-set/v3"

	"github.com/dshills/vrpcore/pkg/constraint"
)

// DefaultSolutionCacheSize bounds how many insertion results each of a
// SolutionCache's four sub-maps holds at once. Sized generously relative to
// a typical generation's search breadth (actors × candidate jobs ×
// candidate indices) so a full generation's worth of repeat lookups mostly
// hit, while still bounding memory for large problem instances.
const DefaultSolutionCacheSize = 65536

// SolutionCache is a bounded, shared memoization layer for the four
// questions the insertion pipeline asks repeatedly while searching:
// hard-route, soft-route, hard-activity, and soft-activity feasibility.
// Grounded on content.DefaultContentPass's single-pass,
// reused-across-the-whole-generation-step scope (ContentPass.Place is
// called once per dungeon and its result read many times downstream),
// generalized to four independently-keyed bounded caches since each
// question is memoized at its own granularity — a route-level answer
// doesn't invalidate the same way an activity-level one does, so sharing
// one map across all four would conflate unrelated keys under collision.
type SolutionCache struct {
	size         int
	hardRoute    *lru.Cache[InsertionKey, constraint.Result]
	softRoute    *lru.Cache[InsertionKey, constraint.Result]
	hardActivity *lru.Cache[InsertionKey, constraint.Result]
	softActivity *lru.Cache[InsertionKey, constraint.Result]
}

// NewSolutionCache returns a solution cache whose four sub-maps are each
// bounded to size entries. A size <= 0 is replaced by
// DefaultSolutionCacheSize.
func NewSolutionCache(size int) (*SolutionCache, error) {
	if size <= 0 {
		size = DefaultSolutionCacheSize
	}
	c := &SolutionCache{size: size}
	var err error
	if c.hardRoute, err = lru.New[InsertionKey, constraint.Result](size); err != nil {
		return nil, err
	}
	if c.softRoute, err = lru.New[InsertionKey, constraint.Result](size); err != nil {
		return nil, err
	}
	if c.hardActivity, err = lru.New[InsertionKey, constraint.Result](size); err != nil {
		return nil, err
	}
	if c.softActivity, err = lru.New[InsertionKey, constraint.Result](size); err != nil {
		return nil, err
	}
	return c, nil
}

// GetHardRoute, PutHardRoute, GetSoftRoute, PutSoftRoute, GetHardActivity,
// PutHardActivity, GetSoftActivity, and PutSoftActivity read and write the
// four independently-keyed sub-maps named in §4.4.

func (c *SolutionCache) GetHardRoute(key InsertionKey) (constraint.Result, bool) {
	return c.hardRoute.Get(key)
}

func (c *SolutionCache) PutHardRoute(key InsertionKey, result constraint.Result) {
	c.hardRoute.Add(key, result)
}

func (c *SolutionCache) GetSoftRoute(key InsertionKey) (constraint.Result, bool) {
	return c.softRoute.Get(key)
}

func (c *SolutionCache) PutSoftRoute(key InsertionKey, result constraint.Result) {
	c.softRoute.Add(key, result)
}

func (c *SolutionCache) GetHardActivity(key InsertionKey) (constraint.Result, bool) {
	return c.hardActivity.Get(key)
}

func (c *SolutionCache) PutHardActivity(key InsertionKey, result constraint.Result) {
	c.hardActivity.Add(key, result)
}

func (c *SolutionCache) GetSoftActivity(key InsertionKey) (constraint.Result, bool) {
	return c.softActivity.Get(key)
}

func (c *SolutionCache) PutSoftActivity(key InsertionKey, result constraint.Result) {
	c.softActivity.Add(key, result)
}

// InvalidateActor drops every cached entry for actorID from all four
// sub-maps. Called whenever a route's activities change (an insertion or
// removal), since every downstream index's cached result is now stale —
// recomputing which entries are still valid would cost more than just
// evicting all of them and letting the next lookup recompute on demand.
func (c *SolutionCache) InvalidateActor(actorID string) {
	for _, m := range c.maps() {
		for _, key := range m.Keys() {
			if key.ActorID == actorID {
				m.Remove(key)
			}
		}
	}
}

// Len returns the number of entries currently cached across all four
// sub-maps.
func (c *SolutionCache) Len() int {
	total := 0
	for _, m := range c.maps() {
		total += m.Len()
	}
	return total
}

// Empty reports whether every sub-map is empty, the shape CACHE-2 checks
// after InvalidateActor: "no entry for actor exists in any of the four
// SolutionCache sub-maps" specialized to the case where actor was the only
// actor ever cached.
func (c *SolutionCache) Empty() bool {
	return c.Len() == 0
}

// Purge empties all four sub-maps, used at the start of a fresh generation
// once every route in the population has potentially changed.
func (c *SolutionCache) Purge() {
	for _, m := range c.maps() {
		m.Purge()
	}
}

func (c *SolutionCache) maps() []*lru.Cache[InsertionKey, constraint.Result] {
	return []*lru.Cache[InsertionKey, constraint.Result]{c.hardRoute, c.softRoute, c.hardActivity, c.softActivity}
}

// CloneOnlyWith returns a fresh SolutionCache of the same size, seeded only
// with entries whose ActorID is a member of actors. Used when forking an
// individual for a parallel evolution branch/island: each island gets its
// own cache so concurrent mutation of one island's routes never
// invalidates another island's unrelated entries, while entries for actors
// the island actually owns carry over instead of starting cold.
func (c *SolutionCache) CloneOnlyWith(actors *set.Set[string]) (*SolutionCache, error) {
	out, err := NewSolutionCache(c.size)
	if err != nil {
		return nil, err
	}
	copyInto := func(src, dst *lru.Cache[InsertionKey, constraint.Result]) {
		for _, key := range src.Keys() {
			if actors == nil || actors.Contains(key.ActorID) {
				if result, ok := src.Peek(key); ok {
					dst.Add(key, result)
				}
			}
		}
	}
	copyInto(c.hardRoute, out.hardRoute)
	copyInto(c.softRoute, out.softRoute)
	copyInto(c.hardActivity, out.hardActivity)
	copyInto(c.softActivity, out.softActivity)
	return out, nil
}
