package cache

import "fmt"

// InsertionKey identifies one candidate placement: a piece (PlaceIdx) of a
// job inserted at a given activity index into a given actor's route. Both
// cache levels key on all four fields since an insertion result depends on
// each of them — the same job at a different index, a different piece of
// the same Multi job, or the same index on a different actor's route, is a
// different question with a different answer.
type InsertionKey struct {
	ActorID  string
	JobID    string
	Index    int
	PlaceIdx int
}

// String renders the key for log lines.
func (k InsertionKey) String() string {
	return fmt.Sprintf("%s/%s#%d@%d", k.ActorID, k.JobID, k.PlaceIdx, k.Index)
}
