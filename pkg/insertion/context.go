package insertion

import "github.com/dshills/vrpcore/pkg/model"

// ActivityContext carries the surroundings of a candidate insertion index:
// the activity immediately before it, the activity that would occupy the
// index once inserted, and the activity that currently follows (nil at the
// end of a tour). Constraint modules read this instead of re-deriving
// neighbors from a raw index every time, mirroring how
// validation.Agent.FindPath passed a room/target pair down its recursion
// rather than re-walking the graph at each step.
type ActivityContext struct {
	Prev   *model.Activity
	Target *model.Activity
	Next   *model.Activity
	Index  int
}

// NewActivityContext builds the context for inserting target at idx within
// activities, the tour's activity slice before the insertion happens.
func NewActivityContext(activities []*model.Activity, idx int, target *model.Activity) ActivityContext {
	ctx := ActivityContext{Target: target, Index: idx}
	if idx > 0 {
		ctx.Prev = activities[idx-1]
	}
	if idx < len(activities) {
		ctx.Next = activities[idx]
	}
	return ctx
}
