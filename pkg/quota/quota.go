// Package quota implements the solver's cooperative-cancellation signal: a
// single flag shared across every goroutine in a run
// (Straight strategy's single loop, or every island in the Branches
// strategy) that is only ever polled at safe suspension points — channel
// send/receive and the top of a generation loop — never preempted
// mid-evaluation.
//
// Grounded on dungeon.DefaultGenerator.Generate's repeated
//
//	select {
//	case <-ctx.Done():
//	    return nil, ctx.Err()
//	default:
//	}
//
// idiom between pipeline stages, generalized from a single context.Context
// check into a reusable type so both the context's own cancellation and an
// internally-raised condition (MaxTime/MaxGeneration/MinVariation
// termination, see pkg/termination) can set the same flag.
package quota

import (
	"context"
	"sync/atomic"
)

// Quota is a shared, cooperative cancellation flag. Reached reports true
// once either the wrapped context is done or Raise has been called; callers
// must poll it between units of work, never mid-unit.
type Quota struct {
	ctx    context.Context
	raised atomic.Bool
}

// New returns a Quota bound to ctx. A nil ctx is treated as
// context.Background (never done on its own).
func New(ctx context.Context) *Quota {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Quota{ctx: ctx}
}

// Raise marks the quota reached. Idempotent; safe to call from any
// goroutine, any number of times, including concurrently with Reached.
func (q *Quota) Raise() {
	q.raised.Store(true)
}

// Reached reports whether the quota has been exceeded, either because the
// bound context is done or because Raise was called.
func (q *Quota) Reached() bool {
	if q.raised.Load() {
		return true
	}
	select {
	case <-q.ctx.Done():
		return true
	default:
		return false
	}
}

// Err returns the bound context's error once Reached is true and the
// context itself is the reason (nil if the quota was raised internally with
// no context cancellation, or if the quota has not been reached).
func (q *Quota) Err() error {
	select {
	case <-q.ctx.Done():
		return q.ctx.Err()
	default:
		return nil
	}
}
