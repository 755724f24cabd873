// Package state holds the solver's per-route and per-solution working data:
// RouteState (the accumulated per-activity values produced by the capacity
// and multi-trip sweeps), SolutionContext (the full assignment of routes
// plus unassigned/required/ignored/locked job sets), and InsertionContext
// (a SolutionContext plus the scratch state an insertion candidate search
// mutates without touching the solution it was cloned from).
//
// The accumulate-while-walking shape of RouteState is grounded on
// validation.Agent.Move: there, capabilities accumulate room by room along
// an explored path; here, state-key values accumulate activity by activity
// along a route.
package state
