// Package model defines the static input data for the VRP solver: jobs,
// actors, the problem container, routes/tours, and the bipartite
// job/actor compatibility graph used to prune insertion search. Nothing in
// this package depends on solver state (pkg/state) or constraint
// evaluation (pkg/constraint); it is the shared vocabulary every other
// package imports.
package model
