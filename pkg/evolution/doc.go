// Package evolution runs the population-based evolutionary search: a
// generation loop draws parents from a population, mutates them with a
// registered insertion.Operator, scores the offspring, and folds survivors
// back into the population until a termination composite fires. Two
// strategies share this contract: Straight runs one population on one
// goroutine; Branches runs several populations ("islands") in parallel,
// periodically migrating their best individuals between neighbors.
package evolution
