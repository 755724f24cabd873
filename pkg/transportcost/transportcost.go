// Package transportcost implements model.TransportOracle: distance and
// duration lookups between location IDs. The matrix implementation is
// grounded on graph.Graph's Adjacency-list-as-weighted-edge idiom
// (connector.go's Cost field is a pathfinding weight exactly like a
// transport matrix cell) generalized from a sparse per-node edge list to a
// dense location-by-location matrix, since a VRP transport oracle is
// expected to answer a cost query between any two locations, not just
// adjacent ones.
package transportcost

import (
	"fmt"
	"math"
)

// Matrix is an in-memory, fully-dense distance/duration oracle keyed by
// location ID. It is the direct analog of graph.Graph.GetPath, except a
// transport matrix already holds the precomputed answer instead of running
// BFS per query — matrices are the common case for VRP problem instances,
// where geocoding/routing happens upstream of the solver.
type Matrix struct {
	index     map[string]int
	distances [][]float64
	durations [][]int64
}

// NewMatrix returns a matrix oracle over the given location IDs (in the
// order their rows/columns appear in distances and durations).
func NewMatrix(locationIDs []string, distances [][]float64, durations [][]int64) (*Matrix, error) {
	n := len(locationIDs)
	if len(distances) != n || len(durations) != n {
		return nil, fmt.Errorf("transportcost: matrix dimensions must match location count %d, got %d distance rows and %d duration rows", n, len(distances), len(durations))
	}
	for i := range distances {
		if len(distances[i]) != n {
			return nil, fmt.Errorf("transportcost: distance row %d has %d columns, want %d", i, len(distances[i]), n)
		}
		if len(durations[i]) != n {
			return nil, fmt.Errorf("transportcost: duration row %d has %d columns, want %d", i, len(durations[i]), n)
		}
	}
	index := make(map[string]int, n)
	for i, id := range locationIDs {
		if _, exists := index[id]; exists {
			return nil, fmt.Errorf("transportcost: duplicate location ID %s", id)
		}
		index[id] = i
	}
	return &Matrix{index: index, distances: distances, durations: durations}, nil
}

// Distance returns the travel distance between from and to.
func (m *Matrix) Distance(from, to string) (float64, error) {
	i, j, err := m.resolve(from, to)
	if err != nil {
		return 0, err
	}
	return m.distances[i][j], nil
}

// Duration returns the travel duration, in seconds, between from and to.
func (m *Matrix) Duration(from, to string) (int64, error) {
	i, j, err := m.resolve(from, to)
	if err != nil {
		return 0, err
	}
	return m.durations[i][j], nil
}

func (m *Matrix) resolve(from, to string) (int, int, error) {
	i, ok := m.index[from]
	if !ok {
		return 0, 0, fmt.Errorf("transportcost: unknown location %s", from)
	}
	j, ok := m.index[to]
	if !ok {
		return 0, 0, fmt.Errorf("transportcost: unknown location %s", to)
	}
	return i, j, nil
}

// Euclidean is a coordinate-based oracle useful for tests and examples
// where a full matrix would be overkill. Duration is derived from distance
// by a constant speed, the same way a scalar cost can be derived from
// a single Connector.Cost field rather than a full cost model.
type Euclidean struct {
	coords map[string][2]float64
	speed  float64 // distance units per second
}

// NewEuclidean returns a coordinate oracle. speed must be > 0.
func NewEuclidean(coords map[string][2]float64, speed float64) (*Euclidean, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("transportcost: speed must be > 0, got %f", speed)
	}
	return &Euclidean{coords: coords, speed: speed}, nil
}

// Distance returns the straight-line distance between from and to.
func (e *Euclidean) Distance(from, to string) (float64, error) {
	a, ok := e.coords[from]
	if !ok {
		return 0, fmt.Errorf("transportcost: unknown location %s", from)
	}
	b, ok := e.coords[to]
	if !ok {
		return 0, fmt.Errorf("transportcost: unknown location %s", to)
	}
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy), nil
}

// Duration returns distance / speed, rounded down to the nearest second.
func (e *Euclidean) Duration(from, to string) (int64, error) {
	d, err := e.Distance(from, to)
	if err != nil {
		return 0, err
	}
	return int64(d / e.speed), nil
}
