package export

import (
	"fmt"
	"math"

	"github.com/dshills/vrpcore/pkg/state"
)

// Point is a 2D coordinate, the same minimal shape embedding.Point used for
// dungeon corridor polylines, reused here for a route's sequence of
// location coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RoutePath is the polyline a single actor's route traces through
// 2D space: the shift start location first when it has coordinates, then
// one Point per job activity whose location has coordinates, in visit
// order. Grounded on
// embedding.Path, narrowed from a corridor's door-annotated polyline to a
// plain ordered coordinate sequence — a route has no analog of a door
// position, only stops.
type RoutePath struct {
	ActorID string  `json:"actorId"`
	Points  []Point `json:"points"`
}

// Length returns the route's total straight-line distance, summing each
// consecutive pair of points. This is a rendering-layer distance estimate
// only — the solver's actual cost accounting goes through
// model.TransportOracle, not this function.
func (p *RoutePath) Length() float64 {
	if len(p.Points) < 2 {
		return 0
	}
	var length float64
	for i := 0; i < len(p.Points)-1; i++ {
		dx := p.Points[i+1].X - p.Points[i].X
		dy := p.Points[i+1].Y - p.Points[i].Y
		length += math.Sqrt(dx*dx + dy*dy)
	}
	return length
}

// Validate checks that the path has at least one point.
func (p *RoutePath) Validate() error {
	if len(p.Points) == 0 {
		return fmt.Errorf("route path %s: must have at least 1 point", p.ActorID)
	}
	return nil
}

// Bounds is an axis-aligned bounding box in canvas coordinates. Grounded on
// embedding.Rect, kept byte-for-byte in shape since a bounding box is a
// bounding box regardless of what it bounds.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns the width of the bounding box.
func (b *Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the height of the bounding box.
func (b *Bounds) Height() float64 { return b.MaxY - b.MinY }

// RouteMap is the complete spatial picture of a solution: one RoutePath per
// actor with at least one point whose coordinates are known, plus the bounding box containing every
// point across every path. Grounded on embedding.Layout, narrowed from
// rooms+corridors to actors+route-paths.
type RouteMap struct {
	Paths  map[string]*RoutePath `json:"paths"`
	Bounds Bounds                `json:"bounds"`
}

// NewRouteMap returns an empty route map.
func NewRouteMap() *RouteMap {
	return &RouteMap{Paths: make(map[string]*RoutePath)}
}

// AddPath adds a route path to the map.
func (m *RouteMap) AddPath(path *RoutePath) error {
	if path == nil {
		return fmt.Errorf("cannot add nil route path")
	}
	if err := path.Validate(); err != nil {
		return fmt.Errorf("invalid route path: %w", err)
	}
	m.Paths[path.ActorID] = path
	return nil
}

// ComputeBounds recalculates Bounds from every point of every path
// currently in the map.
func (m *RouteMap) ComputeBounds() {
	var initialized bool
	for _, path := range m.Paths {
		for _, pt := range path.Points {
			if !initialized {
				m.Bounds = Bounds{MinX: pt.X, MinY: pt.Y, MaxX: pt.X, MaxY: pt.Y}
				initialized = true
				continue
			}
			m.Bounds.MinX = math.Min(m.Bounds.MinX, pt.X)
			m.Bounds.MinY = math.Min(m.Bounds.MinY, pt.Y)
			m.Bounds.MaxX = math.Max(m.Bounds.MaxX, pt.X)
			m.Bounds.MaxY = math.Max(m.Bounds.MaxY, pt.Y)
		}
	}
	if !initialized {
		m.Bounds = Bounds{}
	}
}

// BuildRouteMap constructs a RouteMap from sol by resolving every activity's
// location ID through coords. An activity whose location has no entry in
// coords is skipped rather than failing the whole map, since debug
// rendering should degrade gracefully when the coordinate set is partial
// (e.g. a matrix-only problem with no associated 2D layout).
func BuildRouteMap(sol *state.SolutionContext, coords map[string][2]float64) (*RouteMap, error) {
	m := NewRouteMap()
	for _, rc := range sol.Routes {
		var points []Point
		if start, ok := coords[rc.Route.Actor.ActiveShift().Start.LocationID]; ok {
			points = append(points, Point{X: start[0], Y: start[1]})
		}
		for _, act := range rc.Route.Tour.Activities {
			if act.Job == nil {
				continue
			}
			places := act.Job.Places()
			if act.PlaceIdx >= len(places) {
				continue
			}
			loc := places[act.PlaceIdx].LocationID
			if xy, ok := coords[loc]; ok {
				points = append(points, Point{X: xy[0], Y: xy[1]})
			}
		}
		if len(points) == 0 {
			continue
		}
		if err := m.AddPath(&RoutePath{ActorID: rc.Route.Actor.ID, Points: points}); err != nil {
			return nil, fmt.Errorf("export: building route map: %w", err)
		}
	}
	m.ComputeBounds()
	return m, nil
}
