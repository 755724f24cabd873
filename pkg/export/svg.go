package export

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/vrpcore/pkg/state"
)

// SVGOptions configures SVG debug rendering of a solution's route map.
type SVGOptions struct {
	Width      int    // Canvas width in pixels
	Height     int    // Canvas height in pixels
	ShowLabels bool   // Show actor ID labels at route midpoint
	ShowStops  bool   // Show a marker circle at each stop
	StrokeWidth int   // Width of route polylines (default: 2)
	Margin     int    // Canvas margin in pixels (default: 40)
	Title      string // Optional title for the visualization
}

// DefaultSVGOptions returns sensible default SVG export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       1200,
		Height:      900,
		ShowLabels:  true,
		ShowStops:   true,
		StrokeWidth: 2,
		Margin:      40,
		Title:       "Solution Routes",
	}
}

// routeColors cycles through a fixed palette so actors are visually
// distinguishable without needing a caller-supplied color assignment.
var routeColors = []string{
	"#48bb78", "#4299e1", "#f56565", "#ed8936", "#9f7aea",
	"#ecc94b", "#38b2ac", "#ed64a6", "#a0aec0", "#667eea",
}

// ExportSVG renders sol's route map (built via BuildRouteMap) as a debug
// SVG: one colored polyline per actor, with optional stop markers and
// labels. Grounded on export.ExportSVG's dungeon-graph rendering shape
// (background rect, sorted-ID iteration for determinism, header/title),
// narrowed from a force-directed room layout to a caller-supplied
// coordinate set since a VRP solution has no graph topology to lay out —
// only real-world coordinates the caller already knows.
func ExportSVG(routeMap *RouteMap, opts SVGOptions) ([]byte, error) {
	if routeMap == nil {
		return nil, fmt.Errorf("route map cannot be nil")
	}
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = 2
	}
	if opts.Margin <= 0 {
		opts.Margin = 40
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	headerY := 25
	if opts.Title != "" {
		canvas.Text(opts.Width/2, headerY, opts.Title,
			"text-anchor:middle;font-size:20px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
		headerY += 20
	}
	canvas.Text(opts.Width/2, headerY, fmt.Sprintf("Routes: %d", len(routeMap.Paths)),
		"text-anchor:middle;font-size:12px;fill:#a0aec0;font-family:monospace")

	actorIDs := make([]string, 0, len(routeMap.Paths))
	for id := range routeMap.Paths {
		actorIDs = append(actorIDs, id)
	}
	sort.Strings(actorIDs)

	for i, id := range actorIDs {
		path := routeMap.Paths[id]
		color := routeColors[i%len(routeColors)]
		drawRoutePath(canvas, path, color, routeMap.Bounds, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile renders sol's route map and writes it to filepath.
func SaveSVGToFile(routeMap *RouteMap, filepath string, opts SVGOptions) error {
	data, err := ExportSVG(routeMap, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// ExportSolutionSVG is a convenience wrapper combining BuildRouteMap and
// ExportSVG for callers that hold a SolutionContext and a coordinate set
// rather than a pre-built RouteMap.
func ExportSolutionSVG(sol *state.SolutionContext, coords map[string][2]float64, opts SVGOptions) ([]byte, error) {
	routeMap, err := BuildRouteMap(sol, coords)
	if err != nil {
		return nil, err
	}
	return ExportSVG(routeMap, opts)
}

func drawRoutePath(canvas *svg.SVG, path *RoutePath, color string, bounds Bounds, opts SVGOptions) {
	if len(path.Points) == 0 {
		return
	}
	drawable := canvasRect{
		x0: float64(opts.Margin),
		y0: float64(opts.Margin) + 60,
		x1: float64(opts.Width - opts.Margin),
		y1: float64(opts.Height - opts.Margin),
	}

	xs := make([]int, len(path.Points))
	ys := make([]int, len(path.Points))
	for i, pt := range path.Points {
		sx, sy := project(pt, bounds, drawable)
		xs[i] = int(sx)
		ys[i] = int(sy)
	}

	for i := 0; i < len(xs)-1; i++ {
		canvas.Line(xs[i], ys[i], xs[i+1], ys[i+1],
			fmt.Sprintf("stroke:%s;stroke-width:%d;opacity:0.85", color, opts.StrokeWidth))
	}

	if opts.ShowStops {
		for i := range xs {
			canvas.Circle(xs[i], ys[i], 4, fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:1", color))
		}
	}

	if opts.ShowLabels {
		mid := len(xs) / 2
		canvas.Text(xs[mid], ys[mid]-8, path.ActorID,
			fmt.Sprintf("text-anchor:middle;font-size:11px;font-family:monospace;fill:%s", color))
	}
}

// canvasRect is the drawable sub-rectangle of the canvas, inset by margin
// and header space, that solution coordinates are projected into.
type canvasRect struct {
	x0, y0, x1, y1 float64
}

// project maps a coordinate-space point into canvas pixel space, scaling
// and flipping Y so higher solution-space Y renders lower on screen (SVG's
// Y axis grows downward, most coordinate systems' Y axis grows upward).
func project(pt Point, bounds Bounds, rect canvasRect) (float64, float64) {
	w := bounds.Width()
	h := bounds.Height()
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	nx := (pt.X - bounds.MinX) / w
	ny := (pt.Y - bounds.MinY) / h
	sx := rect.x0 + nx*(rect.x1-rect.x0)
	sy := rect.y1 - ny*(rect.y1-rect.y0)
	return sx, sy
}
