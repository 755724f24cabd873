// Package export provides ad hoc debug dumps of a solved solution: a
// flattened JSON view (json.go) and an SVG route-map rendering (svg.go,
// geometry.go) for visual inspection during development. Neither format is
// the wire contract pkg/format defines for solved output — this
// package exists purely for "what did the solver actually produce" visual
// and textual debugging.
package export
