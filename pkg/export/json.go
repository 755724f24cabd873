package export

import (
	"encoding/json"
	"os"

	"github.com/dshills/vrpcore/pkg/state"
)

// Debug is the JSON-serializable shape this package dumps a solution as:
// every route's actor ID and ordered stop list, plus the unassigned job
// IDs left over. It exists independently of pkg/format's problem/solution
// schema because this package's job is ad hoc debug dumps, not
// a wire contract other systems parse.
type Debug struct {
	Routes      []DebugRoute `json:"routes"`
	Unassigned  []string     `json:"unassigned,omitempty"`
}

// DebugRoute is one actor's ordered stop list in a Debug dump.
type DebugRoute struct {
	ActorID string   `json:"actorId"`
	JobIDs  []string `json:"jobIds"`
}

// BuildDebug flattens sol into a Debug dump.
func BuildDebug(sol *state.SolutionContext) *Debug {
	dbg := &Debug{Routes: make([]DebugRoute, 0, len(sol.Routes))}
	for _, rc := range sol.Routes {
		jobIDs := make([]string, 0, len(rc.Route.Tour.Activities))
		for _, act := range rc.Route.Tour.Activities {
			if act.Job != nil {
				jobIDs = append(jobIDs, act.Job.ID())
			}
		}
		if len(jobIDs) == 0 {
			continue
		}
		dbg.Routes = append(dbg.Routes, DebugRoute{ActorID: rc.Route.Actor.ID, JobIDs: jobIDs})
	}
	dbg.Unassigned = sol.Unassigned.Slice()
	return dbg
}

// ExportJSON serializes dbg to JSON with 2-space indentation.
func ExportJSON(dbg *Debug) ([]byte, error) {
	return json.MarshalIndent(dbg, "", "  ")
}

// ExportJSONCompact serializes dbg to JSON without indentation.
func ExportJSONCompact(dbg *Debug) ([]byte, error) {
	return json.Marshal(dbg)
}

// SaveJSONToFile exports dbg to a JSON file with indentation. The file is
// created with 0644 permissions (readable by all, writable by owner).
func SaveJSONToFile(dbg *Debug, filepath string) error {
	data, err := ExportJSON(dbg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// SaveJSONCompactToFile exports dbg to a compact JSON file. The file is
// created with 0644 permissions (readable by all, writable by owner).
func SaveJSONCompactToFile(dbg *Debug, filepath string) error {
	data, err := ExportJSONCompact(dbg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}
