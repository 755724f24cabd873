package model

import "fmt"

// JobType identifies the marker carried in a Job's TOUR-level JOB_TYPE
// dimension. Break, reload, dispatch, and recharge jobs segment a route into
// multi-trip intervals (pkg/constraint's multi-trip module); pickup,
// delivery, and service jobs are ordinary demand-carrying stops.
type JobType int

const (
	JobService JobType = iota
	JobPickup
	JobDelivery
	JobBreak
	JobReload
	JobDispatch
	JobRecharge
)

// String returns the string representation of a JobType.
func (t JobType) String() string {
	switch t {
	case JobService:
		return "Service"
	case JobPickup:
		return "Pickup"
	case JobDelivery:
		return "Delivery"
	case JobBreak:
		return "Break"
	case JobReload:
		return "Reload"
	case JobDispatch:
		return "Dispatch"
	case JobRecharge:
		return "Recharge"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// IsMultiTripMarker reports whether this job type segments a tour into a new
// multi-trip interval when visited.
func (t JobType) IsMultiTripMarker() bool {
	switch t {
	case JobReload, JobDispatch, JobRecharge:
		return true
	default:
		return false
	}
}

// TimeWindow is a closed interval, measured in seconds since the problem's
// epoch, during which a Place may be visited.
type TimeWindow struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Contains reports whether t falls within the window, inclusive of both
// endpoints.
func (w TimeWindow) Contains(t int64) bool {
	return t >= w.Start && t <= w.End
}

// Validate checks that the window is well formed.
func (w TimeWindow) Validate() error {
	if w.Start > w.End {
		return fmt.Errorf("time window: start (%d) must be <= end (%d)", w.Start, w.End)
	}
	return nil
}

// Place is a single visitable location within a Job: a location ID resolved
// through the problem's transport oracle, a service duration, and the time
// windows during which it may be served.
type Place struct {
	LocationID  string       `json:"locationId"`
	Duration    int64        `json:"duration"`
	TimeWindows []TimeWindow `json:"timeWindows,omitempty"`
}

// Validate checks that the place's own data is well formed. Location
// existence is checked by the transport oracle, not here, mirroring
// room.go's split between self-validation and graph-level reference
// validation.
func (p *Place) Validate() error {
	if p.LocationID == "" {
		return fmt.Errorf("place: location ID cannot be empty")
	}
	if p.Duration < 0 {
		return fmt.Errorf("place %s: duration must be >= 0, got %d", p.LocationID, p.Duration)
	}
	for i, w := range p.TimeWindows {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("place %s: time window %d: %w", p.LocationID, i, err)
		}
	}
	return nil
}

// Demand splits a job's load requirement into the three components a
// capacity check needs to tell apart: Delivery is carried from the route's
// (or interval's) start and dropped off here, so it must have fit at every
// earlier activity too; Pickup is loaded here and carried onward, so it
// must fit at every later activity too; Dynamic is a same-activity
// pickup-or-delivery whose direction isn't fixed until match time (e.g. a
// same-stop swap), checked like a pickup but never fatal to the whole
// route, since a later reload interval may still admit it.
type Demand struct {
	Delivery []int64 `json:"delivery,omitempty"`
	Pickup   []int64 `json:"pickup,omitempty"`
	Dynamic  []int64 `json:"dynamic,omitempty"`
}

// Single is a job with exactly one place to visit and a demand consumed
// or produced at that place.
type Single struct {
	ID         string     `json:"id"`
	Type       JobType    `json:"type"`
	Place      Place      `json:"place"`
	Demand     Demand     `json:"demand,omitempty"`
	Skills     []string   `json:"skills,omitempty"`
	Value      float64    `json:"value,omitempty"`
	Dimensions Dimensions `json:"-"`
}

// Validate checks the Single's own fields.
func (s *Single) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("single job: ID cannot be empty")
	}
	if err := s.Place.Validate(); err != nil {
		return fmt.Errorf("single job %s: %w", s.ID, err)
	}
	if s.Value < 0 {
		return fmt.Errorf("single job %s: value must be >= 0, got %f", s.ID, s.Value)
	}
	return nil
}

// Multi is a job composed of an ordered sequence of Singles that must be
// served by the same actor, in order, though not necessarily consecutively
// A pickup-then-delivery pair is the
// canonical example.
type Multi struct {
	ID     string    `json:"id"`
	Jobs   []*Single `json:"jobs"`
	Value  float64   `json:"value,omitempty"`
	Skills []string  `json:"skills,omitempty"`
}

// Validate checks the Multi and each of its constituent Singles.
func (m *Multi) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("multi job: ID cannot be empty")
	}
	if len(m.Jobs) == 0 {
		return fmt.Errorf("multi job %s: must contain at least one single", m.ID)
	}
	for i, s := range m.Jobs {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("multi job %s: single %d: %w", m.ID, i, err)
		}
	}
	return nil
}

// Job is the union of Single and Multi; exactly one of the two fields is
// non-nil.
type Job struct {
	Single *Single `json:"single,omitempty"`
	Multi  *Multi  `json:"multi,omitempty"`
}

// ID returns the underlying Single or Multi's ID.
func (j *Job) ID() string {
	if j.Single != nil {
		return j.Single.ID
	}
	if j.Multi != nil {
		return j.Multi.ID
	}
	return ""
}

// Validate checks that exactly one variant is set and that it validates.
func (j *Job) Validate() error {
	if j.Single == nil && j.Multi == nil {
		return fmt.Errorf("job: neither single nor multi is set")
	}
	if j.Single != nil && j.Multi != nil {
		return fmt.Errorf("job: both single and multi are set, exactly one is allowed")
	}
	if j.Single != nil {
		return j.Single.Validate()
	}
	return j.Multi.Validate()
}

// Places returns the ordered list of places this job visits.
func (j *Job) Places() []Place {
	if j.Single != nil {
		return []Place{j.Single.Place}
	}
	places := make([]Place, 0, len(j.Multi.Jobs))
	for _, s := range j.Multi.Jobs {
		places = append(places, s.Place)
	}
	return places
}

// Skills returns the skill requirement carried by whichever variant is set.
func (j *Job) Skills() []string {
	if j.Single != nil {
		return j.Single.Skills
	}
	return j.Multi.Skills
}

// PieceCount returns the number of places this job visits: 1 for a Single,
// len(Multi.Jobs) for a Multi.
func (j *Job) PieceCount() int {
	if j.Single != nil {
		return 1
	}
	if j.Multi != nil {
		return len(j.Multi.Jobs)
	}
	return 0
}

// DemandAt returns the demand of the piece at placeIdx: the Single's own
// demand at index 0, or the Multi piece's demand at placeIdx.
func (j *Job) DemandAt(placeIdx int) Demand {
	if j.Single != nil {
		return j.Single.Demand
	}
	if j.Multi != nil && placeIdx >= 0 && placeIdx < len(j.Multi.Jobs) {
		return j.Multi.Jobs[placeIdx].Demand
	}
	return Demand{}
}

// TypeAt returns the job-type marker of the piece at placeIdx.
func (j *Job) TypeAt(placeIdx int) JobType {
	if j.Single != nil {
		return j.Single.Type
	}
	if j.Multi != nil && placeIdx >= 0 && placeIdx < len(j.Multi.Jobs) {
		return j.Multi.Jobs[placeIdx].Type
	}
	return JobService
}
