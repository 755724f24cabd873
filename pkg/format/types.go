package format

import "time"

// ProblemDocument is the wire shape of a solver input: a job plan, a
// fleet, and the transport matrices each vehicle profile resolves
// distances and durations against.
type ProblemDocument struct {
	Plan  PlanDocument    `json:"plan"`
	Fleet FleetDocument   `json:"fleet"`
	Matrix []MatrixDocument `json:"matrix"`
}

// PlanDocument lists every job the fleet must serve.
type PlanDocument struct {
	Jobs []JobDocument `json:"jobs"`
}

// JobDocument is one job: either a single place/demand pair (Places has
// one entry) or a multi-place sequence the same vehicle must visit in
// order (pickup-then-delivery being the canonical two-place case).
type JobDocument struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Places         []PlaceDocument `json:"places"`
	DeliveryDemand []int64         `json:"deliveryDemand,omitempty"`
	PickupDemand   []int64         `json:"pickupDemand,omitempty"`
	DynamicDemand  []int64         `json:"dynamicDemand,omitempty"`
	Skills         []string        `json:"skills,omitempty"`
	Value          float64         `json:"value,omitempty"`
}

// PlaceDocument is a location a job visits, with the service duration
// spent there and any time windows it may be served within.
type PlaceDocument struct {
	LocationID  string             `json:"locationId"`
	Duration    int64              `json:"duration,omitempty"`
	TimeWindows []TimeWindowDocument `json:"timeWindows,omitempty"`
}

// TimeWindowDocument bounds when a place may be served, in RFC3339.
type TimeWindowDocument struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FleetDocument lists every vehicle instance and the profiles (capacity,
// skills, cost structure) they're drawn from.
type FleetDocument struct {
	Vehicles []VehicleDocument `json:"vehicles"`
	Profiles []ProfileDocument `json:"profiles"`
}

// VehicleDocument is one concrete vehicle instance.
type VehicleDocument struct {
	ID         string          `json:"id"`
	ProfileID  string          `json:"typeId"`
	Shifts     []ShiftDocument `json:"shifts"`
	ShiftIndex int             `json:"shiftIndex,omitempty"`
}

// ShiftDocument is one vehicle shift: a start, an optional end, and the
// window it may operate within.
type ShiftDocument struct {
	Start       PlaceDocument       `json:"start"`
	End         *PlaceDocument      `json:"end,omitempty"`
	Window      TimeWindowDocument  `json:"window"`
	BreakPolicy string              `json:"breakPolicy,omitempty"`
}

// ProfileDocument is a reusable vehicle type: capacity, skills, and cost
// coefficients shared by every vehicle referencing it by ID.
type ProfileDocument struct {
	ID              string   `json:"id"`
	Capacity        []int64  `json:"capacity"`
	Skills          []string `json:"skills,omitempty"`
	CostPerDistance float64  `json:"costPerDistance,omitempty"`
	CostPerDuration float64  `json:"costPerDuration,omitempty"`
	FixedCost       float64  `json:"fixedCost,omitempty"`
}

// MatrixDocument is a dense distance/duration matrix for one routing
// profile. LocationIDs gives the row/column order distances/durations are
// indexed by.
type MatrixDocument struct {
	ProfileID   string      `json:"profileId"`
	LocationIDs []string    `json:"locationIds"`
	Distances   [][]float64 `json:"distances"`
	Durations   [][]int64   `json:"durations"`
}

// SolutionDocument is the wire shape of a solved (or partially solved)
// result.
type SolutionDocument struct {
	Statistic  StatisticDocument     `json:"statistic"`
	Tours      []TourDocument        `json:"tours"`
	Unassigned []UnassignedDocument  `json:"unassigned,omitempty"`
	Violations []string              `json:"violations,omitempty"`
	Extras     *ExtrasDocument       `json:"extras,omitempty"`
}

// StatisticDocument aggregates a solution's cost and time breakdown.
type StatisticDocument struct {
	Cost     float64      `json:"cost"`
	Distance float64      `json:"distance"`
	Duration int64        `json:"duration"`
	Times    TimesDocument `json:"times"`
}

// TimesDocument splits total duration into driving, serving, waiting, and
// break time.
type TimesDocument struct {
	Driving   int64 `json:"driving"`
	Serving   int64 `json:"serving"`
	Waiting   int64 `json:"waiting"`
	BreakTime int64 `json:"break_time"`
}

// TourDocument is one vehicle's route.
type TourDocument struct {
	VehicleID  string             `json:"vehicleId"`
	TypeID     string             `json:"typeId"`
	ShiftIndex int                `json:"shiftIndex"`
	Stops      []StopDocument     `json:"stops"`
	Statistic  StatisticDocument  `json:"statistic"`
}

// StopDocument is one visited location on a tour.
type StopDocument struct {
	Location   string             `json:"location"`
	Time       TimeWindowDocument `json:"time"`
	Distance   float64            `json:"distance"`
	Load       []int64            `json:"load,omitempty"`
	Activities []ActivityDocument `json:"activities"`
}

// ActivityDocument is one job performed at a stop.
type ActivityDocument struct {
	JobID    string             `json:"jobId,omitempty"`
	Type     string             `json:"type"`
	Location string             `json:"location,omitempty"`
	Time     *TimeWindowDocument `json:"time,omitempty"`
	JobTag   string             `json:"jobTag,omitempty"`
}

// UnassignedDocument names a job the solver could not place, and why.
type UnassignedDocument struct {
	JobID   string           `json:"jobId"`
	Reasons []ReasonDocument `json:"reasons"`
}

// ReasonDocument is one opaque constraint-violation code plus its
// human-readable description, attached by this package rather than
// carried by the constraint module itself.
type ReasonDocument struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// ExtrasDocument carries optional diagnostic metrics about the run that
// produced a solution.
type ExtrasDocument struct {
	Metrics MetricsDocument `json:"metrics"`
}

// MetricsDocument reports how the run evolved over time.
type MetricsDocument struct {
	Duration    int64               `json:"duration"`
	Generations int                 `json:"generations"`
	Speed       float64             `json:"speed"`
	Evolution   []EvolutionDocument `json:"evolution,omitempty"`
}

// EvolutionDocument is one generation's population snapshot.
type EvolutionDocument struct {
	Number     int       `json:"number"`
	Timestamp  time.Time `json:"timestamp"`
	Population []PopulationEntryDocument `json:"population"`
}

// PopulationEntryDocument is one individual's summary within an
// EvolutionDocument snapshot.
type PopulationEntryDocument struct {
	Tours       int       `json:"tours"`
	Unassigned  int       `json:"unassigned"`
	Cost        float64   `json:"cost"`
	Improvement float64   `json:"improvement"`
	Fitness     []float64 `json:"fitness"`
}
