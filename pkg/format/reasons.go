package format

// Reason codes are opaque small integers attached to an unassigned job;
// their human description is attached here, at the output layer, rather
// than carried by the constraint module that produced the rejection.
const (
	ReasonNoFeasiblePosition = 1
	ReasonCapacityExceeded   = 2
	ReasonSkillMismatch      = 3
	ReasonTimeWindowMissed   = 4
	ReasonTransportUnreachable = 5
)

var reasonDescriptions = map[int]string{
	ReasonNoFeasiblePosition:   "no feasible insertion position found in any route",
	ReasonCapacityExceeded:     "inserting this job would exceed a vehicle's capacity on every route",
	ReasonSkillMismatch:        "no vehicle with a matching skill was available",
	ReasonTimeWindowMissed:     "no route could reach this job within its time window",
	ReasonTransportUnreachable: "location is unreachable from every candidate route",
}

// ReasonDescription returns the human-readable text for an unassigned-job
// reason code, or a generic fallback for an unrecognized code.
func ReasonDescription(code int) string {
	if desc, ok := reasonDescriptions[code]; ok {
		return desc
	}
	return "unassigned for an unspecified reason"
}
