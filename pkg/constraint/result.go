package constraint

import "fmt"

// Result is the outcome of evaluating a single constraint module against a
// route or activity: a hard pass/fail, or a soft [0.0, 1.0] score. Ported
// from dungeon.ConstraintResult/NewHardConstraintResult/
// NewSoftConstraintResult, with one addition: Stopped. A module sets
// Stopped when it determines that no later activity in the same route can
// possibly satisfy the constraint either (e.g. capacity already exceeded,
// so every later activity is exceeded too) — the pipeline uses this to cut
// an O(n) sweep short instead of evaluating the remaining O(n) activities,
// per the pipeline's stopped short-circuit semantics.
type Result struct {
	Name       string
	Expression string
	Satisfied  bool
	Score      float64
	Stopped    bool
	Details    string
}

// NewHardResult returns a hard (pass/fail) constraint result.
func NewHardResult(name, expression string, satisfied bool, details string) Result {
	return Result{Name: name, Expression: expression, Satisfied: satisfied, Details: details}
}

// NewHardResultStopped returns a hard result that additionally signals the
// pipeline to stop sweeping later activities in this route.
func NewHardResultStopped(name, expression string, details string) Result {
	return Result{Name: name, Expression: expression, Satisfied: false, Stopped: true, Details: details}
}

// NewSoftResult returns a soft (scored) constraint result. score must be in
// [0.0, 1.0]; values outside that range are clamped.
func NewSoftResult(name, expression string, score float64, details string) Result {
	if score < 0.0 {
		score = 0.0
	}
	if score > 1.0 {
		score = 1.0
	}
	return Result{Name: name, Expression: expression, Satisfied: true, Score: score, Details: details}
}

// String renders the result for log lines and validation reports.
func (r Result) String() string {
	if r.Score != 0 || r.Satisfied && r.Expression != "" {
		return fmt.Sprintf("%s[%s]: satisfied=%t score=%.3f %s", r.Name, r.Expression, r.Satisfied, r.Score, r.Details)
	}
	return fmt.Sprintf("%s[%s]: satisfied=%t %s", r.Name, r.Expression, r.Satisfied, r.Details)
}
