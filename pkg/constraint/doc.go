// Package constraint implements the solver's constraint pipeline: a
// registry of pluggable hard and soft, route- and activity-scoped modules
// (capacity, recharge, skills, dispatch, transport, work-balance, value)
// evaluated by Pipeline against a candidate job insertion or a completed
// solution. Modules are registered by name via Register/Get/List, the same
// plugin-lookup shape embedding.Register/Get/List used for spatial layout
// algorithms.
package constraint

