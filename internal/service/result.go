package service

import "sort"

// Status summarizes the outcome of a dispatch across all invoked handlers.
type Status int

const (
	// StatusSuccess means every handler invocation succeeded.
	StatusSuccess Status = iota
	// StatusPartialFailure means some, but not all, entity invocations failed.
	StatusPartialFailure
	// StatusFailure means every invocation failed (or the single invocation
	// of a targetless service failed).
	StatusFailure
)

// String implements fmt.Stringer for log output.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartialFailure:
		return "partial_failure"
	case StatusFailure:
		return "failure"
	}
	return "unknown"
}

// DispatchResult aggregates the per-entity outcomes of one service call.
//
// A call that was rejected before reaching any entity (a validation error)
// never produces a DispatchResult; callers can therefore distinguish
// "nothing ran" from "some entities failed".
type DispatchResult struct {
	// CallID is the unique id assigned to this dispatch.
	CallID string

	Status Status

	// Results holds the per-entity outcome for targeted services: a nil
	// value marks success, anything else is the (isolated) entity error.
	// It is nil for targetless services.
	Results map[string]error

	// Err is the single-invocation outcome of a targetless service. It is
	// nil for targeted services and on success.
	Err error
}

// FailedEntities returns the ids whose invocation failed, sorted.
func (r *DispatchResult) FailedEntities() []string {
	var ids []string
	for id, err := range r.Results {
		if err != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
