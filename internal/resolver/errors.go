package resolver

import "fmt"

// UnknownEntityError is returned in strict mode when a target descriptor
// names an entity or device id the external registries have never heard of.
type UnknownEntityError struct {
	Kind string // "entity" or "device"
	ID   string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s id %q", e.Kind, e.ID)
}

// EmptyTargetError is returned when resolution yields no entities for a
// service whose target spec requires a non-empty target.
type EmptyTargetError struct{}

func (e *EmptyTargetError) Error() string {
	return "target resolved to zero entities"
}
