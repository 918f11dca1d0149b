package service

import (
	"github.com/zclconf/go-cty/cty"
)

// InvocationRequest is a raw, unvalidated service call as it arrives from
// the platform's automation or UI layer.
type InvocationRequest struct {
	Service Key

	// Fields maps field keys to raw values as decoded from the transport
	// (JSON/YAML scalars, maps and slices).
	Fields map[string]any

	// Target is nil when the caller supplied no target descriptor.
	Target *TargetDescriptor
}

// TargetDescriptor names the entities, devices, areas and labels a call
// should apply to. Duplicates are permitted; resolution dedups.
type TargetDescriptor struct {
	EntityIDs []string
	DeviceIDs []string
	AreaIDs   []string
	LabelIDs  []string
}

// IsEmpty reports whether the descriptor names nothing at all.
func (t *TargetDescriptor) IsEmpty() bool {
	return t == nil ||
		len(t.EntityIDs) == 0 && len(t.DeviceIDs) == 0 &&
			len(t.AreaIDs) == 0 && len(t.LabelIDs) == 0
}

// NormalizedRequest is the outcome of successful validation: the coerced
// field values plus, for targeted services, the resolved entity set. It is
// the only input the dispatcher accepts.
type NormalizedRequest struct {
	Definition *Definition
	Fields     map[string]cty.Value

	// Target is nil for services without a TargetSpec.
	Target *ResolvedTarget
}
