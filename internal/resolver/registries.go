package resolver

import "context"

// Entity is the slice of the external entity registry the resolver needs:
// identity plus the domain used for constraint checks.
type Entity struct {
	ID     string
	Domain string
}

// EntityRegistry is the external store mapping entity ids to existence and
// domain. A nil entity with a nil error means "unknown id".
type EntityRegistry interface {
	Entity(ctx context.Context, entityID string) (*Entity, error)
}

// DeviceRegistry is the external store mapping device ids to their member
// entities. The boolean reports whether the device id is known at all.
type DeviceRegistry interface {
	DeviceEntities(ctx context.Context, deviceID string) (entityIDs []string, known bool, err error)
}

// AreaRegistry is the external store mapping area ids to the entities and
// devices placed in that area.
type AreaRegistry interface {
	AreaEntities(ctx context.Context, areaID string) ([]string, error)
	AreaDevices(ctx context.Context, areaID string) ([]string, error)
}

// LabelRegistry is the external store mapping label ids to the entities and
// devices tagged with that label.
type LabelRegistry interface {
	LabelEntities(ctx context.Context, labelID string) ([]string, error)
	LabelDevices(ctx context.Context, labelID string) ([]string, error)
}

// Registries bundles the external collaborators consulted during
// resolution. Entities is mandatory; the rest may be nil when the platform
// embedding this core has no such registry, in which case descriptors
// naming that category fail.
type Registries struct {
	Entities EntityRegistry
	Devices  DeviceRegistry
	Areas    AreaRegistry
	Labels   LabelRegistry
}
