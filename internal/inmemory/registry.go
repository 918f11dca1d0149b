package inmemory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/servicecore/internal/resolver"
)

// membership holds the direct members of one area or label.
type membership struct {
	entities []string
	devices  []string
}

// Registry is an in-memory topology of entities, devices, areas and labels.
// It implements every resolver registry interface behind a single RWMutex:
// resolution is read-heavy, mutation happens rarely (setup and discovery).
type Registry struct {
	mu       sync.RWMutex
	entities map[string]resolver.Entity
	devices  map[string][]string
	areas    map[string]*membership
	labels   map[string]*membership
}

// New creates an empty in-memory topology registry.
func New() *Registry {
	return &Registry{
		entities: make(map[string]resolver.Entity),
		devices:  make(map[string][]string),
		areas:    make(map[string]*membership),
		labels:   make(map[string]*membership),
	}
}

// Registries bundles the registry into the resolver's collaborator set,
// serving all four categories.
func (r *Registry) Registries() resolver.Registries {
	return resolver.Registries{Entities: r, Devices: r, Areas: r, Labels: r}
}

// AddEntity registers an entity. The domain is the part of the id before
// the first dot.
func (r *Registry) AddEntity(entityID string) error {
	domain, _, ok := strings.Cut(entityID, ".")
	if !ok || domain == "" {
		return fmt.Errorf("entity id %q is not in domain.object_id form", entityID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities[entityID] = resolver.Entity{ID: entityID, Domain: domain}
	return nil
}

// AddDevice registers a device and the entities it provides. Calling it
// again for the same device id replaces the member list.
func (r *Registry) AddDevice(deviceID string, entityIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[deviceID] = append([]string(nil), entityIDs...)
}

// AssignArea places entities and devices into an area, creating the area on
// first use.
func (r *Registry) AssignArea(areaID string, entityIDs, deviceIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assign(r.areas, areaID, entityIDs, deviceIDs)
}

// AssignLabel tags entities and devices with a label, creating the label on
// first use.
func (r *Registry) AssignLabel(labelID string, entityIDs, deviceIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assign(r.labels, labelID, entityIDs, deviceIDs)
}

func assign(groups map[string]*membership, id string, entityIDs, deviceIDs []string) {
	group, ok := groups[id]
	if !ok {
		group = &membership{}
		groups[id] = group
	}
	group.entities = append(group.entities, entityIDs...)
	group.devices = append(group.devices, deviceIDs...)
}

// Entity implements resolver.EntityRegistry.
func (r *Registry) Entity(_ context.Context, entityID string) (*resolver.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ent, ok := r.entities[entityID]
	if !ok {
		return nil, nil
	}
	return &ent, nil
}

// DeviceEntities implements resolver.DeviceRegistry.
func (r *Registry) DeviceEntities(_ context.Context, deviceID string) ([]string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.devices[deviceID]
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), members...), true, nil
}

// AreaEntities implements resolver.AreaRegistry.
func (r *Registry) AreaEntities(_ context.Context, areaID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return groupMembers(r.areas, areaID, func(g *membership) []string { return g.entities }), nil
}

// AreaDevices implements resolver.AreaRegistry.
func (r *Registry) AreaDevices(_ context.Context, areaID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return groupMembers(r.areas, areaID, func(g *membership) []string { return g.devices }), nil
}

// LabelEntities implements resolver.LabelRegistry.
func (r *Registry) LabelEntities(_ context.Context, labelID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return groupMembers(r.labels, labelID, func(g *membership) []string { return g.entities }), nil
}

// LabelDevices implements resolver.LabelRegistry.
func (r *Registry) LabelDevices(_ context.Context, labelID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return groupMembers(r.labels, labelID, func(g *membership) []string { return g.devices }), nil
}

func groupMembers(groups map[string]*membership, id string, pick func(*membership) []string) []string {
	group, ok := groups[id]
	if !ok {
		return nil
	}
	return append([]string(nil), pick(group)...)
}
