// Package resolver expands target descriptors (entity, device, area and
// label ids) into deduplicated sets of concrete entity ids, consulting the
// platform's external registries.
package resolver

import (
	"context"
	"fmt"

	"github.com/vk/servicecore/internal/ctxlog"
	"github.com/vk/servicecore/internal/service"
)

// Options configures resolution behavior.
type Options struct {
	// Strict makes unknown entity and device ids fatal to the invocation.
	// When false, unknown ids are skipped and recorded as warnings on the
	// resolved target.
	Strict bool
}

// DefaultOptions returns the documented defaults: strict resolution.
func DefaultOptions() Options {
	return Options{Strict: true}
}

// Resolver expands target descriptors against a fixed set of registries.
// It is safe for concurrent use; all state is read-only after construction.
type Resolver struct {
	regs Registries
	opts Options
}

// New creates a Resolver. The entity registry is required.
func New(regs Registries, opts Options) *Resolver {
	if regs.Entities == nil {
		panic("resolver: entity registry is required")
	}
	return &Resolver{regs: regs, opts: opts}
}

// Resolve expands the descriptor into the union of all named entities,
// deduplicated by id, honoring the target spec's constraints.
//
// Expansion order is entity, device, area, label. The order only decides
// which branch records a given id first for diagnostics; membership is a
// set and order-independent.
func (r *Resolver) Resolve(ctx context.Context, desc *service.TargetDescriptor, spec *service.TargetSpec) (*service.ResolvedTarget, error) {
	logger := ctxlog.FromContext(ctx)
	resolved := service.NewResolvedTarget()

	if desc != nil {
		// A descriptor may only use the categories the spec declares;
		// anything else is skipped with a diagnostic.
		if spec.Entity == nil {
			warnAll(resolved, "entity", desc.EntityIDs)
		} else if err := r.expandEntities(ctx, desc.EntityIDs, spec.Entity, "entity", resolved); err != nil {
			return nil, err
		}

		if spec.Device == nil {
			warnAll(resolved, "device", desc.DeviceIDs)
		} else {
			for _, deviceID := range desc.DeviceIDs {
				if err := r.expandDevice(ctx, deviceID, spec, resolved); err != nil {
					return nil, err
				}
			}
		}

		if spec.Area == nil {
			warnAll(resolved, "area", desc.AreaIDs)
		} else {
			for _, areaID := range desc.AreaIDs {
				if err := r.expandMembership(ctx, "area", areaID, spec, resolved); err != nil {
					return nil, err
				}
			}
		}

		if spec.Label == nil {
			warnAll(resolved, "label", desc.LabelIDs)
		} else {
			for _, labelID := range desc.LabelIDs {
				if err := r.expandMembership(ctx, "label", labelID, spec, resolved); err != nil {
					return nil, err
				}
			}
		}
	}

	if resolved.Len() == 0 && !spec.AllowEmpty {
		return nil, &EmptyTargetError{}
	}

	logger.Debug("Target resolved.",
		"entities", resolved.Len(),
		"warnings", len(resolved.Warnings),
	)
	return resolved, nil
}

func warnAll(resolved *service.ResolvedTarget, kind string, ids []string) {
	for _, id := range ids {
		resolved.Warn(kind, id, kind+" targets not accepted by this service")
	}
}

// expandEntities existence-checks and constraint-checks each entity id and
// adds the survivors to the set. source names the branch ("entity" or
// "device") for diagnostics.
func (r *Resolver) expandEntities(ctx context.Context, entityIDs []string, constraint *service.Constraint, source string, resolved *service.ResolvedTarget) error {
	for _, id := range entityIDs {
		if resolved.Contains(id) {
			continue
		}
		ent, err := r.regs.Entities.Entity(ctx, id)
		if err != nil {
			return fmt.Errorf("entity registry lookup for %q: %w", id, err)
		}
		if ent == nil {
			if r.opts.Strict {
				return &UnknownEntityError{Kind: "entity", ID: id}
			}
			resolved.Warn(source, id, "unknown entity id")
			continue
		}
		if !constraint.Matches(ent.Domain) {
			resolved.Warn(source, id, fmt.Sprintf("domain %q not accepted by service", ent.Domain))
			continue
		}
		resolved.Add(ent.ID)
	}
	return nil
}

// expandDevice expands one device id to its member entities.
func (r *Resolver) expandDevice(ctx context.Context, deviceID string, spec *service.TargetSpec, resolved *service.ResolvedTarget) error {
	if r.regs.Devices == nil {
		return fmt.Errorf("target names device %q but no device registry is configured", deviceID)
	}
	members, known, err := r.regs.Devices.DeviceEntities(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("device registry lookup for %q: %w", deviceID, err)
	}
	if !known {
		if r.opts.Strict {
			return &UnknownEntityError{Kind: "device", ID: deviceID}
		}
		resolved.Warn("device", deviceID, "unknown device id")
		return nil
	}
	// Member entities go through the same existence and constraint checks
	// as directly named entities.
	return r.expandEntities(ctx, members, spec.Entity, "device", resolved)
}

// expandMembership expands an area or label id to the union of its tagged
// entities plus the entities of its tagged devices. Unknown area and label
// ids are indistinguishable from empty ones; they yield nothing and a
// warning rather than an error, in strict mode too.
func (r *Resolver) expandMembership(ctx context.Context, kind, id string, spec *service.TargetSpec, resolved *service.ResolvedTarget) error {
	var entityIDs, deviceIDs []string
	var err error

	switch kind {
	case "area":
		if r.regs.Areas == nil {
			return fmt.Errorf("target names area %q but no area registry is configured", id)
		}
		if entityIDs, err = r.regs.Areas.AreaEntities(ctx, id); err != nil {
			return fmt.Errorf("area registry lookup for %q: %w", id, err)
		}
		if deviceIDs, err = r.regs.Areas.AreaDevices(ctx, id); err != nil {
			return fmt.Errorf("area registry lookup for %q: %w", id, err)
		}
	case "label":
		if r.regs.Labels == nil {
			return fmt.Errorf("target names label %q but no label registry is configured", id)
		}
		if entityIDs, err = r.regs.Labels.LabelEntities(ctx, id); err != nil {
			return fmt.Errorf("label registry lookup for %q: %w", id, err)
		}
		if deviceIDs, err = r.regs.Labels.LabelDevices(ctx, id); err != nil {
			return fmt.Errorf("label registry lookup for %q: %w", id, err)
		}
	}

	if len(entityIDs) == 0 && len(deviceIDs) == 0 {
		resolved.Warn(kind, id, "no entities or devices tagged")
		return nil
	}
	if err := r.expandEntities(ctx, entityIDs, spec.Entity, kind, resolved); err != nil {
		return err
	}
	for _, deviceID := range deviceIDs {
		if err := r.expandDevice(ctx, deviceID, spec, resolved); err != nil {
			return err
		}
	}
	return nil
}
