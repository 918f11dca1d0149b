// Package homectl provides the generic entity power services: turn_on,
// turn_off and toggle. Handlers dispatch to capability interfaces looked up
// per entity, so any backing integration can participate by implementing
// the matching interface.
package homectl

import (
	"context"
	"fmt"

	"github.com/vk/servicecore/internal/ctxlog"
	"github.com/vk/servicecore/internal/registry"
	"github.com/vk/servicecore/internal/service"
)

// Switchable is implemented by entity backends that can be switched on and
// off. The call carries the validated field values (brightness, transition
// and the like) for backends that honor them.
type Switchable interface {
	TurnOn(ctx context.Context, call service.Call) error
	TurnOff(ctx context.Context, call service.Call) error
}

// Toggleable is implemented by backends with a native toggle. Backends
// without one still toggle when they implement Switchable and report state
// via Stateful.
type Toggleable interface {
	Toggle(ctx context.Context, call service.Call) error
}

// Stateful reports whether the entity is currently on. Combined with
// Switchable it gives a derived toggle.
type Stateful interface {
	IsOn(ctx context.Context, entityID string) (bool, error)
}

// CapabilityLookup maps an entity id to its backing device object. The
// boolean reports whether the entity has a backend at all.
type CapabilityLookup func(entityID string) (any, bool)

// Module implements the registry.Module interface for this package.
type Module struct {
	Lookup CapabilityLookup
}

// Register registers the power service handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(service.NewKey("homectl", "turn_on"), m.handler("turn_on", func(ctx context.Context, s Switchable, call service.Call) error {
		return s.TurnOn(ctx, call)
	}))
	r.RegisterHandler(service.NewKey("homectl", "turn_off"), m.handler("turn_off", func(ctx context.Context, s Switchable, call service.Call) error {
		return s.TurnOff(ctx, call)
	}))
	r.RegisterHandler(service.NewKey("homectl", "toggle"), m.toggleHandler())
}

func (m *Module) backend(call service.Call) (any, error) {
	if m.Lookup == nil {
		return nil, fmt.Errorf("no capability lookup configured")
	}
	backend, ok := m.Lookup(call.EntityID)
	if !ok {
		return nil, fmt.Errorf("entity %q has no backing device", call.EntityID)
	}
	return backend, nil
}

func (m *Module) handler(op string, fn func(context.Context, Switchable, service.Call) error) registry.Handler {
	return func(ctx context.Context, call service.Call) error {
		logger := ctxlog.FromContext(ctx).With("operation", op, "entity", call.EntityID)

		backend, err := m.backend(call)
		if err != nil {
			return err
		}
		switchable, ok := backend.(Switchable)
		if !ok {
			return fmt.Errorf("entity %q does not support %s", call.EntityID, op)
		}

		logger.Debug("Invoking power capability.")
		return fn(ctx, switchable, call)
	}
}

func (m *Module) toggleHandler() registry.Handler {
	return func(ctx context.Context, call service.Call) error {
		logger := ctxlog.FromContext(ctx).With("operation", "toggle", "entity", call.EntityID)

		backend, err := m.backend(call)
		if err != nil {
			return err
		}

		if toggleable, ok := backend.(Toggleable); ok {
			logger.Debug("Invoking native toggle.")
			return toggleable.Toggle(ctx, call)
		}

		// Derive a toggle from state + switching when the backend has no
		// native one.
		switchable, okSwitch := backend.(Switchable)
		stateful, okState := backend.(Stateful)
		if !okSwitch || !okState {
			return fmt.Errorf("entity %q does not support toggle", call.EntityID)
		}

		on, err := stateful.IsOn(ctx, call.EntityID)
		if err != nil {
			return fmt.Errorf("failed to read state of %q: %w", call.EntityID, err)
		}
		logger.Debug("Invoking derived toggle.", "currently_on", on)
		if on {
			return switchable.TurnOff(ctx, call)
		}
		return switchable.TurnOn(ctx, call)
	}
}
