package homectl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/servicecore/internal/registry"
	"github.com/vk/servicecore/internal/service"
)

// fakeSwitch implements Switchable plus Stateful, without a native toggle.
type fakeSwitch struct {
	on    bool
	calls []string
}

func (f *fakeSwitch) TurnOn(_ context.Context, _ service.Call) error {
	f.on = true
	f.calls = append(f.calls, "on")
	return nil
}

func (f *fakeSwitch) TurnOff(_ context.Context, _ service.Call) error {
	f.on = false
	f.calls = append(f.calls, "off")
	return nil
}

func (f *fakeSwitch) IsOn(_ context.Context, _ string) (bool, error) {
	return f.on, nil
}

// fakeToggler has a native toggle.
type fakeToggler struct {
	toggled int
}

func (f *fakeToggler) Toggle(_ context.Context, _ service.Call) error {
	f.toggled++
	return nil
}

func setup(t *testing.T, backends map[string]any) *registry.Registry {
	t.Helper()
	r := registry.New()
	mod := &Module{Lookup: func(entityID string) (any, bool) {
		b, ok := backends[entityID]
		return b, ok
	}}
	mod.Register(r)
	return r
}

func handlerFor(t *testing.T, r *registry.Registry, name string) registry.Handler {
	t.Helper()
	h, ok := r.Handler(service.NewKey("homectl", name))
	require.True(t, ok)
	return h
}

func TestTurnOnAndOff(t *testing.T) {
	t.Parallel()
	sw := &fakeSwitch{}
	r := setup(t, map[string]any{"light.kitchen": sw})
	call := service.Call{EntityID: "light.kitchen"}

	require.NoError(t, handlerFor(t, r, "turn_on")(context.Background(), call))
	assert.True(t, sw.on)

	require.NoError(t, handlerFor(t, r, "turn_off")(context.Background(), call))
	assert.False(t, sw.on)
	assert.Equal(t, []string{"on", "off"}, sw.calls)
}

func TestToggleUsesNativeToggleWhenAvailable(t *testing.T) {
	t.Parallel()
	tg := &fakeToggler{}
	r := setup(t, map[string]any{"switch.fan": tg})

	err := handlerFor(t, r, "toggle")(context.Background(), service.Call{EntityID: "switch.fan"})
	require.NoError(t, err)
	assert.Equal(t, 1, tg.toggled)
}

func TestToggleDerivedFromState(t *testing.T) {
	t.Parallel()
	sw := &fakeSwitch{on: true}
	r := setup(t, map[string]any{"light.kitchen": sw})
	toggle := handlerFor(t, r, "toggle")

	require.NoError(t, toggle(context.Background(), service.Call{EntityID: "light.kitchen"}))
	assert.False(t, sw.on)

	require.NoError(t, toggle(context.Background(), service.Call{EntityID: "light.kitchen"}))
	assert.True(t, sw.on)
}

func TestUnsupportedCapability(t *testing.T) {
	t.Parallel()
	r := setup(t, map[string]any{"sensor.humidity": struct{}{}})

	err := handlerFor(t, r, "turn_on")(context.Background(), service.Call{EntityID: "sensor.humidity"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support turn_on")
}

func TestUnknownBackend(t *testing.T) {
	t.Parallel()
	r := setup(t, nil)

	err := handlerFor(t, r, "turn_on")(context.Background(), service.Call{EntityID: "light.ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backing device")
}

func TestNilLookup(t *testing.T) {
	t.Parallel()
	r := registry.New()
	(&Module{}).Register(r)

	err := handlerFor(t, r, "toggle")(context.Background(), service.Call{EntityID: "light.kitchen"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
