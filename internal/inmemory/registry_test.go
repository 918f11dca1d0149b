package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityLookup(t *testing.T) {
	t.Parallel()
	reg := New()
	require.NoError(t, reg.AddEntity("light.kitchen"))

	ent, err := reg.Entity(context.Background(), "light.kitchen")
	require.NoError(t, err)
	require.NotNil(t, ent)
	assert.Equal(t, "light", ent.Domain)

	unknown, err := reg.Entity(context.Background(), "light.garage")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestAddEntityRejectsBareID(t *testing.T) {
	t.Parallel()
	require.Error(t, New().AddEntity("kitchen"))
}

func TestDeviceMembership(t *testing.T) {
	t.Parallel()
	reg := New()
	reg.AddDevice("device-1", "light.hallway", "sensor.hallway")

	members, known, err := reg.DeviceEntities(context.Background(), "device-1")
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, []string{"light.hallway", "sensor.hallway"}, members)

	_, known, err = reg.DeviceEntities(context.Background(), "device-2")
	require.NoError(t, err)
	assert.False(t, known)
}

func TestAreaAndLabelMembershipAccumulates(t *testing.T) {
	t.Parallel()
	reg := New()
	reg.AssignArea("kitchen", []string{"light.kitchen"}, nil)
	reg.AssignArea("kitchen", []string{"switch.kettle"}, []string{"device-1"})
	reg.AssignLabel("night", nil, []string{"device-1"})

	entities, err := reg.AreaEntities(context.Background(), "kitchen")
	require.NoError(t, err)
	assert.Equal(t, []string{"light.kitchen", "switch.kettle"}, entities)

	devices, err := reg.AreaDevices(context.Background(), "kitchen")
	require.NoError(t, err)
	assert.Equal(t, []string{"device-1"}, devices)

	labelled, err := reg.LabelDevices(context.Background(), "night")
	require.NoError(t, err)
	assert.Equal(t, []string{"device-1"}, labelled)

	empty, err := reg.LabelEntities(context.Background(), "day")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
