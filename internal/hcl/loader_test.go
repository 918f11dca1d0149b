package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/servicecore/internal/service"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return dir
}

func TestLoadServiceManifest(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, `
		service "light" "turn_on" {
			name        = "Turn on"
			description = "Turn on one or more lights."

			field "brightness" {
				name        = "Brightness"
				description = "Brightness to set, 0..255."
				required    = true
				example     = 120

				selector {
					kind = "number"
					min  = 0
					max  = 255
				}
			}

			field "effect" {
				selector {
					kind    = "select"
					options = ["colorloop", "random"]
				}
			}

			target {
				entity {
					domains = ["light"]
				}
			}
		}
	`)

	defs, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, "light.turn_on", def.Key.String())
	assert.Equal(t, "Turn on", def.Name)

	require.Len(t, def.Fields, 2)
	brightness := def.Fields[0]
	assert.Equal(t, "brightness", brightness.Key)
	assert.True(t, brightness.Required)
	assert.Equal(t, service.SelectorNumber, brightness.Selector.Kind)
	require.NotNil(t, brightness.Selector.Max)
	assert.Equal(t, float64(255), *brightness.Selector.Max)
	assert.Equal(t, float64(120), brightness.Example)

	effect := def.Fields[1]
	assert.Equal(t, service.SelectorSelect, effect.Selector.Kind)
	assert.Equal(t, []string{"colorloop", "random"}, effect.Selector.Options)

	require.NotNil(t, def.Target)
	require.NotNil(t, def.Target.Entity)
	assert.Equal(t, []string{"light"}, def.Target.Entity.Domains)
	assert.Nil(t, def.Target.Device)
}

func TestLoadTargetlessService(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, `
		service "homeassistant" "restart" {
			name        = "Restart"
			description = "Restart the platform."
		}
	`)

	defs, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Nil(t, defs[0].Target)
}

func TestLoadBareTargetAcceptsEverything(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, `
		service "homeassistant" "turn_on" {
			target {}
		}
	`)

	defs, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	target := defs[0].Target
	require.NotNil(t, target)
	assert.NotNil(t, target.Entity)
	assert.NotNil(t, target.Device)
	assert.NotNil(t, target.Area)
	assert.NotNil(t, target.Label)
}

func TestLoadRejectsUnknownSelectorKind(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, `
		service "light" "turn_on" {
			field "brightness" {
				selector {
					kind = "slider"
				}
			}
		}
	`)

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown selector kind")
}

func TestLoadRejectsDuplicateField(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, `
		service "light" "turn_on" {
			field "brightness" {}
			field "brightness" {}
		}
	`)

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twice")
}

func TestLoadEmptyDirectory(t *testing.T) {
	t.Parallel()
	defs, err := NewLoader().Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, defs)
}
