package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositionalManifestPath(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{"services/"}, &out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "services/", cfg.ManifestPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10, cfg.WorkerCount)
	assert.True(t, cfg.StrictTargets)
}

func TestParseFlagOverridesPositional(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	cfg, _, err := Parse([]string{"-manifest", "a.yaml", "b.yaml"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "a.yaml", cfg.ManifestPath)
}

func TestParseOptions(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	cfg, _, err := Parse([]string{"-log-format", "text", "-log-level", "debug", "-workers", "3", "-strict=false", "-m", "x.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.False(t, cfg.StrictTargets)
}

func TestParseNoPathPrintsUsage(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseInvalidLogFormat(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, _, err := Parse([]string{"-log-format", "xml", "x.yaml"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseInvalidLogLevel(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, _, err := Parse([]string{"-log-level", "verbose", "x.yaml"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
