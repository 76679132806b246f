package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ProfileFlag(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	cfg, exit, err := Parse([]string{"-profile", "run.hcl", "-log-level", "debug"}, out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "run.hcl", cfg.ProfilePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParse_ShorthandAndPositional(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	cfg, _, err := Parse([]string{"-p", "short.hcl"}, out)
	require.NoError(t, err)
	assert.Equal(t, "short.hcl", cfg.ProfilePath)

	cfg, _, err = Parse([]string{"positional.hcl"}, out)
	require.NoError(t, err)
	assert.Equal(t, "positional.hcl", cfg.ProfilePath)
}

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	cfg, exit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_HelpFlag(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	_, exit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestParse_InvalidLogFormat(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	_, _, err := Parse([]string{"-log-format", "xml", "run.hcl"}, out)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	_, _, err := Parse([]string{"-log-level", "verbose", "run.hcl"}, out)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, exitErr.Message, "invalid log-level")
}

func TestParse_NegativeWorkers(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	_, _, err := Parse([]string{"-workers", "-3", "run.hcl"}, out)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, exitErr.Message, "workers")
}

func TestParse_UnknownFlag(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	_, _, err := Parse([]string{"-bogus"}, out)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
}
