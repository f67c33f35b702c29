package main

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-brain/sketch"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	o, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "brain.toml", o.configPath)
	assert.Equal(t, sketch.DefaultModelPath, o.modelPath)
	assert.False(t, o.debug)
	assert.Zero(t, o.seed)
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-c", "alt.toml", "--model", "head.gltf", "--debug", "--seed", "42"})
	require.NoError(t, err)
	assert.Equal(t, "alt.toml", o.configPath)
	assert.Equal(t, "head.gltf", o.modelPath)
	assert.True(t, o.debug)
	assert.Equal(t, uint64(42), o.seed)

	_, err = parseFlags([]string{"--seed", "minus"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}
