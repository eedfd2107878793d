package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidateRequiresInput(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.Input = "doc.yaml"
	assert.NoError(t, cfg.Validate())
}

func TestColorEnabledForcedOverridesTerminalCheck(t *testing.T) {
	assert.True(t, colorEnabled(true))
}

func TestStderrWriterNonNil(t *testing.T) {
	assert.NotNil(t, stderrWriter())
}
