package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootPreRunInvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "barulho")

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init logger")
	assert.Contains(t, err.Error(), "parse log level")
}

func TestRootPreRunLoadsConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SNAPSHOT_DRIVER", "file")

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	require.NotNil(t, cfg)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "file", cfg.SnapshotDriver)
}
