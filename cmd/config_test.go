package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "islet", configBaseName)
	assert.Equal(t, "islet.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "tests", testsFlagName)
	assert.Equal(t, "units", unitsFlagName)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "artifact", artifactFlagName)
	assert.Equal(t, "paths.tests", testsConfigKey)
	assert.Equal(t, "paths.units", unitsConfigKey)
	assert.Equal(t, "run.artifact", artifactConfigKey)
	assert.Equal(t, "run.tui", tuiConfigKey)
	assert.Equal(t, "./tests", defaultTestsDir)
	assert.Equal(t, ".", defaultUnitsDir)
	assert.Equal(t, ".islet-reports", defaultReportsDir)
	assert.Equal(t, "ISLET", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty uses default", "", slog.LevelWarn},
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"numeric", "-4", slog.LevelDebug},
		{"mixed case", "DeBuG", slog.LevelDebug},
		{"garbage uses default", "loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}
