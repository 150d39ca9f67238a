package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "covfold", configBaseName)
	assert.Equal(t, "covfold.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "fragments", fragmentsFlagName)
	assert.Equal(t, "include", includeFlagName)
	assert.Equal(t, "parallel", mergeParallelFlagName)
	assert.Equal(t, "merge.parallel", mergeParallelConfigKey)
	assert.Equal(t, "paths.include", includeConfigKey)
	assert.Equal(t, "remap.coverage_file", coverageFileConfigKey)
	assert.Equal(t, "remap.config_file", remapConfigFileKey)
	assert.Equal(t, "remap.rules", ruleConfigKey)
	assert.Equal(t, "coverage.xml", defaultReportFile)
	assert.Equal(t, ".covfold-fragments", defaultFragmentsDir)
	assert.Equal(t, "coverage.json", defaultCoverageFile)
	assert.Equal(t, ".covfold-coverage.yml", defaultCoverageConfig)
	assert.Equal(t, 4, defaultMergeParallel)
	assert.Equal(t, "COVFOLD", envPrefix)
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
		{"empty", "", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case", "DeBuG", slog.LevelDebug},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}
