package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeServerConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, constants.DefaultServerAddress, cfg.Address)
		assert.Equal(t, constants.DefaultMaxUploadSizeBytes, cfg.UploadSizeBytes())
		assert.Equal(t, constants.DefaultScenarioConcurrency, cfg.ScenarioLimit)
		assert.Empty(t, cfg.Logging.Level)
		assert.Empty(t, cfg.Logging.OutputFile)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeServerConfig(t, `address: 127.0.0.1:9000
maxUploadSize: 2MiB
scenarioLimit: 8
logging:
  level: debug
  format: console
  outputFile: /tmp/planner-server.log
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Address)
	assert.Equal(t, int64(2*1024*1024), cfg.UploadSizeBytes())
	assert.Equal(t, 8, cfg.ScenarioLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/tmp/planner-server.log", cfg.Logging.OutputFile)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := writeServerConfig(t, "address: 127.0.0.1:9000\nscenarioLimit: 2\n")
	t.Setenv("COMMITMENT_PLANNER_ADDRESS", "0.0.0.0:7000")
	t.Setenv("COMMITMENT_PLANNER_SCENARIOLIMIT", "6")
	t.Setenv("COMMITMENT_PLANNER_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:7000", cfg.Address)
	assert.Equal(t, 6, cfg.ScenarioLimit)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"invalid size":           "maxUploadSize: lots",
		"negative scenario limit": "scenarioLimit: -1",
		"malformed yaml":          "address: [unterminated",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeServerConfig(t, contents))
			assert.Error(t, err)
		})
	}
}

func TestSetUploadSizeBytes(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	cfg.SetUploadSizeBytes(1024 * 1024)
	assert.Equal(t, int64(1024*1024), cfg.UploadSizeBytes())
	assert.Equal(t, "1.0 MiB", cfg.MaxUploadSize)

	cfg.SetUploadSizeBytes(0)
	assert.Equal(t, int64(1024*1024), cfg.UploadSizeBytes())
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"0":         constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256KiB":    256 * 1024,
		"256K":      256 * 1000,
		"1 MiB":     1024 * 1024,
		"3MB":       3 * 1000 * 1000,
		"2GiB":      2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		require.NoError(t, err, "ParseSize(%q)", input)
		assert.Equal(t, expected, got, "ParseSize(%q)", input)
	}

	_, err := ParseSize("abc")
	assert.Error(t, err)
	_, err = ParseSize("12 parsecs")
	assert.Error(t, err)
}
