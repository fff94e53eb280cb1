package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/commitment-planner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigPath = "../../test/test_config.yaml"

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		logging   config.LoggingConfig
		override  string
		expectErr bool
	}{
		{name: "Defaults", logging: config.LoggingConfig{}},
		{name: "Console debug", logging: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "Override wins", logging: config.LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "Invalid level", logging: config.LoggingConfig{Level: "verbose"}, expectErr: true},
		{name: "Invalid format", logging: config.LoggingConfig{Format: "xml"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.logging, tt.override)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "planner.log")
	logger, err := initializeLogger(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestRunPlanJSON(t *testing.T) {
	var buf bytes.Buffer
	err := runPlan(context.Background(), &buf, testConfigPath, "json", "error", false)
	require.NoError(t, err)

	var results []struct {
		Name string `json:"name"`
		Plan struct {
			Commitments []map[string]any `json:"commitments"`
		} `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	require.Len(t, results, 3)
	assert.Equal(t, "baseline", results[0].Name)
	assert.Len(t, results[0].Plan.Commitments, 15)
}

func TestRunPlanCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runPlan(context.Background(), &buf, testConfigPath, "csv", "error", false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// Header plus 50 report years for each of the three active scenarios.
	assert.Len(t, lines, 1+3*50)
	assert.True(t, strings.HasPrefix(lines[0], "scenario,year,committed"))
}

func TestRunPlanErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, runPlan(context.Background(), &buf, "missing.yaml", "", "", false))
	assert.Error(t, runPlan(context.Background(), &buf, testConfigPath, "xml", "error", false))
	assert.Error(t, runPlan(context.Background(), &buf, testConfigPath, "", "loud", false))
}

func TestRunValidate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runValidate(&buf, testConfigPath))
	assert.Contains(t, buf.String(), "is valid with 1 warning(s)")
	assert.Contains(t, buf.String(), "'no venture' overrides unselected category 'vc'")
}

func TestRunValidateRejectsInvalidScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte(`common:
  availableCapital: 1000000
  startYear: 2026
  planningHorizon: 3
scenarios:
  - name: late override
    active: true
    manualOverrides:
      - year: 2040
        pe: 1000
`)
	require.NoError(t, os.WriteFile(path, contents, 0600))

	var buf bytes.Buffer
	err := runValidate(&buf, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "late override")
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"plan", "validate", "serve"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"validate", "--config", testConfigPath})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "is valid")
}

func TestExampleConfigIsValid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runValidate(&buf, "../../config.yaml.example"))
	assert.Equal(t, "Configuration ../../config.yaml.example is valid\n", buf.String())
}

func TestRunServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runServe(ctx, "", "127.0.0.1:0", "1MiB", "error")
	assert.NoError(t, err)
}

func TestRunServeRejectsInvalidUploadSize(t *testing.T) {
	err := runServe(context.Background(), "", "127.0.0.1:0", "huge", "error")
	assert.Error(t, err)
}

func TestMissingConfigPointsAtExample(t *testing.T) {
	var buf bytes.Buffer
	err := runValidate(&buf, filepath.Join(t.TempDir(), "config.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml.example")
}
