package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/iwvelando/commitment-planner/internal/config"
	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/spf13/viper"
)

// Config defines runtime parameters for the plan API.
type Config struct {
	Address         string               `yaml:"address" mapstructure:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize" mapstructure:"maxUploadSize"`
	ScenarioLimit   int                  `yaml:"scenarioLimit" mapstructure:"scenarioLimit"`
	Logging         config.LoggingConfig `yaml:"logging" mapstructure:"logging"`
	uploadSizeBytes int64
}

// LoadConfig loads the server configuration from a YAML file and the
// COMMITMENT_PLANNER_* environment. A missing file leaves the defaults in place.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetDefault("address", constants.DefaultServerAddress)
	v.SetDefault("maxUploadSize", fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes))
	v.SetDefault("scenarioLimit", constants.DefaultScenarioConcurrency)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetEnvPrefix(constants.ServerEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read server config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode server config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = humanize.IBytes(uint64(size))
	}
}

func (c *Config) normalize() error {
	c.Address = strings.TrimSpace(c.Address)
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.ScenarioLimit < 0 {
		return fmt.Errorf("scenarioLimit must not be negative, got %d", c.ScenarioLimit)
	}
	if c.ScenarioLimit == 0 {
		c.ScenarioLimit = constants.DefaultScenarioConcurrency
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	c.uploadSizeBytes = size
	return nil
}

// ParseSize converts a byte string such as "256KiB" or "10 MB" into bytes.
// Decimal units are powers of 1000 and binary units powers of 1024. An empty
// or zero value yields the default upload size.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	size, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if size > math.MaxInt64 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	if size == 0 {
		return constants.DefaultMaxUploadSizeBytes, nil
	}
	return int64(size), nil
}
