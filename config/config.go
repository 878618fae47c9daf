// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/pebble"
	"github.com/ava-labs/vaultvm/trace"
)

type Config struct {
	// Logging
	LogLevel          string `json:"logLevel" yaml:"logLevel"`
	LogDirectory      string `json:"logDirectory" yaml:"logDirectory"`
	LogMaxSize        int    `json:"logMaxSize" yaml:"logMaxSize"` // megabytes
	LogMaxFiles       int    `json:"logMaxFiles" yaml:"logMaxFiles"`
	LogMaxAge         int    `json:"logMaxAge" yaml:"logMaxAge"` // days
	LogCompress       bool   `json:"logCompress" yaml:"logCompress"`
	DisableLogDisplay bool   `json:"disableLogDisplay" yaml:"disableLogDisplay"`

	// Storage
	DataDirectory string        `json:"dataDirectory" yaml:"dataDirectory"`
	Pebble        pebble.Config `json:"pebble" yaml:"pebble"`

	// Tracing
	Trace trace.Config `json:"trace" yaml:"trace"`
}

func NewDefaultConfig() Config {
	return Config{
		LogLevel:          logging.Info.String(),
		LogDirectory:      "logs",
		LogMaxSize:        8,
		LogMaxFiles:       4,
		LogMaxAge:         7,
		DisableLogDisplay: true,
		DataDirectory:     "db",
		Pebble:            pebble.NewDefaultConfig(),
		Trace: trace.Config{
			Enabled:         false,
			TraceSampleRate: 0.1,
			AppName:         consts.Name,
			Agent:           consts.Name,
		},
	}
}

// New parses [b] over the defaults. YAML is used when [format] is "yaml" or
// "yml", JSON otherwise. Fields missing from [b] keep their default value.
func New(b []byte, format string) (Config, error) {
	c := NewDefaultConfig()
	if len(b) == 0 {
		return c, nil
	}
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.Unmarshal(b, &c)
	default:
		err = json.Unmarshal(b, &c)
	}
	if err != nil {
		return Config{}, err
	}
	if _, err := c.GetLogLevel(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the config file at [path]. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if len(path) == 0 {
		return NewDefaultConfig(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return New(b, strings.TrimPrefix(filepath.Ext(path), "."))
}

func (c *Config) GetLogLevel() (logging.Level, error) {
	return logging.ToLevel(c.LogLevel)
}

// LoggingConfig returns the avalanchego logging config rooted at
// [baseDir].
func (c *Config) LoggingConfig(baseDir string) (logging.Config, error) {
	level, err := c.GetLogLevel()
	if err != nil {
		return logging.Config{}, err
	}
	cfg := logging.Config{}
	cfg.LogLevel = level
	cfg.DisplayLevel = level
	cfg.LogFormat = logging.JSON
	cfg.Directory = resolve(baseDir, c.LogDirectory)
	cfg.MaxSize = c.LogMaxSize
	cfg.MaxFiles = c.LogMaxFiles
	cfg.MaxAge = c.LogMaxAge
	cfg.Compress = c.LogCompress
	cfg.DisableWriterDisplaying = c.DisableLogDisplay
	return cfg, nil
}

// DatabasePath returns the pebble directory rooted at [baseDir].
func (c *Config) DatabasePath(baseDir string) string {
	return resolve(baseDir, c.DataDirectory)
}

func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
