package fsutil

import (
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Config struct {
	DirMode     os.FileMode `yaml:"dirMode"`
	FileMode    os.FileMode `yaml:"fileMode"`
	Concurrency int         `yaml:"concurrency"` //<= 0 means unbounded
	LogLevel    string      `yaml:"logLevel"`
}

var activeConfig = defaultConfig

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() Config {
	return defaultConfig
}

// ActiveConfig returns the configuration currently used by the package.
func ActiveConfig() Config {
	return activeConfig
}

// LoadConfig reads a yaml config file on top of the defaults.
// An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := defaultConfig
	if path == "" {
		return config, nil
	}
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "error while reading config file: %s", path)
	}
	if err = yaml.Unmarshal(bytes, &config); err != nil {
		return Config{}, errors.Wrapf(err, "error while parsing config file: %s", path)
	}
	return config, nil
}

// Configure installs config as the active configuration and sets up the
// package logger. It is meant to be called once during startup.
func Configure(config Config) {
	if config.DirMode == 0 {
		config.DirMode = DefaultDirMode
	}
	if config.FileMode == 0 {
		config.FileMode = DefaultFileMode
	}
	activeConfig = config
	SetupLogger(config.LogLevel, os.Stderr)
}
