package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up when no config file is named explicitly
const DefaultFile = "page-loader.yaml"

// Configuration holds the page loader settings
type Configuration struct {
	OutputDir    string        `yaml:"output"`
	Concurrency  int           `yaml:"concurrency"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	Render       bool          `yaml:"render"`
	RenderWait   time.Duration `yaml:"render_wait"`
	BrowserPath  string        `yaml:"browser_path"`
	LogLevel     string        `yaml:"log_level"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// Default returns the built-in configuration. OutputDir is left empty so
// the caller decides between the working directory and the library default.
func Default() Configuration {
	return Configuration{
		Concurrency:  8,
		Timeout:      30 * time.Second,
		UserAgent:    "page-loader/1.0",
		LogLevel:     "info",
		MaxBodyBytes: 50 << 20,
	}
}

// Load reads the YAML file at path over the defaults. A missing file is only
// an error when the user named it explicitly.
func Load(path string, explicit bool) (Configuration, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the loader cannot work with
func (c Configuration) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}
