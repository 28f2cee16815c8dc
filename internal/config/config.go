// Package config reads hunch.yaml, the optional project settings file
// looked up next to the program being checked or run.
//
//	logLevel: debug
//	logSections: [eval]
//	failOnWarnings: true
//	human:
//	  default: "yes"
//	random:
//	  value: 0.25
//	files:
//	  allow: [./data]
//	timeout: 5s
package config

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/cottand/hunch/internal/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the name Load looks for at the root of a filesystem
const FileName = "hunch.yaml"

type Config struct {
	LogLevel       string   `yaml:"logLevel,omitempty"`
	LogSections    []string `yaml:"logSections,omitempty"`
	FailOnWarnings bool     `yaml:"failOnWarnings,omitempty"`
	Human          Human    `yaml:"human,omitempty"`
	Random         Random   `yaml:"random,omitempty"`
	Files          Files    `yaml:"files,omitempty"`
	// Timeout bounds hunch run, zero means no bound
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

type Human struct {
	// Default answers ask calls that carry no fallback
	Default string `yaml:"default,omitempty"`
}

type Random struct {
	Value *float64 `yaml:"value,omitempty"`
}

type Files struct {
	// Allow lists the directories readFile may read from, relative to the project
	Allow []string `yaml:"allow,omitempty"`
}

// DefaultRandom is what random() returns when hunch.yaml does not say otherwise
const DefaultRandom = 0.5

func Default() *Config {
	return &Config{LogLevel: "warn"}
}

// Load reads FileName from fsys. A missing file is not an error, and yields Default().
func Load(fsys fs.FS) (*Config, error) {
	data, err := fs.ReadFile(fsys, FileName)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", FileName)
	}
	return Parse(data)
}

// Parse decodes hunch.yaml content. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "parsing %s", FileName)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", FileName)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if v := c.Random.Value; v != nil && (*v < 0 || *v >= 1) {
		return errors.Errorf("random.value must be in [0, 1), got %v", *v)
	}
	if c.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	return nil
}

func (c *Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	l, err := log.ParseLevel(c.LogLevel)
	return l, errors.Wrapf(err, "logLevel")
}

// RandomValue is random.value, or DefaultRandom
func (c *Config) RandomValue() float64 {
	if c.Random.Value == nil {
		return DefaultRandom
	}
	return *c.Random.Value
}

// Apply sets the process-wide logging settings
func (c *Config) Apply() error {
	l, err := c.Level()
	if err != nil {
		return err
	}
	log.SetLevel(l)
	if len(c.LogSections) > 0 {
		log.EnableSections(c.LogSections...)
	}
	return nil
}
