// Package config loads the pool settings file used by poolctl and by
// daemons that embed the pool.
//
// YAML (.yaml, .yml) is decoded with gopkg.in/yaml.v3. JSON files may carry
// comments and trailing commas (.json, .jsonc); github.com/tidwall/jsonc
// strips those before encoding/json decodes the result. Fields missing from
// the file keep their Default values. Unknown fields are an error.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/portpool/internal/logger"
	"github.com/joshuapare/portpool/pool"
	"github.com/joshuapare/portpool/pool/port"
	"github.com/joshuapare/portpool/pool/segment"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the top level of the settings file.
type Config struct {
	Segment             Segment    `yaml:"segment" json:"segment"`
	Capacities          Capacities `yaml:"capacities" json:"capacities"`
	SubscriberQueueType string     `yaml:"subscriber_queue_type" json:"subscriber_queue_type"`
	Log                 Log        `yaml:"log" json:"log"`
}

// Segment names the shared memory file.
type Segment struct {
	Name string `yaml:"name" json:"name"`
	// Dir defaults to segment.DefaultDir when empty.
	Dir string `yaml:"dir" json:"dir"`
}

// Capacities mirrors pool.Capacities with file tags.
type Capacities struct {
	Publishers         int `yaml:"publishers" json:"publishers"`
	Subscribers        int `yaml:"subscribers" json:"subscribers"`
	Senders            int `yaml:"senders" json:"senders"`
	Receivers          int `yaml:"receivers" json:"receivers"`
	Interfaces         int `yaml:"interfaces" json:"interfaces"`
	Applications       int `yaml:"applications" json:"applications"`
	Runnables          int `yaml:"runnables" json:"runnables"`
	ConditionVariables int `yaml:"condition_variables" json:"condition_variables"`
}

// Log configures internal/logger.
type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	caps := pool.DefaultCapacities()
	return &Config{
		Segment: Segment{Name: "roudi"},
		Capacities: Capacities{
			Publishers:         caps.Publishers,
			Subscribers:        caps.Subscribers,
			Senders:            caps.Senders,
			Receivers:          caps.Receivers,
			Interfaces:         caps.Interfaces,
			Applications:       caps.Applications,
			Runnables:          caps.Runnables,
			ConditionVariables: caps.ConditionVariables,
		},
		SubscriberQueueType: port.MultiProducer.String(),
		Log:                 Log{Level: "info", Format: "text"},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(raw, cfg)
	case ".json", ".jsonc":
		err = decodeJSON(raw, cfg)
	default:
		return nil, fmt.Errorf("config: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	logger.Debug("config loaded", "path", path, "segment", cfg.Segment.Name)
	return cfg, nil
}

func decodeYAML(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeJSON(raw []byte, cfg *Config) error {
	clean := jsonc.ToJSON(raw)
	if len(bytes.TrimSpace(clean)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(clean))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Validate checks names, limits, the queue type and the log settings.
func (c *Config) Validate() error {
	if c.Segment.Name == "" || strings.ContainsRune(c.Segment.Name, filepath.Separator) {
		return fmt.Errorf("%w: segment name %q", ErrInvalid, c.Segment.Name)
	}
	if err := c.PoolCapacities().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, ok := port.ParseQueueType(c.SubscriberQueueType); !ok {
		return fmt.Errorf("%w: subscriber queue type %q", ErrInvalid, c.SubscriberQueueType)
	}
	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// SegmentPath returns the file the segment lives in.
func (c *Config) SegmentPath() string {
	return segment.PathFor(c.Segment.Dir, c.Segment.Name)
}

// QueueType returns the subscriber queue type. An invalid value yields
// port.MultiProducer; Validate reports it.
func (c *Config) QueueType() port.QueueType {
	q, ok := port.ParseQueueType(c.SubscriberQueueType)
	if !ok {
		return port.MultiProducer
	}
	return q
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	l, _ := logger.ParseLevel(c.Log.Level)
	return l
}

// PoolCapacities converts the file limits.
func (c *Config) PoolCapacities() pool.Capacities {
	return pool.Capacities{
		Publishers:         c.Capacities.Publishers,
		Subscribers:        c.Capacities.Subscribers,
		Senders:            c.Capacities.Senders,
		Receivers:          c.Capacities.Receivers,
		Interfaces:         c.Capacities.Interfaces,
		Applications:       c.Capacities.Applications,
		Runnables:          c.Capacities.Runnables,
		ConditionVariables: c.Capacities.ConditionVariables,
	}
}

// PoolOptions returns the facade options the file selects.
func (c *Config) PoolOptions() []pool.Option {
	return []pool.Option{pool.WithSubscriberQueueType(c.QueueType())}
}

// LoggerOptions returns settings for logger.Init. Logging is enabled only
// when verbose is set.
func (c *Config) LoggerOptions(verbose bool, w io.Writer) logger.Options {
	return logger.Options{
		Enabled: verbose,
		Writer:  w,
		Level:   c.SlogLevel(),
		Format:  c.Log.Format,
	}
}
