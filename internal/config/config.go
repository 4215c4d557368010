package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"eventcal/internal/cycle"
	"eventcal/internal/timer"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`

	// DataDir holds mutable state (the custom timer store).
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// TickSeconds is the chip re-evaluation interval.
	TickSeconds int `yaml:"tick_seconds" json:"tick_seconds"`

	// Reset overrides the daily/weekly reset anchors (UTC).
	Reset cycle.ResetConfig `yaml:"reset" json:"reset"`

	// Definitions are extra recurring timers appended to the built-ins.
	// Mostly useful for private servers with shifted event times.
	Definitions []timer.Definition `yaml:"definitions" json:"definitions"`

	// Events are the current limited-time content timers. These are
	// maintenance data: entries are added with each content drop and
	// pruned once expired.
	Events []timer.Event `yaml:"events" json:"events"`

	// BasicAuth, if non-nil, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		LogLevel:    "info",
		DataDir:     "/var/lib/eventcal",
		TickSeconds: 1,
		Reset:       cycle.DefaultResetConfig(),
		Definitions: []timer.Definition{},
		Events:      []timer.Event{},
		BasicAuth:   nil,
	}
}

// Normalize fills in missing/zero values so partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DataDir == "" {
		c.DataDir = "/var/lib/eventcal"
	}
	if c.TickSeconds <= 0 {
		c.TickSeconds = 1
	}

	defaults := cycle.DefaultResetConfig()
	if c.Reset.WeeklyWeekday < 1 || c.Reset.WeeklyWeekday > 7 {
		c.Reset.WeeklyWeekday = defaults.WeeklyWeekday
	}
	if c.Reset.DailyHour < 0 || c.Reset.DailyHour > 23 {
		c.Reset.DailyHour = defaults.DailyHour
	}
	if c.Reset.WeeklyHour < 0 || c.Reset.WeeklyHour > 23 {
		c.Reset.WeeklyHour = defaults.WeeklyHour
	}

	if c.Definitions == nil {
		c.Definitions = []timer.Definition{}
	}
	if c.Events == nil {
		c.Events = []timer.Event{}
	}
}

// Validate checks the schedules of any extra definitions. Built-ins are
// covered by their own tests; user-supplied YAML is not trusted.
func (c *Config) Validate() error {
	seen := make(map[string]struct{})
	for _, def := range c.Definitions {
		if def.ID == "" {
			return errors.New("config: definition with empty id")
		}
		if _, dup := seen[def.ID]; dup {
			return fmt.Errorf("config: duplicate definition id %q", def.ID)
		}
		seen[def.ID] = struct{}{}
		if err := def.Schedule.Validate(); err != nil {
			return fmt.Errorf("config: definition %q: %w", def.ID, err)
		}
	}
	for _, ev := range c.Events {
		if ev.ID == "" {
			return errors.New("config: event with empty id")
		}
		if ev.EndsAt.IsZero() {
			return fmt.Errorf("config: event %q has no ends_at", ev.ID)
		}
	}
	return nil
}

// Load loads configuration from the given YAML path. A missing file is
// created with defaults (0600) on first run.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
