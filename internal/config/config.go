// Package config loads and validates run configuration for the
// synthesizer. A run can be described entirely by CLI flags; a YAML
// file covers the same surface for scripted sweeps, with flags taking
// precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xdefago/synth-light/pkg/lights"
)

// Model describes the robot model a run searches.
type Model struct {
	LightClass string `yaml:"light_class"`         // full, internal or external
	NumColors  int    `yaml:"num_colors"`          // 1..5
	ClassL     bool   `yaml:"class_l,omitempty"`   // position-oblivious algorithms
	Scheduler  string `yaml:"scheduler,omitempty"` // defaults to async
	Rigid      bool   `yaml:"rigid,omitempty"`     // rigid movement restriction
	QuasiSS    bool   `yaml:"quasi_ss,omitempty"`  // quasi self-stabilizing restriction
}

// Run describes how the search executes.
type Run struct {
	Sequential    bool          `yaml:"sequential,omitempty"`
	Workers       int           `yaml:"workers,omitempty"` // 0 = all cores
	RetainRule    bool          `yaml:"retain_rule,omitempty"`
	WeakFilter    bool          `yaml:"weak_filter,omitempty"`
	StrictMoves   bool          `yaml:"strict_moves,omitempty"`
	Workspace     string        `yaml:"workspace,omitempty"` // caller-designated scratch directory
	Ramdisk       bool          `yaml:"ramdisk,omitempty"`   // try a fast in-memory mount
	KeepTrails    bool          `yaml:"keep_trails,omitempty"`
	Deterministic bool          `yaml:"deterministic,omitempty"` // stable-sort the report by code
	Timeout       time.Duration `yaml:"timeout,omitempty"`       // per-checker ceiling, 0 = none
	OutputDir     string        `yaml:"output_dir,omitempty"`
	RedisURL      string        `yaml:"redis_url,omitempty"` // optional verdict store
}

// Config is the top-level run configuration.
type Config struct {
	Model Model `yaml:"model"`
	Run   Run   `yaml:"run,omitempty"`
}

// Validate performs strict validation of the configuration. Invalid
// configurations are fatal before any work starts.
func (c *Config) Validate() error {
	if _, err := lights.ParseModelKind(c.Model.LightClass); err != nil {
		return err
	}
	if c.Model.NumColors < 1 || c.Model.NumColors > lights.MaxColors {
		return fmt.Errorf("num_colors out of range: %d (supported: 1..%d)", c.Model.NumColors, lights.MaxColors)
	}
	if c.Model.Scheduler == "" {
		c.Model.Scheduler = string(lights.Async)
	}
	if _, err := lights.ParseScheduler(c.Model.Scheduler); err != nil {
		return err
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (0 = all cores), got %d", c.Run.Workers)
	}
	if c.Run.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Run.Timeout)
	}
	return nil
}

// Kind returns the model kind of a validated configuration.
func (c *Config) Kind() lights.ModelKind {
	k, _ := lights.ParseModelKind(c.Model.LightClass)
	return k
}

// Sched returns the scheduler of a validated configuration.
func (c *Config) Sched() lights.Scheduler {
	s, _ := lights.ParseScheduler(c.Model.Scheduler)
	return s
}

// Load reads and validates a YAML run configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ReportName derives the default report file name from the run
// parameters, e.g. "parout_L_full_2_async-lc-atomic_rigid.txt".
func (c *Config) ReportName() string {
	prefix := "parout"
	if c.Run.Sequential {
		prefix = "output"
	}
	var b strings.Builder
	b.WriteString(prefix)
	if c.Model.ClassL {
		b.WriteString("_L")
	}
	fmt.Fprintf(&b, "_%s_%d_%s", c.Kind(), c.Model.NumColors, c.Sched())
	if c.Model.Rigid {
		b.WriteString("_rigid")
	}
	if c.Model.QuasiSS {
		b.WriteString("_qss")
	}
	b.WriteString(".txt")
	return b.String()
}
