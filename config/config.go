package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/filetree/internal/util"
)

// AuditMode selects what happens when the invariant checker finds a broken tree.
type AuditMode string

const (
	// AuditPanic halts with a panic after logging the diagnostic.
	AuditPanic AuditMode = "panic"
	// AuditLog only logs the diagnostic.
	AuditLog AuditMode = "log"
	// AuditOff skips the checker entirely.
	AuditOff AuditMode = "off"
)

// CLI verbosity values accepted by [ConfigOverride.LogLvl]
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl = util.InfoLevel

	DefaultAudit = AuditPanic

	// DefaultMaxNodes of 0 leaves the node arena unbounded
	DefaultMaxNodes = 0

	// DefaultChildCapacity is the initial children capacity of a new directory
	DefaultChildCapacity = 4
)

// Config contains runtime configuration values for a file tree.
type Config struct {
	LogLvl        util.LogLevel // Internal log level (Default info)
	Audit         AuditMode     // Invariant checker policy around mutations (Default panic)
	MaxNodes      int           // Maximum live nodes; allocation past it fails with a memory error. 0 = unlimited
	ChildCapacity int           // Initial children capacity for new directories (Default 4)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	// LogLvl is CLI-style verbosity between 1 (error) and 5 (trace), clamped
	LogLvl        *int       `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	Audit         *AuditMode `yaml:"audit,omitempty" json:"audit,omitempty"`
	MaxNodes      *int       `yaml:"max_nodes,omitempty" json:"max_nodes,omitempty"`
	ChildCapacity *int       `yaml:"child_capacity,omitempty" json:"child_capacity,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:        DefaultLogLvl,
		Audit:         DefaultAudit,
		MaxNodes:      DefaultMaxNodes,
		ChildCapacity: DefaultChildCapacity,
	}
}

// NewConfig creates a default Config and applies override, which may be nil.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// VerboseToLogLevel clamps a CLI verbosity into 1..5 and maps it to a log level.
func VerboseToLogLevel(verbose int) util.LogLevel {
	verbose = min(max(verbose, ErrorVerbose), TraceVerbose)
	logLvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return logLvls[verbose-1]
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLogLevel(*override.LogLvl)
	}
	if override.Audit != nil {
		c.Audit = *override.Audit
	}
	if override.MaxNodes != nil {
		c.MaxNodes = *override.MaxNodes
	}
	if override.ChildCapacity != nil {
		c.ChildCapacity = *override.ChildCapacity
	}
}

// Validate reports the first invalid field, if any.
func (c *Config) Validate() error {
	switch c.Audit {
	case AuditPanic, AuditLog, AuditOff:
	default:
		return fmt.Errorf("unknown audit mode: %q", c.Audit)
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must not be negative: %d", c.MaxNodes)
	}
	if c.ChildCapacity < 0 {
		return fmt.Errorf("child_capacity must not be negative: %d", c.ChildCapacity)
	}
	return nil
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewConfig(override)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}
