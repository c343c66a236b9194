// Package config provides configuration management for rcstrings.
// It supports YAML configuration files, environment variables, and sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/klauern/rcstrings/internal/header"
	"github.com/klauern/rcstrings/internal/ids"
	"github.com/klauern/rcstrings/internal/rcfile"
	"github.com/klauern/rcstrings/internal/textenc"
	"github.com/klauern/rcstrings/internal/util"
)

// Config represents the complete rcstrings configuration.
type Config struct {
	// IDs configures identifier generation for new entries
	IDs IDsConfig `yaml:"ids"`

	// Format configures how synthesized lines are laid out
	Format FormatConfig `yaml:"format"`

	// Headers configures header discovery
	Headers HeadersConfig `yaml:"headers"`

	// Encoding configures decoding of files without a BOM
	Encoding EncodingConfig `yaml:"encoding"`

	// Backup configures backup behavior
	Backup BackupConfig `yaml:"backup"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// IDsConfig holds identifier generation settings.
type IDsConfig struct {
	// Random draws ids from [Min, Max] instead of max+1
	Random bool `yaml:"random"`
	// Min is the lowest random id
	Min int `yaml:"min"`
	// Max is the highest random id
	Max int `yaml:"max"`
	// MaxAttempts bounds the number of random draws
	MaxAttempts int `yaml:"max_attempts"`
}

// FormatConfig holds layout settings for synthesized lines.
type FormatConfig struct {
	// DefineIDColumn is the column where a new #define's id starts
	DefineIDColumn int `yaml:"define_id_column"`
	// RCValueColumn is the column of a formatted entry's opening quote
	RCValueColumn int `yaml:"rc_value_column"`
	// RCIDComment appends "// ID" to new STRINGTABLE entries
	RCIDComment bool `yaml:"rc_id_comment"`
}

// HeadersConfig holds header discovery settings.
type HeadersConfig struct {
	// Primary is the base name of the header that owns new defines
	Primary string `yaml:"primary"`
}

// EncodingConfig holds text decoding settings.
type EncodingConfig struct {
	// FallbackCodepage decodes files that are neither UTF-8 nor UTF-16
	FallbackCodepage int `yaml:"fallback_codepage"`
}

// BackupConfig holds backup settings.
type BackupConfig struct {
	// Enabled enables automatic backups before files are rewritten
	Enabled bool `yaml:"enabled"`
	// Location is the backup directory path
	Location string `yaml:"location"`
	// MaxBackups is the maximum number of backups to keep per file
	MaxBackups int `yaml:"max_backups"`
	// MaxAge removes backups older than this (0 keeps all)
	MaxAge time.Duration `yaml:"max_age"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		IDs: IDsConfig{
			Random:      false,
			Min:         ids.DefaultMin,
			Max:         ids.DefaultMax,
			MaxAttempts: ids.DefaultMaxAttempts,
		},
		Format: FormatConfig{
			DefineIDColumn: header.DefaultIDColumn,
			RCValueColumn:  rcfile.DefaultValueColumn,
			RCIDComment:    false,
		},
		Headers: HeadersConfig{
			Primary: "resource.h",
		},
		Encoding: EncodingConfig{
			FallbackCodepage: textenc.DefaultCodepage,
		},
		Backup: BackupConfig{
			Enabled:    true,
			Location:   util.RcstringsBackupsPath(),
			MaxBackups: 10,
			MaxAge:     30 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.RcstringsConfigPath(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	configPath := FilePath()
	// #nosec G304 - configPath is constructed from trusted config directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults with environment overrides
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern RCSTRINGS_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	// Id settings
	if v := os.Getenv("RCSTRINGS_IDS_RANDOM"); v != "" {
		c.IDs.Random = parseBool(v)
	}
	setInt(&c.IDs.Min, "RCSTRINGS_IDS_MIN")
	setInt(&c.IDs.Max, "RCSTRINGS_IDS_MAX")
	setInt(&c.IDs.MaxAttempts, "RCSTRINGS_IDS_MAX_ATTEMPTS")

	// Format settings
	setInt(&c.Format.DefineIDColumn, "RCSTRINGS_FORMAT_DEFINE_ID_COLUMN")
	setInt(&c.Format.RCValueColumn, "RCSTRINGS_FORMAT_RC_VALUE_COLUMN")
	if v := os.Getenv("RCSTRINGS_FORMAT_RC_ID_COMMENT"); v != "" {
		c.Format.RCIDComment = parseBool(v)
	}

	// Header settings
	if v := os.Getenv("RCSTRINGS_HEADERS_PRIMARY"); v != "" {
		c.Headers.Primary = v
	}

	// Encoding settings
	setInt(&c.Encoding.FallbackCodepage, "RCSTRINGS_ENCODING_FALLBACK_CODEPAGE")

	// Backup settings
	if v := os.Getenv("RCSTRINGS_BACKUP_ENABLED"); v != "" {
		c.Backup.Enabled = parseBool(v)
	}
	if v := os.Getenv("RCSTRINGS_BACKUP_LOCATION"); v != "" {
		c.Backup.Location = v
	}
	setInt(&c.Backup.MaxBackups, "RCSTRINGS_BACKUP_MAX_BACKUPS")
	if v := os.Getenv("RCSTRINGS_BACKUP_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Backup.MaxAge = d
		}
	}

	// Output settings
	if v := os.Getenv("RCSTRINGS_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
}

// setInt overrides *dst with the integer value of env when it parses.
func setInt(dst *int, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		*dst = n
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// Validate checks that numeric settings are usable.
func (c *Config) Validate() error {
	if c.IDs.Min < 0 || c.IDs.Max < c.IDs.Min {
		return fmt.Errorf("ids: invalid range [%d, %d]", c.IDs.Min, c.IDs.Max)
	}
	if c.IDs.MaxAttempts <= 0 {
		return fmt.Errorf("ids: max_attempts must be positive, got %d", c.IDs.MaxAttempts)
	}
	if c.Format.DefineIDColumn <= 0 || c.Format.RCValueColumn <= 0 {
		return fmt.Errorf("format: columns must be positive")
	}
	if _, err := textenc.Codepage(c.Encoding.FallbackCodepage); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	return nil
}

// Generator returns the id generator described by the ids section.
func (c *Config) Generator() *ids.Generator {
	g := ids.NewGenerator()
	g.Min = c.IDs.Min
	g.Max = c.IDs.Max
	g.MaxAttempts = c.IDs.MaxAttempts
	return g
}

// RCFormat returns the layout for formatted STRINGTABLE entries.
func (c *Config) RCFormat() rcfile.Format {
	return rcfile.Format{ValueColumn: c.Format.RCValueColumn, IDComment: c.Format.RCIDComment}
}

// HeaderOptions returns the header synchronizer settings.
func (c *Config) HeaderOptions() header.Options {
	return header.Options{IDColumn: c.Format.DefineIDColumn, FallbackCodepage: c.Encoding.FallbackCodepage}
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
