package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Check id defaults
	if cfg.IDs.Random {
		t.Error("expected IDs.Random to be false by default")
	}
	if cfg.IDs.Min != 1 || cfg.IDs.Max != 32767 {
		t.Errorf("expected id range [1, 32767], got [%d, %d]", cfg.IDs.Min, cfg.IDs.Max)
	}
	if cfg.IDs.MaxAttempts != 1000 {
		t.Errorf("expected IDs.MaxAttempts to be 1000, got %d", cfg.IDs.MaxAttempts)
	}

	// Check format defaults
	if cfg.Format.DefineIDColumn != 40 {
		t.Errorf("expected Format.DefineIDColumn to be 40, got %d", cfg.Format.DefineIDColumn)
	}
	if cfg.Format.RCValueColumn != 28 {
		t.Errorf("expected Format.RCValueColumn to be 28, got %d", cfg.Format.RCValueColumn)
	}

	// Check header and encoding defaults
	if cfg.Headers.Primary != "resource.h" {
		t.Errorf("expected Headers.Primary to be 'resource.h', got %q", cfg.Headers.Primary)
	}
	if cfg.Encoding.FallbackCodepage != 1252 {
		t.Errorf("expected Encoding.FallbackCodepage to be 1252, got %d", cfg.Encoding.FallbackCodepage)
	}

	// Check output defaults
	if cfg.Output.Color != "auto" {
		t.Errorf("expected Output.Color to be 'auto', got %q", cfg.Output.Color)
	}

	// Check backup defaults
	if !cfg.Backup.Enabled {
		t.Error("expected Backup.Enabled to be true by default")
	}
	if cfg.Backup.MaxBackups != 10 {
		t.Errorf("expected Backup.MaxBackups to be 10, got %d", cfg.Backup.MaxBackups)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := Default()
	cfg.IDs.Random = true
	cfg.Format.DefineIDColumn = 32
	cfg.Backup.MaxAge = 2 * time.Hour
	cfg.Backup.MaxBackups = 20

	if err := cfg.SaveToPath(configPath); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}

	loaded, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if !loaded.IDs.Random {
		t.Error("expected IDs.Random to be true")
	}
	if loaded.Format.DefineIDColumn != 32 {
		t.Errorf("expected DefineIDColumn 32, got %d", loaded.Format.DefineIDColumn)
	}
	if loaded.Backup.MaxAge != 2*time.Hour {
		t.Errorf("expected MaxAge 2h, got %v", loaded.Backup.MaxAge)
	}
	if loaded.Backup.MaxBackups != 20 {
		t.Errorf("expected MaxBackups 20, got %d", loaded.Backup.MaxBackups)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		check    func(*Config) bool
	}{
		{
			name:     "ids random",
			envKey:   "RCSTRINGS_IDS_RANDOM",
			envValue: "yes",
			check:    func(c *Config) bool { return c.IDs.Random },
		},
		{
			name:     "ids max",
			envKey:   "RCSTRINGS_IDS_MAX",
			envValue: "500",
			check:    func(c *Config) bool { return c.IDs.Max == 500 },
		},
		{
			name:     "ids max ignores garbage",
			envKey:   "RCSTRINGS_IDS_MAX",
			envValue: "lots",
			check:    func(c *Config) bool { return c.IDs.Max == 32767 },
		},
		{
			name:     "define id column",
			envKey:   "RCSTRINGS_FORMAT_DEFINE_ID_COLUMN",
			envValue: "24",
			check:    func(c *Config) bool { return c.Format.DefineIDColumn == 24 },
		},
		{
			name:     "rc id comment",
			envKey:   "RCSTRINGS_FORMAT_RC_ID_COMMENT",
			envValue: "true",
			check:    func(c *Config) bool { return c.Format.RCIDComment },
		},
		{
			name:     "primary header",
			envKey:   "RCSTRINGS_HEADERS_PRIMARY",
			envValue: "strings.h",
			check:    func(c *Config) bool { return c.Headers.Primary == "strings.h" },
		},
		{
			name:     "fallback codepage",
			envKey:   "RCSTRINGS_ENCODING_FALLBACK_CODEPAGE",
			envValue: "1251",
			check:    func(c *Config) bool { return c.Encoding.FallbackCodepage == 1251 },
		},
		{
			name:     "backup enabled",
			envKey:   "RCSTRINGS_BACKUP_ENABLED",
			envValue: "no",
			check:    func(c *Config) bool { return !c.Backup.Enabled },
		},
		{
			name:     "backup max age",
			envKey:   "RCSTRINGS_BACKUP_MAX_AGE",
			envValue: "48h",
			check:    func(c *Config) bool { return c.Backup.MaxAge == 48*time.Hour },
		},
		{
			name:     "output color",
			envKey:   "RCSTRINGS_OUTPUT_COLOR",
			envValue: "never",
			check:    func(c *Config) bool { return c.Output.Color == "never" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envValue)

			cfg := Default()
			cfg.applyEnvironment()

			if !tt.check(cfg) {
				t.Errorf("environment override for %s did not apply correctly", tt.envKey)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"off", false},
		{"", false},
		{"invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseBool(tt.input)
			if result != tt.expected {
				t.Errorf("parseBool(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(*Config)
		wantErr bool
	}{
		"defaults":          {mutate: func(*Config) {}},
		"inverted range":    {mutate: func(c *Config) { c.IDs.Min, c.IDs.Max = 10, 5 }, wantErr: true},
		"negative min":      {mutate: func(c *Config) { c.IDs.Min = -1 }, wantErr: true},
		"no attempts":       {mutate: func(c *Config) { c.IDs.MaxAttempts = 0 }, wantErr: true},
		"zero column":       {mutate: func(c *Config) { c.Format.DefineIDColumn = 0 }, wantErr: true},
		"unknown codepage":  {mutate: func(c *Config) { c.Encoding.FallbackCodepage = 9999 }, wantErr: true},
		"cyrillic codepage": {mutate: func(c *Config) { c.Encoding.FallbackCodepage = 1251 }},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDerivedOptions(t *testing.T) {
	cfg := Default()
	cfg.IDs.Min = 100
	cfg.IDs.Max = 200
	cfg.Format.RCIDComment = true
	cfg.Format.DefineIDColumn = 30

	g := cfg.Generator()
	if g.Min != 100 || g.Max != 200 || g.MaxAttempts != 1000 {
		t.Errorf("Generator() = %+v", g)
	}
	if f := cfg.RCFormat(); !f.IDComment || f.ValueColumn != 28 {
		t.Errorf("RCFormat() = %+v", f)
	}
	if o := cfg.HeaderOptions(); o.IDColumn != 30 || o.FallbackCodepage != 1252 {
		t.Errorf("HeaderOptions() = %+v", o)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	tmpDir := t.TempDir()

	// Set RCSTRINGS_HOME to the temp dir to avoid touching real config
	t.Setenv("RCSTRINGS_HOME", tmpDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not fail for non-existent file: %v", err)
	}

	if cfg.Headers.Primary != "resource.h" {
		t.Errorf("expected default primary header, got %q", cfg.Headers.Primary)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// #nosec G306 - test file permissions are acceptable
	if err := os.WriteFile(configPath, []byte("invalid: yaml: content:"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFromPath(configPath)
	if err == nil {
		t.Error("LoadFromPath should fail for invalid YAML")
	}
}

func TestPartialConfigMerge(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	partialConfig := `
ids:
  random: true
  max: 999
`
	// #nosec G306 - test file permissions are acceptable
	if err := os.WriteFile(configPath, []byte(partialConfig), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if !cfg.IDs.Random || cfg.IDs.Max != 999 {
		t.Errorf("expected partial ids override, got %+v", cfg.IDs)
	}

	// Defaults should still be present for non-specified values
	if cfg.IDs.Min != 1 {
		t.Errorf("expected IDs.Min to retain default 1, got %d", cfg.IDs.Min)
	}
	if cfg.Backup.MaxBackups != 10 {
		t.Errorf("expected Backup.MaxBackups to retain default value 10, got %d", cfg.Backup.MaxBackups)
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("RCSTRINGS_HOME", tmpDir)

	if Exists() {
		t.Error("Exists() should return false for non-existent config")
	}

	if err := Default().Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if !Exists() {
		t.Error("Exists() should return true after Save()")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "config.yaml")); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}
