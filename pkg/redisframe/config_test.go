package redisframe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidateRequiresTable(t *testing.T) {
	config := DefaultConfig()
	err := config.Validate()
	if !errors.Is(err, ErrMissingTable) {
		t.Fatalf("Validate() = %v, want ErrMissingTable", err)
	}

	config.Table = "users"
	if err := config.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty store type", func(c *Config) { c.Store.Type = "" }},
		{"empty addr", func(c *Config) { c.Store.Addr = "" }},
		{"db too high", func(c *Config) { c.Store.DB = 16 }},
		{"negative db", func(c *Config) { c.Store.DB = -1 }},
		{"negative units", func(c *Config) { c.Units = -1 }},
		{"negative scan count", func(c *Config) { c.ScanCount = -1 }},
		{"negative write rate", func(c *Config) { c.WriteRate = -1 }},
	}
	for _, tt := range tests {
		config := DefaultConfig()
		config.Table = "users"
		tt.mutate(config)
		if err := config.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
table: users
store:
  type: redis
  addr: 10.0.0.1:7000
  cluster_mode: true
  dial_timeout: 2000000000 # nanoseconds
units: 4
write_rate: 500
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Table != "users" {
		t.Errorf("Table = %q, want %q", config.Table, "users")
	}
	if config.Store.Addr != "10.0.0.1:7000" {
		t.Errorf("Addr = %q, want %q", config.Store.Addr, "10.0.0.1:7000")
	}
	if !config.Store.ClusterMode {
		t.Error("ClusterMode = false, want true")
	}
	if config.Store.DialTimeout != 2*time.Second {
		t.Errorf("DialTimeout = %v, want 2s", config.Store.DialTimeout)
	}
	if config.Units != 4 {
		t.Errorf("Units = %d, want 4", config.Units)
	}
	if config.WriteRate != 500 {
		t.Errorf("WriteRate = %d, want 500", config.WriteRate)
	}
	// Unset fields keep their defaults.
	if config.ScanCount != 100 {
		t.Errorf("ScanCount = %d, want default 100", config.ScanCount)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOpenOptionsOverrideConfig(t *testing.T) {
	config := DefaultConfig()
	config.Table = "users"

	schema := &Schema{Fields: []Field{{Name: "id", Type: FieldInt}}}
	for _, opt := range []Option{WithSchema(schema), WithUnits(8), WithScanCount(500), WithWriteRate(250)} {
		opt(config)
	}

	if config.Schema != schema {
		t.Error("WithSchema did not apply")
	}
	if config.Units != 8 {
		t.Errorf("Units = %d, want 8", config.Units)
	}
	if config.ScanCount != 500 {
		t.Errorf("ScanCount = %d, want 500", config.ScanCount)
	}
	if config.WriteRate != 250 {
		t.Errorf("WriteRate = %d, want 250", config.WriteRate)
	}
}
