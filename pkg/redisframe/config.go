package redisframe

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rzpsarthak13/redisframe/internal/core"
)

// Config represents the root configuration for a table connector.
type Config struct {
	// Table is the mandatory table identifier. Schema and data keys are
	// derived from it.
	Table string `yaml:"table" json:"table"`

	// Schema is the caller-declared table schema. When omitted, the
	// schema is inferred from row data on insert.
	Schema *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`

	// Store contains connection configuration for the key-value store.
	Store StoreConfig `yaml:"store" json:"store"`

	// Units is the number of independent execution units rows and
	// discovered keys are partitioned across.
	Units int `yaml:"units,omitempty" json:"units,omitempty"`

	// ScanCount is the COUNT hint passed to keyspace discovery scans.
	ScanCount int64 `yaml:"scan_count,omitempty" json:"scan_count,omitempty"`

	// WriteRate caps pipelined write commands per second across all
	// endpoints. Zero means unthrottled.
	WriteRate int `yaml:"write_rate,omitempty" json:"write_rate,omitempty"`
}

// StoreConfig contains configuration for the key-value store.
type StoreConfig struct {
	// Type specifies the store backend type. Currently supports "redis".
	Type string `yaml:"type" json:"type"`

	// Addr is the host:port of a store node. In cluster mode it is the
	// seed node used to discover the full topology.
	Addr string `yaml:"addr" json:"addr"`

	// ClusterMode indicates whether to discover a cluster topology from
	// the seed node. When false the node is treated as a standalone
	// owner of the entire keyspace.
	ClusterMode bool `yaml:"cluster_mode,omitempty" json:"cluster_mode,omitempty"`

	// Password is the authentication password, if any.
	Password string `yaml:"password,omitempty" json:"password,omitempty"`

	// DB is the logical database index (0-15). Only used in non-cluster
	// mode.
	DB int `yaml:"db,omitempty" json:"db,omitempty"`

	// DialTimeout is the timeout for establishing connections.
	DialTimeout time.Duration `yaml:"dial_timeout,omitempty" json:"dial_timeout,omitempty"`

	// ReadTimeout is the timeout for read operations.
	ReadTimeout time.Duration `yaml:"read_timeout,omitempty" json:"read_timeout,omitempty"`

	// WriteTimeout is the timeout for write operations.
	WriteTimeout time.Duration `yaml:"write_timeout,omitempty" json:"write_timeout,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Type:         "redis",
			Addr:         "localhost:6379",
			ClusterMode:  false,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Units:     1,
		ScanCount: 100,
	}
}

// LoadConfig reads a YAML configuration file, layered over defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Table == "" {
		return core.ErrMissingTable
	}
	if c.Store.Type == "" {
		return fmt.Errorf("store type is required")
	}
	if c.Store.Addr == "" {
		return fmt.Errorf("store addr is required")
	}
	if c.Store.DB < 0 || c.Store.DB > 15 {
		return fmt.Errorf("store db must be between 0 and 15, got: %d", c.Store.DB)
	}
	if c.Units < 0 {
		return fmt.Errorf("units must be non-negative, got: %d", c.Units)
	}
	if c.ScanCount < 0 {
		return fmt.Errorf("scan_count must be non-negative, got: %d", c.ScanCount)
	}
	if c.WriteRate < 0 {
		return fmt.Errorf("write_rate must be non-negative, got: %d", c.WriteRate)
	}
	return nil
}
