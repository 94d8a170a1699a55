// Package redisframe exposes a table abstraction backed by a distributed
// key-value store. Rows are serialized and scattered across the cluster
// under generated keys; the table schema lives under one well-known key.
//
// Typical usage:
//
//	config := redisframe.DefaultConfig()
//	config.Table = "users"
//	config.Store.Addr = "localhost:6379"
//
//	tbl, _ := redisframe.Open(ctx, config)
//	_ = tbl.Insert(ctx, rows, false)
//	rows, unhandled, _ := tbl.Scan(ctx, nil, nil)
package redisframe

import (
	"context"
	"fmt"

	"github.com/rzpsarthak13/redisframe/internal/core"
	"github.com/rzpsarthak13/redisframe/internal/exec"
	"github.com/rzpsarthak13/redisframe/internal/kvstore"
	"github.com/rzpsarthak13/redisframe/internal/table"
	"github.com/rzpsarthak13/redisframe/internal/topology"
)

// Option overrides configuration when opening a table.
type Option func(*Config)

// WithSchema declares the table schema explicitly instead of inferring it
// from row data on insert.
func WithSchema(schema *Schema) Option {
	return func(config *Config) {
		config.Schema = schema
	}
}

// WithUnits sets the number of execution units rows and keys are
// partitioned across.
func WithUnits(units int) Option {
	return func(config *Config) {
		config.Units = units
	}
}

// WithScanCount sets the COUNT hint for keyspace discovery scans.
func WithScanCount(count int64) Option {
	return func(config *Config) {
		config.ScanCount = count
	}
}

// WithWriteRate caps pipelined write commands per second.
func WithWriteRate(opsPerSec int) Option {
	return func(config *Config) {
		config.WriteRate = opsPerSec
	}
}

// Open binds a table connector to the configured store. In cluster mode
// the topology is discovered once from the seed node; the snapshot is not
// refreshed afterwards, so resharding during the connector's lifetime may
// route operations to stale endpoints.
func Open(ctx context.Context, config *Config, opts ...Option) (Table, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	for _, opt := range opts {
		opt(config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	seed := core.Endpoint{
		Addr:         config.Store.Addr,
		Password:     config.Store.Password,
		DB:           config.Store.DB,
		DialTimeout:  config.Store.DialTimeout,
		ReadTimeout:  config.Store.ReadTimeout,
		WriteTimeout: config.Store.WriteTimeout,
	}

	var (
		topo *topology.Topology
		err  error
	)
	if config.Store.ClusterMode {
		seed.DB = 0 // cluster nodes only serve database 0
		topo, err = topology.Discover(ctx, seed)
		if err != nil {
			return nil, err
		}
	} else {
		topo = topology.Standalone(seed)
	}

	dialer, err := kvstore.NewDialer(config.Store.Type)
	if err != nil {
		return nil, err
	}

	var executor *exec.Executor
	if config.WriteRate > 0 {
		executor = exec.NewThrottled(dialer, config.WriteRate)
	} else {
		executor = exec.New(dialer)
	}

	return table.New(config.Table, topo, executor, table.Options{
		DeclaredSchema: config.Schema,
		Units:          config.Units,
		ScanCount:      config.ScanCount,
	}), nil
}
