// Package schemastore persists and retrieves the table schema descriptor
// under its well-known key. The schema key routes like any other key, so
// save and load are degenerate single-key cases of the pipelined executor.
package schemastore

import (
	"context"
	"fmt"
	"log"

	"github.com/rzpsarthak13/redisframe/internal/codec"
	"github.com/rzpsarthak13/redisframe/internal/core"
	"github.com/rzpsarthak13/redisframe/internal/exec"
	"github.com/rzpsarthak13/redisframe/internal/keyspace"
	"github.com/rzpsarthak13/redisframe/internal/router"
	"github.com/rzpsarthak13/redisframe/internal/topology"
)

// Store saves and loads schema descriptors.
type Store struct {
	executor *exec.Executor
}

// New creates a schema store backed by the given executor.
func New(executor *exec.Executor) *Store {
	return &Store{executor: executor}
}

// Save writes the serialized schema as the value of the table's schema
// key, replacing any previous descriptor. Concurrent schema writers are
// not coordinated; the last write wins.
func (s *Store) Save(ctx context.Context, topo *topology.Topology, table string, schema *core.Schema) error {
	key := keyspace.SchemaKey(table)
	ep, err := router.Route(topo, key)
	if err != nil {
		return err
	}
	data, err := codec.EncodeSchema(schema)
	if err != nil {
		return err
	}
	if err := s.executor.WriteBatch(ctx, ep, []core.KV{{Key: key, Value: data}}); err != nil {
		return err
	}
	log.Printf("[SCHEMA] Saved schema for table %q (%d field(s))", table, len(schema.Fields))
	return nil
}

// Load reads and deserializes the table's schema descriptor. Fails with an
// error wrapping ErrSchemaNotFound when the key is absent.
func (s *Store) Load(ctx context.Context, topo *topology.Topology, table string) (*core.Schema, error) {
	key := keyspace.SchemaKey(table)
	ep, err := router.Route(topo, key)
	if err != nil {
		return nil, err
	}
	values, err := s.executor.ReadBatch(ctx, ep, []string{key})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 || values[0] == nil {
		return nil, fmt.Errorf("%w: table %q", core.ErrSchemaNotFound, table)
	}
	schema, err := codec.DecodeSchema(values[0])
	if err != nil {
		return nil, fmt.Errorf("corrupt schema for table %q: %w", table, err)
	}
	return schema, nil
}
