package core

import "context"

// KV is one key-value pair bound for a pipelined write batch.
type KV struct {
	Key   string
	Value []byte
}

// Conn is a single scoped connection to one store endpoint. Connections
// are acquired immediately before a batch and must be closed immediately
// after, on every exit path. All batch methods pipeline their commands:
// one flush per call, results in submission order.
type Conn interface {
	// PipelineGet issues one GET per key in order and returns the values
	// in the same order. Missing keys yield nil entries, not errors.
	PipelineGet(ctx context.Context, keys []string) ([][]byte, error)

	// PipelineSet issues one SET per pair in order.
	PipelineSet(ctx context.Context, pairs []KV) error

	// PipelineDel issues one DEL per key in order. Cluster nodes reject
	// cross-slot multi-key commands, so deletes are pipelined one key at
	// a time rather than as a single variadic DEL.
	PipelineDel(ctx context.Context, keys []string) error

	// ScanKeys enumerates keys on this endpoint matching the glob
	// pattern, walking the full keyspace cursor.
	ScanKeys(ctx context.Context, pattern string, count int64) ([]string, error)

	// Close releases the connection.
	Close() error
}

// Dialer opens connections to store endpoints. Implementations live in
// internal/kvstore; the core only consumes the interface so that routing
// and orchestration are testable without a live cluster.
type Dialer interface {
	// Dial opens a connection to the endpoint.
	Dial(ctx context.Context, ep Endpoint) (Conn, error)
}
