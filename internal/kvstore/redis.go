package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rzpsarthak13/redisframe/internal/core"
)

// RedisDialer implements core.Dialer using go-redis. Each Dial opens a
// dedicated client for one endpoint; the executor closes it as soon as the
// batch completes, so the pool is kept minimal.
type RedisDialer struct{}

// NewRedisDialer creates a new Redis dialer.
func NewRedisDialer() *RedisDialer {
	return &RedisDialer{}
}

// Dial opens a connection to the endpoint. Reachability is verified up
// front with a PING so that network failures surface as ErrNodeUnavailable
// rather than as per-command errors mid-batch.
func (d *RedisDialer) Dial(ctx context.Context, ep core.Endpoint) (core.Conn, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         ep.Addr,
		Password:     ep.Password,
		DB:           ep.DB,
		PoolSize:     1,
		DialTimeout:  ep.DialTimeout,
		ReadTimeout:  ep.ReadTimeout,
		WriteTimeout: ep.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s: %v", core.ErrNodeUnavailable, ep.Addr, err)
	}

	return &redisConn{client: client, addr: ep.Addr}, nil
}

// redisConn is a scoped connection to one Redis endpoint.
type redisConn struct {
	client *redis.Client
	addr   string
}

// PipelineGet issues one GET per key on a single pipeline and returns the
// values in submission order. Missing keys yield nil entries.
func (c *redisConn) PipelineGet(ctx context.Context, keys []string) ([][]byte, error) {
	pipe := c.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: pipelined GET on %s: %v", core.ErrOperationFailed, c.addr, err)
	}

	values := make([][]byte, len(keys))
	for i, cmd := range cmds {
		val, err := cmd.Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: GET %s on %s: %v", core.ErrOperationFailed, keys[i], c.addr, err)
		}
		values[i] = val
	}
	return values, nil
}

// PipelineSet issues one SET per pair on a single pipeline.
func (c *redisConn) PipelineSet(ctx context.Context, pairs []core.KV) error {
	pipe := c.client.Pipeline()
	for _, kv := range pairs {
		pipe.Set(ctx, kv.Key, kv.Value, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: pipelined SET on %s: %v", core.ErrOperationFailed, c.addr, err)
	}
	return nil
}

// PipelineDel issues one DEL per key on a single pipeline. One DEL per key
// keeps the batch valid on cluster nodes, which reject cross-slot
// multi-key commands even on direct connections.
func (c *redisConn) PipelineDel(ctx context.Context, keys []string) error {
	pipe := c.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: pipelined DEL on %s: %v", core.ErrOperationFailed, c.addr, err)
	}
	return nil
}

// ScanKeys walks the endpoint's keyspace with SCAN MATCH and returns all
// keys matching the glob pattern.
func (c *redisConn) ScanKeys(ctx context.Context, pattern string, count int64) ([]string, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, count).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: SCAN %q on %s: %v", core.ErrOperationFailed, pattern, c.addr, err)
	}
	return keys, nil
}

// Close releases the connection.
func (c *redisConn) Close() error {
	return c.client.Close()
}

// RedisDialerFactory implements the DialerFactory interface for Redis.
type RedisDialerFactory struct{}

// Type returns the type identifier for this factory.
func (f *RedisDialerFactory) Type() string {
	return "redis"
}

// Create creates a new Redis dialer instance.
func (f *RedisDialerFactory) Create() (core.Dialer, error) {
	return NewRedisDialer(), nil
}

// init auto-registers the Redis factory on package initialization.
func init() {
	RegisterFactory(&RedisDialerFactory{})
}
