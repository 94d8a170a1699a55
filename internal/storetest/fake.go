// Package storetest provides an in-memory core.Dialer implementation for
// exercising the routing and orchestration layers without a live store.
// Each fake endpoint holds its own keyspace and rejects commands for keys
// whose slot it does not own, so misrouted batches fail the way a cluster
// node would.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rzpsarthak13/redisframe/internal/core"
	"github.com/rzpsarthak13/redisframe/internal/router"
	"github.com/rzpsarthak13/redisframe/internal/topology"
)

// Store is a fake cluster: one in-memory keyspace per endpoint.
type Store struct {
	mu   sync.Mutex
	topo *topology.Topology
	data map[string]map[string][]byte // endpoint ID -> key -> value

	// FailDial marks endpoint IDs whose Dial calls fail, simulating an
	// unreachable node.
	FailDial map[string]bool

	// SloppyScan makes ScanKeys ignore the glob and return every key on
	// the endpoint, simulating naive enumeration that surfaces the
	// schema key alongside data keys.
	SloppyScan bool

	// DialCount counts successful dials.
	DialCount int

	// OpenConns tracks currently open connections; zero after an
	// operation proves scoped acquisition and release.
	OpenConns int
}

// New creates a fake store for the given topology.
func New(topo *topology.Topology) *Store {
	s := &Store{
		topo:     topo,
		data:     make(map[string]map[string][]byte),
		FailDial: make(map[string]bool),
	}
	for _, ep := range topo.Endpoints() {
		s.data[ep.ID()] = make(map[string][]byte)
	}
	return s
}

// Dial implements core.Dialer.
func (s *Store) Dial(ctx context.Context, ep core.Endpoint) (core.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDial[ep.ID()] {
		return nil, fmt.Errorf("%w: %s: dial refused", core.ErrNodeUnavailable, ep.ID())
	}
	if _, ok := s.data[ep.ID()]; !ok {
		return nil, fmt.Errorf("%w: %s: unknown endpoint", core.ErrNodeUnavailable, ep.ID())
	}
	s.DialCount++
	s.OpenConns++
	return &conn{store: s, ep: ep}, nil
}

// PutRouted seeds a value under the endpoint that owns the key's slot.
func (s *Store) PutRouted(key string, value []byte) error {
	ep, err := router.Route(s.topo, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ep.ID()][key] = value
	return nil
}

// Keys returns the sorted keys currently held by the endpoint.
func (s *Store) Keys(endpointID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data[endpointID]))
	for key := range s.data[endpointID] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// AllKeys returns the sorted keys across all endpoints.
func (s *Store) AllKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for _, kv := range s.data {
		for key := range kv {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// conn is a scoped connection to one fake endpoint.
type conn struct {
	store  *Store
	ep     core.Endpoint
	closed bool
}

func (c *conn) owns(key string) error {
	if !c.ep.Owns(router.Slot(key)) {
		return fmt.Errorf("%w: key %q does not route to %s", core.ErrOperationFailed, key, c.ep.ID())
	}
	return nil
}

func (c *conn) PipelineGet(ctx context.Context, keys []string) ([][]byte, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	values := make([][]byte, len(keys))
	for i, key := range keys {
		if err := c.owns(key); err != nil {
			return nil, err
		}
		if value, ok := c.store.data[c.ep.ID()][key]; ok {
			values[i] = append([]byte(nil), value...)
		}
	}
	return values, nil
}

func (c *conn) PipelineSet(ctx context.Context, pairs []core.KV) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	for _, kv := range pairs {
		if err := c.owns(kv.Key); err != nil {
			return err
		}
		c.store.data[c.ep.ID()][kv.Key] = append([]byte(nil), kv.Value...)
	}
	return nil
}

func (c *conn) PipelineDel(ctx context.Context, keys []string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	for _, key := range keys {
		if err := c.owns(key); err != nil {
			return err
		}
		delete(c.store.data[c.ep.ID()], key)
	}
	return nil
}

func (c *conn) ScanKeys(ctx context.Context, pattern string, count int64) ([]string, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range c.store.data[c.ep.ID()] {
		if c.store.SloppyScan || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (c *conn) Close() error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.store.OpenConns--
	}
	return nil
}

// ClusterTopology builds a topology that splits the slot space evenly
// across the given addresses.
func ClusterTopology(addrs ...string) *topology.Topology {
	endpoints := make([]core.Endpoint, len(addrs))
	per := core.SlotCount / len(addrs)
	for i, addr := range addrs {
		start := i * per
		end := start + per - 1
		if i == len(addrs)-1 {
			end = core.SlotCount - 1
		}
		endpoints[i] = core.Endpoint{
			Addr:  addr,
			Slots: []core.SlotRange{{Start: start, End: end}},
		}
	}
	return topology.New(endpoints)
}
