// Package router maps logical keys to the store endpoints that own them.
// Routing is a pure function of (key, topology snapshot): the key's
// hashtag is hashed with CRC16 modulo the slot count, and the snapshot's
// ownership table resolves the slot to its master endpoint.
package router

import (
	"fmt"
	"strings"

	"github.com/rzpsarthak13/redisframe/internal/core"
	"github.com/rzpsarthak13/redisframe/internal/topology"
)

// Slot returns the hash slot for a key, applying the cluster hashtag rule:
// if the key contains a non-empty substring between the first '{' and the
// first '}' after it, only that substring is hashed.
func Slot(key string) int {
	if open := strings.IndexByte(key, '{'); open >= 0 {
		if end := strings.IndexByte(key[open+1:], '}'); end > 0 {
			key = key[open+1 : open+1+end]
		}
	}
	return int(crc16([]byte(key))) % core.SlotCount
}

// Route returns the single endpoint that currently owns the key's slot.
// Fails with ErrTopologyUnavailable when the snapshot is empty or no
// endpoint serves the slot.
func Route(topo *topology.Topology, key string) (core.Endpoint, error) {
	if topo == nil || topo.Empty() {
		return core.Endpoint{}, fmt.Errorf("%w: cannot route key %q", core.ErrTopologyUnavailable, key)
	}
	slot := Slot(key)
	ep, ok := topo.Owner(slot)
	if !ok {
		return core.Endpoint{}, fmt.Errorf("%w: no endpoint owns slot %d for key %q", core.ErrTopologyUnavailable, slot, key)
	}
	return ep, nil
}

// Group partitions keys by owning endpoint. The returned map is keyed by
// endpoint ID; Endpoints returns the descriptor for each group. Key order
// within a group is not guaranteed to be meaningful.
type Group struct {
	endpoints map[string]core.Endpoint
	keys      map[string][]string
}

// GroupKeys partitions an arbitrary key sequence by owning endpoint.
func GroupKeys(topo *topology.Topology, keys []string) (*Group, error) {
	g := &Group{
		endpoints: make(map[string]core.Endpoint),
		keys:      make(map[string][]string),
	}
	for _, key := range keys {
		ep, err := Route(topo, key)
		if err != nil {
			return nil, err
		}
		id := ep.ID()
		if _, ok := g.endpoints[id]; !ok {
			g.endpoints[id] = ep
		}
		g.keys[id] = append(g.keys[id], key)
	}
	return g, nil
}

// Endpoints returns the endpoints that own at least one grouped key.
func (g *Group) Endpoints() []core.Endpoint {
	eps := make([]core.Endpoint, 0, len(g.endpoints))
	for _, ep := range g.endpoints {
		eps = append(eps, ep)
	}
	return eps
}

// Keys returns the keys owned by the given endpoint.
func (g *Group) Keys(ep core.Endpoint) []string {
	return g.keys[ep.ID()]
}

// Len returns the number of endpoint groups.
func (g *Group) Len() int {
	return len(g.keys)
}
