// Package topology models the Endpoint Directory: the point-in-time set of
// reachable store nodes and the slot ownership function they implement.
// A Topology is an immutable snapshot. If nodes are added or removed after
// a snapshot is taken, operations routed against it may target stale
// endpoints; that race is accepted, not corrected by retry.
package topology

import (
	"github.com/rzpsarthak13/redisframe/internal/core"
)

// Topology is an immutable snapshot of the known endpoints and a
// precomputed slot-to-owner table.
type Topology struct {
	endpoints []core.Endpoint
	owners    []int // slot -> index into endpoints, -1 if unowned
}

// New builds a topology snapshot from the given endpoints. Later endpoints
// win when slot ranges overlap, matching the store's own view that a slot
// has exactly one master.
func New(endpoints []core.Endpoint) *Topology {
	t := &Topology{
		endpoints: append([]core.Endpoint(nil), endpoints...),
		owners:    make([]int, core.SlotCount),
	}
	for i := range t.owners {
		t.owners[i] = -1
	}
	for i, ep := range t.endpoints {
		for _, r := range ep.Slots {
			for s := r.Start; s <= r.End && s < core.SlotCount; s++ {
				t.owners[s] = i
			}
		}
	}
	return t
}

// Standalone builds a single-node topology where the endpoint masters the
// entire slot space. Used for non-cluster deployments.
func Standalone(ep core.Endpoint) *Topology {
	ep.Slots = []core.SlotRange{{Start: 0, End: core.SlotCount - 1}}
	return New([]core.Endpoint{ep})
}

// Endpoints returns the endpoints in the snapshot.
func (t *Topology) Endpoints() []core.Endpoint {
	return t.endpoints
}

// Owner returns the endpoint mastering the given slot, or false if no
// known endpoint serves it.
func (t *Topology) Owner(slot int) (core.Endpoint, bool) {
	if slot < 0 || slot >= core.SlotCount {
		return core.Endpoint{}, false
	}
	idx := t.owners[slot]
	if idx < 0 {
		return core.Endpoint{}, false
	}
	return t.endpoints[idx], true
}

// Empty reports whether the snapshot holds no endpoints.
func (t *Topology) Empty() bool {
	return len(t.endpoints) == 0
}
