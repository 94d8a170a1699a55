package topology

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/rzpsarthak13/redisframe/internal/core"
)

// Discover resolves the current cluster topology by asking a seed node for
// its slot map (CLUSTER SLOTS). Every master inherits the seed's
// credentials and timeouts; cluster nodes always serve logical database 0.
// The returned snapshot is point-in-time: it is not refreshed if the
// cluster reshards afterwards.
func Discover(ctx context.Context, seed core.Endpoint) (*Topology, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         seed.Addr,
		Password:     seed.Password,
		DialTimeout:  seed.DialTimeout,
		ReadTimeout:  seed.ReadTimeout,
		WriteTimeout: seed.WriteTimeout,
	})
	defer client.Close()

	slots, err := client.ClusterSlots(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: cluster slots from %s: %v", core.ErrNodeUnavailable, seed.Addr, err)
	}

	// Fold slot ranges into one endpoint per master address. The first
	// node of each slot entry is the master; replicas are ignored since
	// the connector always talks to masters.
	byAddr := make(map[string]*core.Endpoint)
	var order []string
	for _, s := range slots {
		if len(s.Nodes) == 0 {
			continue
		}
		addr := s.Nodes[0].Addr
		ep, ok := byAddr[addr]
		if !ok {
			ep = &core.Endpoint{
				Addr:         addr,
				Password:     seed.Password,
				DialTimeout:  seed.DialTimeout,
				ReadTimeout:  seed.ReadTimeout,
				WriteTimeout: seed.WriteTimeout,
			}
			byAddr[addr] = ep
			order = append(order, addr)
		}
		ep.Slots = append(ep.Slots, core.SlotRange{Start: int(s.Start), End: int(s.End)})
	}

	endpoints := make([]core.Endpoint, 0, len(order))
	for _, addr := range order {
		endpoints = append(endpoints, *byAddr[addr])
	}

	log.Printf("[TOPOLOGY] Discovered %d master endpoint(s) via %s", len(endpoints), seed.Addr)
	return New(endpoints), nil
}
