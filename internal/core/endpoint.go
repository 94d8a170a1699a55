package core

import "time"

// SlotCount is the fixed number of key hash slots in a Redis cluster.
const SlotCount = 16384

// SlotRange is an inclusive range of hash slots served by one endpoint.
type SlotRange struct {
	// Start is the first slot of the range.
	Start int

	// End is the last slot of the range (inclusive).
	End int
}

// Contains reports whether the given slot falls inside the range.
func (r SlotRange) Contains(slot int) bool {
	return slot >= r.Start && slot <= r.End
}

// Endpoint describes one reachable node of the backing key-value store
// cluster together with its connection parameters and the slot ranges it
// masters. Endpoints are supplied once at connector construction and are
// immutable thereafter.
type Endpoint struct {
	// Addr is the host:port address of the node.
	Addr string

	// Password is the authentication password, if any.
	Password string

	// DB is the logical database index. Only meaningful for standalone
	// nodes; cluster nodes always use database 0.
	DB int

	// DialTimeout is the timeout for establishing connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for read operations.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for write operations.
	WriteTimeout time.Duration

	// Slots are the hash slot ranges this endpoint masters.
	Slots []SlotRange
}

// ID returns a stable identifier for the endpoint, used as a grouping key.
func (e Endpoint) ID() string {
	return e.Addr
}

// Owns reports whether the endpoint masters the given hash slot.
func (e Endpoint) Owns(slot int) bool {
	for _, r := range e.Slots {
		if r.Contains(slot) {
			return true
		}
	}
	return false
}
