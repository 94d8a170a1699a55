package table

import (
	"context"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rzpsarthak13/redisframe/internal/codec"
	"github.com/rzpsarthak13/redisframe/internal/core"
	"github.com/rzpsarthak13/redisframe/internal/exec"
	"github.com/rzpsarthak13/redisframe/internal/keyspace"
	"github.com/rzpsarthak13/redisframe/internal/router"
	"github.com/rzpsarthak13/redisframe/internal/schemastore"
	"github.com/rzpsarthak13/redisframe/internal/topology"
)

// Reader orchestrates scans: per-endpoint key discovery, schema-key
// exclusion, grouped pipelined reads, and row decoding.
type Reader struct {
	table     string
	topo      *topology.Topology
	executor  *exec.Executor
	schemas   *schemastore.Store
	units     int
	scanCount int64
}

// NewReader creates a reader for one table against a topology snapshot.
func NewReader(table string, topo *topology.Topology, executor *exec.Executor, schemas *schemastore.Store, units int, scanCount int64) *Reader {
	if units < 1 {
		units = 1
	}
	return &Reader{
		table:     table,
		topo:      topo,
		executor:  executor,
		schemas:   schemas,
		units:     units,
		scanCount: scanCount,
	}
}

// Scan returns every row of the table. Rows carry no ordering guarantee,
// across or within endpoints.
func (r *Reader) Scan(ctx context.Context) ([]core.Row, error) {
	schema, err := r.schemas.Load(ctx, r.topo, r.table)
	if err != nil {
		return nil, err
	}
	keys, err := r.discoverKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	rc := codec.NewRowCodec(schema)
	var (
		mu   sync.Mutex
		rows []core.Row
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, unit := range splitUnits(keys, r.units) {
		unit := unit
		g.Go(func() error {
			unitRows, err := r.readUnit(ctx, rc, unit)
			if err != nil {
				return err
			}
			mu.Lock()
			rows = append(rows, unitRows...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("[READER:%s] Scanned %d row(s) from %d key(s)", r.table, len(rows), len(keys))
	return rows, nil
}

// UnitScan fetches one execution unit's slice of the table. Each call
// independently re-runs discovery and fetch, so a unit can be re-iterated
// against current store state.
type UnitScan func(ctx context.Context) ([]core.Row, error)

// ScanUnits returns one restartable UnitScan per execution unit. Units
// share nothing; a data-parallel host can run each on its own worker.
func (r *Reader) ScanUnits() []UnitScan {
	scans := make([]UnitScan, r.units)
	for i := range scans {
		idx := i
		scans[idx] = func(ctx context.Context) ([]core.Row, error) {
			schema, err := r.schemas.Load(ctx, r.topo, r.table)
			if err != nil {
				return nil, err
			}
			keys, err := r.discoverKeys(ctx)
			if err != nil {
				return nil, err
			}
			units := splitUnits(keys, r.units)
			if idx >= len(units) {
				return nil, nil
			}
			return r.readUnit(ctx, codec.NewRowCodec(schema), units[idx])
		}
	}
	return scans
}

// IsEmpty reports whether no key matches the table's data-key pattern on
// any endpoint.
func (r *Reader) IsEmpty(ctx context.Context) (bool, error) {
	keys, err := r.discoverKeys(ctx)
	if err != nil {
		return false, err
	}
	return len(keys) == 0, nil
}

// discoverKeys enumerates the table's data keys across every endpoint,
// filtering out the schema key: schema and data share the table-name
// prefix, so enumeration must never let the schema value surface as a row.
// Keys are sorted so unit partitioning is stable for a fixed store state.
func (r *Reader) discoverKeys(ctx context.Context) ([]string, error) {
	pattern := keyspace.DataPattern(r.table)
	var (
		mu   sync.Mutex
		keys []string
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, ep := range r.topo.Endpoints() {
		ep := ep
		g.Go(func() error {
			found, err := r.executor.ScanKeys(ctx, ep, pattern, r.scanCount)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, key := range found {
				if keyspace.IsSchemaKey(r.table, key) {
					continue
				}
				keys = append(keys, key)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// readUnit fetches and decodes one unit's slice of keys: group by owning
// endpoint, one pipelined read per endpoint, decode each value. Nil values
// (keys deleted between discovery and read) are skipped.
func (r *Reader) readUnit(ctx context.Context, rc *codec.RowCodec, keys []string) ([]core.Row, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	group, err := router.GroupKeys(r.topo, keys)
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		rows []core.Row
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, ep := range group.Endpoints() {
		ep := ep
		g.Go(func() error {
			values, err := r.executor.ReadBatch(ctx, ep, group.Keys(ep))
			if err != nil {
				return err
			}
			decoded := make([]core.Row, 0, len(values))
			for _, value := range values {
				if value == nil {
					continue
				}
				row, err := rc.Decode(value)
				if err != nil {
					return err
				}
				decoded = append(decoded, row)
			}
			mu.Lock()
			rows = append(rows, decoded...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
