package table

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzpsarthak13/redisframe/internal/core"
	"github.com/rzpsarthak13/redisframe/internal/exec"
	"github.com/rzpsarthak13/redisframe/internal/keyspace"
	"github.com/rzpsarthak13/redisframe/internal/storetest"
	"github.com/rzpsarthak13/redisframe/internal/topology"
)

func usersSchema() *core.Schema {
	return &core.Schema{Fields: []core.Field{
		{Name: "id", Type: core.FieldInt},
		{Name: "name", Type: core.FieldString},
	}}
}

func newTestTable(t *testing.T, topo *topology.Topology, opts Options) (*TableImpl, *storetest.Store) {
	t.Helper()
	fake := storetest.New(topo)
	return New("users", topo, exec.New(fake), opts), fake
}

// canonical renders rows order-independently for multiset comparison.
func canonical(t *testing.T, rows []core.Row) []string {
	t.Helper()
	out := make([]string, len(rows))
	for i, row := range rows {
		data, err := json.Marshal(row)
		require.NoError(t, err)
		out[i] = string(data)
	}
	return out
}

func TestInsertScanRoundTrip(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379", "node2:6379", "node3:6379")
	tbl, fake := newTestTable(t, topo, Options{DeclaredSchema: usersSchema(), Units: 2})
	ctx := context.Background()

	rows1 := []core.Row{
		{"id": int64(1), "name": "a"},
		{"id": int64(2), "name": "b"},
	}
	require.NoError(t, tbl.Insert(ctx, rows1, false))

	got, unhandled, err := tbl.Scan(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, unhandled)
	assert.ElementsMatch(t, canonical(t, rows1), canonical(t, got))

	schema, err := tbl.Schema(ctx)
	require.NoError(t, err)
	assert.True(t, usersSchema().Equal(schema))

	// Overwrite leaves only the new rows visible.
	rows2 := []core.Row{{"id": int64(3), "name": "c"}}
	require.NoError(t, tbl.Insert(ctx, rows2, true))

	got, _, err = tbl.Scan(ctx, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, canonical(t, rows2), canonical(t, got))

	schema, err = tbl.Schema(ctx)
	require.NoError(t, err)
	assert.True(t, usersSchema().Equal(schema), "schema survives overwrite")
	assert.Equal(t, 0, fake.OpenConns)
}

func TestAppendKeepsExistingRows(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379", "node2:6379")
	tbl, _ := newTestTable(t, topo, Options{DeclaredSchema: usersSchema()})
	ctx := context.Background()

	rows1 := []core.Row{{"id": int64(1), "name": "a"}}
	rows2 := []core.Row{{"id": int64(2), "name": "b"}}
	require.NoError(t, tbl.Insert(ctx, rows1, false))
	require.NoError(t, tbl.Insert(ctx, rows2, false))

	got, _, err := tbl.Scan(ctx, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, canonical(t, append(rows1, rows2...)), canonical(t, got))
}

func TestInsertGeneratesDistinctKeys(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379", "node2:6379", "node3:6379")
	tbl, fake := newTestTable(t, topo, Options{DeclaredSchema: usersSchema(), Units: 4})
	ctx := context.Background()

	const n = 200
	rows := make([]core.Row, n)
	for i := range rows {
		rows[i] = core.Row{"id": int64(i), "name": fmt.Sprintf("u%d", i)}
	}
	require.NoError(t, tbl.Insert(ctx, rows, false))

	var dataKeys []string
	for _, key := range fake.AllKeys() {
		if strings.HasPrefix(key, "users:dataframe_data:") {
			dataKeys = append(dataKeys, key)
		}
	}
	assert.Len(t, dataKeys, n, "one distinct data key per row")
}

func TestRowsSpreadAcrossEndpoints(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379", "node2:6379", "node3:6379")
	tbl, fake := newTestTable(t, topo, Options{DeclaredSchema: usersSchema()})
	ctx := context.Background()

	rows := make([]core.Row, 300)
	for i := range rows {
		rows[i] = core.Row{"id": int64(i), "name": "x"}
	}
	require.NoError(t, tbl.Insert(ctx, rows, false))

	spread := 0
	for _, ep := range topo.Endpoints() {
		if len(fake.Keys(ep.ID())) > 0 {
			spread++
		}
	}
	assert.Equal(t, 3, spread, "300 random keys should land on every endpoint")
}

func TestScanExcludesSchemaKey(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379", "node2:6379")
	fake := storetest.New(topo)
	// Naive enumeration: the store returns every key under the table
	// prefix, schema key included.
	fake.SloppyScan = true
	tbl := New("users", topo, exec.New(fake), Options{DeclaredSchema: usersSchema()})
	ctx := context.Background()

	rows := []core.Row{{"id": int64(1), "name": "a"}}
	require.NoError(t, tbl.Insert(ctx, rows, false))

	got, _, err := tbl.Scan(ctx, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, canonical(t, rows), canonical(t, got),
		"the schema value must never surface as a data row")
}

func TestIsEmpty(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379", "node2:6379")
	tbl, _ := newTestTable(t, topo, Options{DeclaredSchema: usersSchema()})
	ctx := context.Background()

	empty, err := tbl.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, tbl.Insert(ctx, []core.Row{{"id": int64(1), "name": "a"}}, false))

	empty, err = tbl.IsEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, empty)

	// Schema alone does not make a table non-empty.
	topo2 := storetest.ClusterTopology("node1:6379")
	tbl2, fake2 := newTestTable(t, topo2, Options{DeclaredSchema: usersSchema()})
	require.NoError(t, fake2.PutRouted(keyspace.SchemaKey("users"), []byte(`{"version":1,"fields":[{"name":"id","type":"int"}]}`)))
	empty, err = tbl2.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestInsertInfersSchema(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379")
	tbl, _ := newTestTable(t, topo, Options{})
	ctx := context.Background()

	rows := []core.Row{{"id": int64(1), "name": "a"}}
	require.NoError(t, tbl.Insert(ctx, rows, false))

	schema, err := tbl.Schema(ctx)
	require.NoError(t, err)
	assert.True(t, usersSchema().Equal(schema))
}

func TestInsertNoRowsNoSchema(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379")
	tbl, _ := newTestTable(t, topo, Options{})
	err := tbl.Insert(context.Background(), nil, false)
	assert.Error(t, err, "nothing to infer a schema from")
}

func TestScanReportsFiltersUnhandled(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379")
	tbl, _ := newTestTable(t, topo, Options{DeclaredSchema: usersSchema()})
	ctx := context.Background()

	rows := []core.Row{
		{"id": int64(1), "name": "a"},
		{"id": int64(2), "name": "b"},
	}
	require.NoError(t, tbl.Insert(ctx, rows, false))

	filters := []core.Filter{{Column: "id", Op: "=", Value: int64(1)}}
	got, unhandled, err := tbl.Scan(ctx, []string{"name"}, filters)
	require.NoError(t, err)
	assert.Equal(t, filters, unhandled, "every filter comes back unhandled")
	assert.ElementsMatch(t, canonical(t, rows), canonical(t, got),
		"full rows are returned despite requested columns and filters")
}

func TestScanMissingSchema(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379")
	tbl, _ := newTestTable(t, topo, Options{})
	_, _, err := tbl.Scan(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSchemaNotFound))
}

func TestInsertFailsWhenNodeUnavailable(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379", "node2:6379")
	fake := storetest.New(topo)
	tbl := New("users", topo, exec.New(fake), Options{DeclaredSchema: usersSchema()})
	ctx := context.Background()

	fake.FailDial["node2:6379"] = true

	rows := make([]core.Row, 50)
	for i := range rows {
		rows[i] = core.Row{"id": int64(i), "name": "x"}
	}
	err := tbl.Insert(ctx, rows, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNodeUnavailable))
	assert.Equal(t, 0, fake.OpenConns)
}

func TestScanUnitsRestartable(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379", "node2:6379")
	tbl, _ := newTestTable(t, topo, Options{DeclaredSchema: usersSchema(), Units: 3})
	ctx := context.Background()

	rows := make([]core.Row, 30)
	for i := range rows {
		rows[i] = core.Row{"id": int64(i), "name": fmt.Sprintf("u%d", i)}
	}
	require.NoError(t, tbl.Insert(ctx, rows, false))

	units := tbl.ScanUnits()
	require.Len(t, units, 3)

	for attempt := 0; attempt < 2; attempt++ {
		var combined []core.Row
		for _, unit := range units {
			part, err := unit(ctx)
			require.NoError(t, err)
			combined = append(combined, part...)
		}
		assert.ElementsMatch(t, canonical(t, rows), canonical(t, combined),
			"re-running units must reproduce the full table")
	}
}

func TestSplitUnits(t *testing.T) {
	tests := []struct {
		items int
		units int
		want  []int
	}{
		{0, 3, nil},
		{5, 1, []int{5}},
		{5, 2, []int{3, 2}},
		{2, 8, []int{1, 1}},
		{6, 3, []int{2, 2, 2}},
		{7, 0, []int{7}},
	}
	for _, tt := range tests {
		items := make([]int, tt.items)
		parts := splitUnits(items, tt.units)
		var sizes []int
		for _, p := range parts {
			sizes = append(sizes, len(p))
		}
		assert.Equal(t, tt.want, sizes, "splitUnits(%d items, %d units)", tt.items, tt.units)
	}
}
