package schemastore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzpsarthak13/redisframe/internal/core"
	"github.com/rzpsarthak13/redisframe/internal/exec"
	"github.com/rzpsarthak13/redisframe/internal/keyspace"
	"github.com/rzpsarthak13/redisframe/internal/storetest"
)

func usersSchema() *core.Schema {
	return &core.Schema{Fields: []core.Field{
		{Name: "id", Type: core.FieldInt},
		{Name: "name", Type: core.FieldString},
	}}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379", "node2:6379", "node3:6379")
	fake := storetest.New(topo)
	store := New(exec.New(fake))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, topo, "users", usersSchema()))

	loaded, err := store.Load(ctx, topo, "users")
	require.NoError(t, err)
	assert.True(t, usersSchema().Equal(loaded))
	assert.Equal(t, 0, fake.OpenConns)
}

func TestSaveReplacesPreviousSchema(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379")
	fake := storetest.New(topo)
	store := New(exec.New(fake))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, topo, "users", usersSchema()))

	wider := &core.Schema{Fields: []core.Field{
		{Name: "id", Type: core.FieldInt},
		{Name: "name", Type: core.FieldString},
		{Name: "age", Type: core.FieldInt, Nullable: true},
	}}
	require.NoError(t, store.Save(ctx, topo, "users", wider))

	loaded, err := store.Load(ctx, topo, "users")
	require.NoError(t, err)
	assert.True(t, wider.Equal(loaded))
}

func TestLoadMissingSchema(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379")
	store := New(exec.New(storetest.New(topo)))

	_, err := store.Load(context.Background(), topo, "users")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSchemaNotFound))
}

func TestLoadCorruptSchema(t *testing.T) {
	topo := storetest.ClusterTopology("node1:6379")
	fake := storetest.New(topo)
	require.NoError(t, fake.PutRouted(keyspace.SchemaKey("users"), []byte("garbage")))

	store := New(exec.New(fake))
	_, err := store.Load(context.Background(), topo, "users")
	require.Error(t, err)
	assert.False(t, errors.Is(err, core.ErrSchemaNotFound), "corrupt payload is a decode error, not absence")
}
