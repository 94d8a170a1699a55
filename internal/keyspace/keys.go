// Package keyspace defines the key layout of the connector. A table owns
// two namespaces under its name prefix: one well-known key for the schema
// descriptor and one key per row for data.
package keyspace

import (
	"strings"

	"github.com/google/uuid"
)

const (
	schemaSuffix = "dataframe_schema"
	dataInfix    = "dataframe_data"
)

// SchemaKey returns the single key holding the table's schema descriptor:
// {tableName}:dataframe_schema.
func SchemaKey(table string) string {
	return table + ":" + schemaSuffix
}

// NewDataKey generates a fresh data key for one row:
// {tableName}:dataframe_data:{uuid}. The suffix is a random 128-bit UUID;
// collisions are treated as negligible, not formally prevented.
func NewDataKey(table string) string {
	return table + ":" + dataInfix + ":" + uuid.NewString()
}

// DataPattern returns the glob matching every data key of the table.
func DataPattern(table string) string {
	return table + ":" + dataInfix + ":*"
}

// IsSchemaKey reports whether a discovered key is the table's schema key
// or is prefixed by it. Schema and data share the table-name prefix, so
// naive enumeration must filter the schema key out of data scans.
func IsSchemaKey(table, key string) bool {
	return strings.HasPrefix(key, SchemaKey(table))
}
