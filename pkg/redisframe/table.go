package redisframe

import (
	"github.com/rzpsarthak13/redisframe/internal/core"
)

// Re-exported domain types. The internal packages operate on these same
// types, so no conversion happens at the facade boundary.
type (
	// Row is a single table row keyed by field name.
	Row = core.Row

	// Schema is the structural descriptor of a table.
	Schema = core.Schema

	// Field is a single named, typed field of a schema.
	Field = core.Field

	// FieldType identifies the logical type of a schema field.
	FieldType = core.FieldType

	// Filter is a predicate pushed down by a caller. Filters are accepted
	// but always reported back as unhandled.
	Filter = core.Filter

	// Table is the caller-facing connector interface.
	Table = core.Table
)

// Supported field types.
const (
	FieldInt    = core.FieldInt
	FieldFloat  = core.FieldFloat
	FieldBool   = core.FieldBool
	FieldString = core.FieldString
	FieldBinary = core.FieldBinary
)

// Error taxonomy, re-exported for errors.Is checks by callers.
var (
	ErrTopologyUnavailable = core.ErrTopologyUnavailable
	ErrNodeUnavailable     = core.ErrNodeUnavailable
	ErrOperationFailed     = core.ErrOperationFailed
	ErrSchemaNotFound      = core.ErrSchemaNotFound
	ErrMissingTable        = core.ErrMissingTable
)
