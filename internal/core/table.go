package core

import (
	"context"
)

// Table defines the caller-facing operations of the connector. A Table is
// bound to one table name at construction; the table itself is created
// implicitly on first successful insert.
type Table interface {
	// Insert writes the given rows. The table schema is persisted on
	// every call, even appends, so a reader can always resolve structure.
	// When overwrite is true, all existing data keys for the table are
	// deleted first. The truncate-then-write sequence is not atomic: a
	// concurrent reader may observe a partial or empty table during the
	// window.
	Insert(ctx context.Context, rows []Row, overwrite bool) error

	// Scan returns all rows of the table. Requested columns and filters
	// are accepted but never applied: full rows are always returned and
	// every filter is reported back as unhandled. No ordering guarantee.
	Scan(ctx context.Context, columns []string, filters []Filter) ([]Row, []Filter, error)

	// Schema loads the table's schema descriptor. Returns an error
	// wrapping ErrSchemaNotFound if the table has no declared schema.
	Schema(ctx context.Context) (*Schema, error)

	// IsEmpty reports whether no data key exists for the table.
	IsEmpty(ctx context.Context) (bool, error)
}
