package core

import "errors"

// Error taxonomy for the connector. All errors are surfaced to the caller
// unhandled: there is no retry, backoff, or local recovery anywhere in the
// core. Implementations wrap these sentinels with fmt.Errorf and %w so
// callers can classify failures with errors.Is.
var (
	// ErrTopologyUnavailable indicates that no store endpoints are known,
	// so keys cannot be routed.
	ErrTopologyUnavailable = errors.New("no known endpoints in topology")

	// ErrNodeUnavailable indicates a connection or network failure against
	// a specific endpoint. The whole batch for that endpoint is aborted;
	// writes already pipelined to the node may or may not have landed.
	ErrNodeUnavailable = errors.New("endpoint unavailable")

	// ErrOperationFailed indicates a store-level command error on an
	// otherwise reachable endpoint.
	ErrOperationFailed = errors.New("store operation failed")

	// ErrSchemaNotFound indicates the table's schema key is absent.
	// Callers should treat this as "table does not exist or has no
	// declared schema".
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrMissingTable indicates the mandatory table identifier is absent
	// from the configuration.
	ErrMissingTable = errors.New("table name is required")
)
