package codec

import (
	"encoding/json"
	"fmt"

	"github.com/rzpsarthak13/redisframe/internal/core"
)

// DescriptorVersion is the current schema descriptor encoding version.
// The version field makes the on-wire descriptor self-describing so the
// encoding can evolve without breaking existing readers.
const DescriptorVersion = 1

// descriptor is the serialized form of a table schema.
type descriptor struct {
	Version int          `json:"version"`
	Fields  []core.Field `json:"fields"`
}

// EncodeSchema serializes a schema into its versioned descriptor form.
func EncodeSchema(schema *core.Schema) ([]byte, error) {
	if schema == nil {
		return nil, fmt.Errorf("schema cannot be nil")
	}
	data, err := json.Marshal(descriptor{
		Version: DescriptorVersion,
		Fields:  schema.Fields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema descriptor: %w", err)
	}
	return data, nil
}

// DecodeSchema deserializes a versioned schema descriptor.
func DecodeSchema(data []byte) (*core.Schema, error) {
	var d descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema descriptor: %w", err)
	}
	if d.Version != DescriptorVersion {
		return nil, fmt.Errorf("unsupported schema descriptor version: %d", d.Version)
	}
	if len(d.Fields) == 0 {
		return nil, fmt.Errorf("schema descriptor declares no fields")
	}
	return &core.Schema{Fields: d.Fields}, nil
}
