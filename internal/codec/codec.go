// Package codec handles conversion between table rows and their stored
// byte form. Rows are encoded field by field, driven by the table schema,
// so values round-trip with their declared types instead of as an
// undifferentiated blob.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/rzpsarthak13/redisframe/internal/core"
)

// RowCodec encodes and decodes rows against a fixed schema.
type RowCodec struct {
	schema    *core.Schema
	validator *Validator
}

// NewRowCodec creates a codec bound to the given schema.
func NewRowCodec(schema *core.Schema) *RowCodec {
	return &RowCodec{
		schema:    schema,
		validator: NewValidator(schema),
	}
}

// Encode validates a row against the schema and serializes it.
func (c *RowCodec) Encode(row core.Row) ([]byte, error) {
	if err := c.validator.ValidateRow(row); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	out := make(map[string]interface{}, len(row))
	for _, field := range c.schema.Fields {
		value, exists := row[field.Name]
		if !exists || value == nil {
			continue
		}
		converted, err := toWireValue(value, field.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to convert value for field %q: %w", field.Name, err)
		}
		out[field.Name] = converted
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal row: %w", err)
	}
	return data, nil
}

// Decode deserializes a stored value back into a row, coercing each field
// to the Go type its schema type declares.
func (c *RowCodec) Decode(data []byte) (core.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal row: %w", err)
	}

	row := make(core.Row, len(raw))
	for name, value := range raw {
		field, ok := c.schema.Field(name)
		if !ok {
			// Field no longer declared by the schema; keep the raw value
			// rather than dropping data written under an older schema.
			row[name] = value
			continue
		}
		if value == nil {
			row[name] = nil
			continue
		}
		converted, err := fromWireValue(value, field.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to convert value for field %q: %w", name, err)
		}
		row[name] = converted
	}
	return row, nil
}

// toWireValue converts a Go value into its JSON-safe wire form for the
// declared field type.
func toWireValue(value interface{}, fieldType core.FieldType) (interface{}, error) {
	switch fieldType {
	case core.FieldInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case uint:
			return int64(v), nil
		case uint8:
			return int64(v), nil
		case uint16:
			return int64(v), nil
		case uint32:
			return int64(v), nil
		case json.Number:
			return v.Int64()
		default:
			return nil, fmt.Errorf("cannot store %T as int", value)
		}
	case core.FieldFloat:
		switch v := value.(type) {
		case float32:
			return float64(v), nil
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case json.Number:
			return v.Float64()
		default:
			return nil, fmt.Errorf("cannot store %T as float", value)
		}
	case core.FieldBool:
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("cannot store %T as bool", value)
		}
		return v, nil
	case core.FieldString:
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("cannot store %T as string", value)
		}
		return v, nil
	case core.FieldBinary:
		v, ok := value.([]byte)
		if !ok {
			return nil, fmt.Errorf("cannot store %T as binary", value)
		}
		return base64.StdEncoding.EncodeToString(v), nil
	default:
		return nil, fmt.Errorf("unknown field type %q", fieldType)
	}
}

// fromWireValue coerces a decoded JSON value back to the Go type the
// declared field type maps to.
func fromWireValue(value interface{}, fieldType core.FieldType) (interface{}, error) {
	switch fieldType {
	case core.FieldInt:
		num, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", value)
		}
		return num.Int64()
	case core.FieldFloat:
		num, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", value)
		}
		return num.Float64()
	case core.FieldBool:
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", value)
		}
		return v, nil
	case core.FieldString:
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return v, nil
	case core.FieldBinary:
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected base64 string, got %T", value)
		}
		decoded, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 payload: %w", err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unknown field type %q", fieldType)
	}
}
