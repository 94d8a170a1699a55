package codec

import (
	"fmt"
	"sort"

	"github.com/rzpsarthak13/redisframe/internal/core"
)

// Validator checks rows against a schema before they are encoded.
type Validator struct {
	schema *core.Schema
}

// NewValidator creates a validator for the given schema.
func NewValidator(schema *core.Schema) *Validator {
	return &Validator{schema: schema}
}

// ValidateRow verifies that a row conforms to the schema: every
// non-nullable field is present and non-nil, and no undeclared field is
// set.
func (v *Validator) ValidateRow(row core.Row) error {
	if row == nil {
		return fmt.Errorf("row cannot be nil")
	}

	for _, field := range v.schema.Fields {
		value, exists := row[field.Name]
		if (!exists || value == nil) && !field.Nullable {
			return fmt.Errorf("field %q is required but missing or nil", field.Name)
		}
	}

	for name, value := range row {
		if value == nil {
			// An all-nil field cannot be typed during inference, so a nil
			// value under an undeclared name is dropped rather than rejected.
			continue
		}
		if _, ok := v.schema.Field(name); !ok {
			return fmt.Errorf("field %q is not declared by the schema", name)
		}
	}

	return nil
}

// InferSchema derives a schema from row data, for inserts where the caller
// declares none. Field order is the sorted union of field names across all
// rows; a field is nullable if any row omits it or carries nil; the type
// comes from the first non-nil value seen.
func InferSchema(rows []core.Row) (*core.Schema, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot infer schema from zero rows")
	}

	types := make(map[string]core.FieldType)
	nullable := make(map[string]bool)
	var names []string

	for _, row := range rows {
		for name, value := range row {
			if _, seen := types[name]; !seen {
				if value == nil {
					nullable[name] = true
					continue
				}
				ft, err := inferFieldType(value)
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", name, err)
				}
				types[name] = ft
				names = append(names, name)
			}
		}
	}
	for name := range types {
		for _, row := range rows {
			if value, exists := row[name]; !exists || value == nil {
				nullable[name] = true
				break
			}
		}
	}

	sort.Strings(names)
	fields := make([]core.Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, core.Field{
			Name:     name,
			Type:     types[name],
			Nullable: nullable[name],
		})
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("cannot infer schema: no typed values in rows")
	}
	return &core.Schema{Fields: fields}, nil
}

func inferFieldType(value interface{}) (core.FieldType, error) {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return core.FieldInt, nil
	case float32, float64:
		return core.FieldFloat, nil
	case bool:
		return core.FieldBool, nil
	case string:
		return core.FieldString, nil
	case []byte:
		return core.FieldBinary, nil
	default:
		return "", fmt.Errorf("cannot infer field type from %T", value)
	}
}
