package core

import "fmt"

// FieldType identifies the logical type of a schema field.
type FieldType string

// Supported field types. These are the types the row codec knows how to
// coerce when deserializing values back into Go values.
const (
	FieldInt    FieldType = "int"
	FieldFloat  FieldType = "float"
	FieldBool   FieldType = "bool"
	FieldString FieldType = "string"
	FieldBinary FieldType = "binary"
)

// Field is a single named, typed field of a table schema.
type Field struct {
	// Name is the field name.
	Name string `json:"name"`

	// Type is the logical field type.
	Type FieldType `json:"type"`

	// Nullable indicates whether the field may be absent or nil in a row.
	Nullable bool `json:"nullable,omitempty"`
}

// Schema is the structural descriptor of a table: an ordered sequence of
// named, typed fields. A table has at most one live schema value, stored
// under its schema key.
type Schema struct {
	// Fields contains the field definitions in declaration order.
	Fields []Field `json:"fields"`
}

// Field returns the definition of the named field, or false if the schema
// does not declare it.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Equal reports whether two schemas declare the same fields in the same
// order.
func (s *Schema) Equal(other *Schema) bool {
	if other == nil || len(s.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range s.Fields {
		if f != other.Fields[i] {
			return false
		}
	}
	return true
}

// Row is a single table row keyed by field name. Values are expected to
// conform to the table schema; the codec validates and coerces them.
type Row map[string]interface{}

// Filter is a predicate pushed down by a caller. The connector accepts
// filters but never applies them: every filter is reported back as
// unhandled and full rows are always returned.
type Filter struct {
	// Column is the field the predicate applies to.
	Column string

	// Op is the comparison operator (e.g. "=", "<", ">=").
	Op string

	// Value is the comparison operand.
	Value interface{}
}

func (f Filter) String() string {
	return fmt.Sprintf("%s %s %v", f.Column, f.Op, f.Value)
}
