package metadata

import (
	"fmt"
	"strings"
)

// TypeKind classifies a structural type descriptor
type TypeKind int

// Type kinds
const (
	KindNull TypeKind = iota
	KindBinary
	KindScalar
	KindObject
)

// Type is a structural type descriptor derived from the service schema.
// Descriptors are consumed for introspection only and never mutated after
// creation. KindNull signals "shape absent", which is distinct from an
// object type without fields ("shape empty").
type Type interface {
	Kind() TypeKind
	String() string
}

// NullType marks the absence of a shape, e.g. the output of a one-way
// operation or an operation declaring no attachments
type NullType struct{}

// Kind of the type
func (NullType) Kind() TypeKind {
	return KindNull
}

// String text
func (NullType) String() string {
	return "None"
}

// BinaryType marks binary content, used for every attachment field
type BinaryType struct{}

// Kind of the type
func (BinaryType) Kind() TypeKind {
	return KindBinary
}

// String text
func (BinaryType) String() string {
	return "Binary"
}

// ScalarType marks simple text content
type ScalarType struct{}

// Kind of the type
func (ScalarType) Kind() TypeKind {
	return KindScalar
}

// String text
func (ScalarType) String() string {
	return "Scalar"
}

// ObjectField is one named field of an object type
type ObjectField struct {
	Name string
	Type Type
}

// ObjectType is an object with ordered named fields
type ObjectType struct {
	fields []ObjectField
}

// NewObjectType builds an object type from its fields
func NewObjectType(fields ...ObjectField) *ObjectType {
	owned := make([]ObjectField, len(fields))
	copy(owned, fields)
	return &ObjectType{fields: owned}
}

// Kind of the type
func (t *ObjectType) Kind() TypeKind {
	return KindObject
}

// Fields returns the ordered fields of the object
func (t *ObjectType) Fields() []ObjectField {
	fields := make([]ObjectField, len(t.fields))
	copy(fields, t.fields)
	return fields
}

// Field looks a field up by name
func (t *ObjectType) Field(name string) (ObjectField, bool) {
	for _, field := range t.fields {
		if field.Name == name {
			return field, true
		}
	}
	return ObjectField{}, false
}

// String lists the object fields explicitly
func (t *ObjectType) String() string {
	items := make([]string, 0, len(t.fields))
	for _, field := range t.fields {
		items = append(items, fmt.Sprintf("%s:%s", field.Name, field.Type.String()))
	}
	return "Object{" + strings.Join(items, ", ") + "}"
}

// TypeLoader resolves the schema type declared for a wire element name.
// Implementations are provided by whatever component understands the
// service schemas; StaticTypeLoader covers hand-built definitions.
type TypeLoader interface {
	Load(elementName string) (Type, bool)
}

// StaticTypeLoader serves schema types from a registration map
type StaticTypeLoader struct {
	types map[string]Type
}

// NewStaticTypeLoader builds an empty static loader
func NewStaticTypeLoader() *StaticTypeLoader {
	return &StaticTypeLoader{types: make(map[string]Type)}
}

// Register binds an element name to its type and returns the loader for
// chained registration
func (l *StaticTypeLoader) Register(elementName string, t Type) *StaticTypeLoader {
	l.types[elementName] = t
	return l
}

// Load resolves a registered element type
func (l *StaticTypeLoader) Load(elementName string) (Type, bool) {
	t, ok := l.types[elementName]
	return t, ok
}
