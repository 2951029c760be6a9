// Package schema holds the resolved object graph that aepdoc derives metadata
// from: services, models with their fields and parents, and interfaces grouping
// operations. Entities are compared by pointer identity, never by name, so two
// models with the same name in different namespaces stay distinct.
package schema

import "fmt"

// ScalarType is the semantic type of a model field
type ScalarType string

const (
	TypeString    ScalarType = "string"
	TypeInt32     ScalarType = "int32"
	TypeInt64     ScalarType = "int64"
	TypeFloat32   ScalarType = "float32"
	TypeFloat64   ScalarType = "float64"
	TypeBool      ScalarType = "bool"
	TypeTimestamp ScalarType = "timestamp"
	TypeOther     ScalarType = "other"
)

// ParseScalarType maps a declared type name onto a ScalarType.
// Unknown names map to TypeOther.
func ParseScalarType(name string) ScalarType {
	switch name {
	case "string":
		return TypeString
	case "int32", "int":
		return TypeInt32
	case "int64":
		return TypeInt64
	case "float32", "float":
		return TypeFloat32
	case "float64", "double":
		return TypeFloat64
	case "bool", "boolean":
		return TypeBool
	case "timestamp", "datetime", "utcDateTime":
		return TypeTimestamp
	default:
		return TypeOther
	}
}

// Field is a named, typed model property
type Field struct {
	Name string
	Type ScalarType
	// Key marks the resource's identity field
	Key bool
	Doc string
	// Example is a user-declared example literal; nil when none was declared
	Example any
}

// ResourceDecl is the resource annotation attached to a model
type ResourceDecl struct {
	Type     string
	Singular string
	Plural   string
}

// Model is a schema model, optionally annotated as a resource
type Model struct {
	Name      string
	Namespace string
	Doc       string
	Fields    []*Field
	// Parent is the parent resource model, nil for root resources
	Parent   *Model
	Resource *ResourceDecl
}

// QualifiedName returns Namespace.Name, or Name when there is no namespace
func (m *Model) QualifiedName() string {
	if m.Namespace == "" {
		return m.Name
	}
	return m.Namespace + "." + m.Name
}

// KeyField returns the identity field, or nil
func (m *Model) KeyField() *Field {
	for _, f := range m.Fields {
		if f.Key {
			return f
		}
	}
	return nil
}

// Field returns the field with the given name, or nil
func (m *Model) Field(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// ResourceOpKind is the kind of a standard resource operation
type ResourceOpKind string

const (
	OpRead            ResourceOpKind = "read"
	OpList            ResourceOpKind = "list"
	OpCreate          ResourceOpKind = "create"
	OpUpdate          ResourceOpKind = "update"
	OpDelete          ResourceOpKind = "delete"
	OpCreateOrReplace ResourceOpKind = "createOrReplace"
)

// ResourceOpKinds lists every standard operation kind
var ResourceOpKinds = []ResourceOpKind{OpRead, OpList, OpCreate, OpUpdate, OpDelete, OpCreateOrReplace}

// ParseResourceOpKind validates a declared operation kind
func ParseResourceOpKind(s string) (ResourceOpKind, error) {
	for _, k := range ResourceOpKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource operation kind %q", s)
}

// ResourceOpRef tags an operation generated from a standard template
type ResourceOpRef struct {
	Kind  ResourceOpKind
	Model *Model
}

// ActionRef tags a hand-authored custom method
type ActionRef struct {
	Name string
}

// Operation belongs to exactly one Interface. At most one of ResourceOp,
// Action and CollectionAction is set.
type Operation struct {
	Name      string
	Interface *Interface
	// Summary is the externally authored summary, empty when none
	Summary string
	Doc     string

	ResourceOp       *ResourceOpRef
	Action           *ActionRef
	CollectionAction *ActionRef

	// Returns is the response model, when one was declared or generated
	Returns *Model
}

// Interface groups operations
type Interface struct {
	Name       string
	Operations []*Operation
	// TemplateInstance marks interfaces produced by instantiating a template
	TemplateInstance bool
	Template         string
}

// AddOperation appends op and sets its back reference
func (i *Interface) AddOperation(op *Operation) {
	op.Interface = i
	i.Operations = append(i.Operations, op)
}

// Service is a service boundary
type Service struct {
	Name       string
	Namespace  string
	Title      string
	Version    string
	Models     []*Model
	Interfaces []*Interface
}

// Program is the complete resolved graph
type Program struct {
	Services []*Service
}
