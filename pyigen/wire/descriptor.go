// Package wire defines the normalized type tree built from Thrift field
// specifications.
//
// The Python runtime lays container metadata out inconsistently: an element
// may be a bare tag or a (tag, meta) pair. Parse resolves that once, so the
// annotation renderer only ever walks a uniform recursive tree.
package wire

import "github.com/apache/thrift/lib/go/thrift"

// Kind identifies the category of a type descriptor.
type Kind int

const (
	KindPrimitive Kind = iota // bool, double, byte, i16, i32, i64, string
	KindStructRef             // Reference to a generated struct or exception
	KindList                  // list<T>
	KindSet                   // set<T>
	KindMap                   // map<K, V>
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindStructRef:
		return "StructRef"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is a node of the type tree.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() Kind

	// Ensure only types in this package can implement TypeDescriptor.
	sealed()
}

// PrimitiveDescriptor is a scalar wire type.
type PrimitiveDescriptor struct {
	Tag thrift.TType
}

func (*PrimitiveDescriptor) Kind() Kind { return KindPrimitive }
func (*PrimitiveDescriptor) sealed()    {}

// StructRefDescriptor references a generated struct or exception class.
type StructRefDescriptor struct {
	// Name is the referenced class name.
	Name string

	// Module is the module that declares the class.
	Module string
}

func (*StructRefDescriptor) Kind() Kind { return KindStructRef }
func (*StructRefDescriptor) sealed()    {}

// ListDescriptor is list<Element>. Element is nil when the field spec
// declared no element type.
type ListDescriptor struct {
	Element TypeDescriptor
}

func (*ListDescriptor) Kind() Kind { return KindList }
func (*ListDescriptor) sealed()    {}

// SetDescriptor is set<Element>. Element is nil when the field spec
// declared no element type.
type SetDescriptor struct {
	Element TypeDescriptor
}

func (*SetDescriptor) Kind() Kind { return KindSet }
func (*SetDescriptor) sealed()    {}

// MapDescriptor is map<Key, Value>.
type MapDescriptor struct {
	Key   TypeDescriptor
	Value TypeDescriptor
}

func (*MapDescriptor) Kind() Kind { return KindMap }
func (*MapDescriptor) sealed()    {}

// Primitive returns a PrimitiveDescriptor for tag.
func Primitive(tag thrift.TType) *PrimitiveDescriptor {
	return &PrimitiveDescriptor{Tag: tag}
}

// Ref returns a StructRefDescriptor.
func Ref(name, module string) *StructRefDescriptor {
	return &StructRefDescriptor{Name: name, Module: module}
}

// List returns a ListDescriptor.
func List(elem TypeDescriptor) *ListDescriptor {
	return &ListDescriptor{Element: elem}
}

// Set returns a SetDescriptor.
func Set(elem TypeDescriptor) *SetDescriptor {
	return &SetDescriptor{Element: elem}
}

// Map returns a MapDescriptor.
func Map(key, value TypeDescriptor) *MapDescriptor {
	return &MapDescriptor{Key: key, Value: value}
}
