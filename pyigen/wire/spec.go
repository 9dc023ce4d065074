package wire

import (
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/thriftpyi/thriftpyi/thriftmod"
)

// Class is a generated class that a struct specification can reference.
type Class interface {
	TypeName() string
	ModuleName() string
}

// Entry is a parsed field specification.
type Entry struct {
	// Name is the field name.
	Name string

	// Type is the normalized field type.
	Type TypeDescriptor

	// Required is the trailing requiredness marker of the field spec.
	Required bool
}

// ParseEntry unpacks a raw (ttype, name, meta..., required) field spec.
func ParseEntry(spec thriftmod.Spec) (Entry, error) {
	if len(spec) < 3 {
		return Entry{}, &MalformedSpecError{Reason: fmt.Sprintf("expected at least 3 elements, got %d", len(spec))}
	}

	name, ok := spec[1].(string)
	if !ok {
		return Entry{}, &MalformedSpecError{Reason: fmt.Sprintf("field name must be a string, got %T", spec[1])}
	}
	tag, ok := spec[0].(thrift.TType)
	if !ok {
		return Entry{}, &MalformedSpecError{Field: name, Reason: fmt.Sprintf("wire type must be a thrift.TType, got %T", spec[0])}
	}
	required, ok := spec[len(spec)-1].(bool)
	if !ok {
		return Entry{}, &MalformedSpecError{Field: name, Reason: fmt.Sprintf("requiredness must be a bool, got %T", spec[len(spec)-1])}
	}

	var meta any
	switch rest := spec[2 : len(spec)-1]; len(rest) {
	case 0:
	case 1:
		meta = rest[0]
	default:
		return Entry{}, &MalformedSpecError{Field: name, Reason: fmt.Sprintf("expected at most 1 metadata element, got %d", len(rest))}
	}

	t, err := Parse(tag, meta)
	if err != nil {
		return Entry{}, fmt.Errorf("field %s: %w", name, err)
	}
	return Entry{Name: name, Type: t, Required: required}, nil
}

// Parse builds the type tree for a wire tag and its metadata.
func Parse(tag thrift.TType, meta any) (TypeDescriptor, error) {
	switch tag {
	case thrift.BOOL, thrift.DOUBLE, thrift.BYTE, thrift.I16, thrift.I32, thrift.I64, thrift.STRING:
		return Primitive(tag), nil

	case thrift.STRUCT:
		cls, ok := meta.(Class)
		if !ok {
			return nil, &MalformedSpecError{Reason: fmt.Sprintf("struct reference needs a class, got %T", meta)}
		}
		return Ref(cls.TypeName(), cls.ModuleName()), nil

	case thrift.LIST:
		elem, err := parseElement(meta)
		if err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		return List(elem), nil

	case thrift.SET:
		elem, err := parseElement(meta)
		if err != nil {
			return nil, fmt.Errorf("set element: %w", err)
		}
		return Set(elem), nil

	case thrift.MAP:
		pair, ok := meta.(thriftmod.Pair)
		if !ok {
			return nil, &MalformedSpecError{Reason: fmt.Sprintf("map needs a (key, value) pair, got %T", meta)}
		}
		key, err := parseElement(pair[0])
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		value, err := parseElement(pair[1])
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		if key == nil || value == nil {
			return nil, &MalformedSpecError{Reason: "map needs both key and value types"}
		}
		return Map(key, value), nil

	default:
		return nil, &UnknownTypeError{Tag: tag}
	}
}

// parseElement normalizes container metadata, which is either a bare tag or
// a (tag, meta) pair. A nil element means no element type was declared.
func parseElement(meta any) (TypeDescriptor, error) {
	switch m := meta.(type) {
	case nil:
		return nil, nil
	case thrift.TType:
		return Parse(m, nil)
	case thriftmod.Pair:
		tag, ok := m[0].(thrift.TType)
		if !ok {
			return nil, &MalformedSpecError{Reason: fmt.Sprintf("element tag must be a thrift.TType, got %T", m[0])}
		}
		return Parse(tag, m[1])
	default:
		return nil, &MalformedSpecError{Reason: fmt.Sprintf("unexpected element metadata %T", meta)}
	}
}
