// Package pytype renders wire type trees as Python type annotations.
package pytype

import (
	"fmt"
	"slices"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/thriftpyi/thriftpyi/pyigen/wire"
)

// primitives maps every scalar wire tag to its annotation.
var primitives = map[thrift.TType]string{
	thrift.BOOL:   "bool",
	thrift.DOUBLE: "float",
	thrift.BYTE:   "int",
	thrift.I16:    "int",
	thrift.I32:    "int",
	thrift.I64:    "int",
	thrift.STRING: "str",
}

// Any is rendered for container elements the field spec left undeclared.
const Any = "Any"

// Scope decides how struct references are qualified.
type Scope struct {
	// Module is the declaring module of the entity being described.
	// References into it render unqualified.
	Module string

	// Aliases maps a module name to the name it is imported under.
	// Modules without an alias are qualified by their own name.
	Aliases map[string]string
}

// Qualifier returns the prefix used for references into module, or "" when
// references into module render unqualified.
func (s Scope) Qualifier(module string) string {
	if module == "" || module == s.Module {
		return ""
	}
	if alias, ok := s.Aliases[module]; ok {
		return alias
	}
	return module
}

// Annotate renders t as a Python annotation for a field of an entity
// declared in module. Struct references declared in that same module render
// unqualified; references into other modules keep their module prefix.
// Container elements and map keys and values are always rendered as
// required; only the top level is wrapped in Optional when required is false.
func Annotate(t wire.TypeDescriptor, required bool, module string) (string, error) {
	return AnnotateIn(t, required, Scope{Module: module})
}

// AnnotateIn is Annotate with references qualified through scope.
func AnnotateIn(t wire.TypeDescriptor, required bool, scope Scope) (string, error) {
	if t == nil {
		return "", fmt.Errorf("nil type descriptor")
	}
	a := annotator{scope: scope}
	s, err := a.annotate(t)
	if err != nil {
		return "", err
	}
	if !required {
		s = "Optional[" + s + "]"
	}
	return s, nil
}

type annotator struct {
	scope Scope
}

func (a annotator) annotate(t wire.TypeDescriptor) (string, error) {
	switch d := t.(type) {
	case *wire.PrimitiveDescriptor:
		s, ok := primitives[d.Tag]
		if !ok {
			return "", &wire.UnknownTypeError{Tag: d.Tag}
		}
		return s, nil
	case *wire.StructRefDescriptor:
		return a.reference(d), nil
	case *wire.ListDescriptor:
		elem, err := a.element(d.Element)
		if err != nil {
			return "", err
		}
		return "List[" + elem + "]", nil
	case *wire.SetDescriptor:
		elem, err := a.element(d.Element)
		if err != nil {
			return "", err
		}
		return "Set[" + elem + "]", nil
	case *wire.MapDescriptor:
		key, err := a.element(d.Key)
		if err != nil {
			return "", err
		}
		value, err := a.element(d.Value)
		if err != nil {
			return "", err
		}
		return "Dict[" + key + ", " + value + "]", nil
	default:
		return "", fmt.Errorf("unsupported type expression kind: %s", t.Kind())
	}
}

func (a annotator) element(t wire.TypeDescriptor) (string, error) {
	if t == nil {
		return Any, nil
	}
	return a.annotate(t)
}

func (a annotator) reference(r *wire.StructRefDescriptor) string {
	if q := a.scope.Qualifier(r.Module); q != "" {
		return q + "." + r.Name
	}
	return r.Name
}

// Modules returns the declaring modules of every struct reference in t,
// in first-seen order.
func Modules(t wire.TypeDescriptor) []string {
	var out []string
	walk(t, func(r *wire.StructRefDescriptor) {
		if r.Module != "" && !slices.Contains(out, r.Module) {
			out = append(out, r.Module)
		}
	})
	return out
}

func walk(t wire.TypeDescriptor, visit func(*wire.StructRefDescriptor)) {
	switch d := t.(type) {
	case *wire.StructRefDescriptor:
		visit(d)
	case *wire.ListDescriptor:
		walk(d.Element, visit)
	case *wire.SetDescriptor:
		walk(d.Element, visit)
	case *wire.MapDescriptor:
		walk(d.Key, visit)
		walk(d.Value, visit)
	}
}
