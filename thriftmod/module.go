// Package thriftmod models a Thrift IDL file loaded into memory.
//
// A loaded file becomes a Module: an ordered namespace whose bindings are the
// generated classes (structs, exceptions, enums, services), the modules pulled
// in by include statements, and plain constant values. Generated classes carry
// their field specifications in the tuple shape used by the Python Thrift
// runtime: (ttype, name, meta..., required).
package thriftmod

import "github.com/apache/thrift/lib/go/thrift"

// Typed wire tags. The thrift package declares its tags as untyped
// constants, which lose their type once stored in a Spec.
const (
	TBool   thrift.TType = thrift.BOOL
	TByte   thrift.TType = thrift.BYTE
	TDouble thrift.TType = thrift.DOUBLE
	TI16    thrift.TType = thrift.I16
	TI32    thrift.TType = thrift.I32
	TI64    thrift.TType = thrift.I64
	TString thrift.TType = thrift.STRING
	TStruct thrift.TType = thrift.STRUCT
	TMap    thrift.TType = thrift.MAP
	TSet    thrift.TType = thrift.SET
	TList   thrift.TType = thrift.LIST
)

// Module is the namespace of one loaded Thrift file.
// Bindings keep their declaration order.
type Module struct {
	name     string
	path     string
	names    []string
	bindings map[string]any

	// typedefs holds resolved typedef targets so including modules
	// can reference them as alias.Name.
	typedefs map[string]resolved
}

// NewModule returns an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{
		name:     name,
		bindings: make(map[string]any),
		typedefs: make(map[string]resolved),
	}
}

// Name returns the module name. Generated classes report it as their
// declaring module.
func (m *Module) Name() string { return m.name }

// Path returns the file the module was loaded from, if any.
func (m *Module) Path() string { return m.path }

// Bind adds a binding. Rebinding an existing name replaces the value but
// keeps its original position.
func (m *Module) Bind(name string, value any) {
	if _, ok := m.bindings[name]; !ok {
		m.names = append(m.names, name)
	}
	m.bindings[name] = value
}

// Names returns the binding names in declaration order.
func (m *Module) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// Lookup returns the value bound to name.
func (m *Module) Lookup(name string) (any, bool) {
	v, ok := m.bindings[name]
	return v, ok
}

// Len returns the number of bindings.
func (m *Module) Len() int { return len(m.names) }
