// Package provider exposes a loaded Thrift module as typed views.
//
// Bindings are classified once, when the Interface is built, by the
// structural markers the IDL runtime attaches to each generated class. The
// runtime has no common discriminant across services, payloads and enums, so
// the markers are expressed here as small interfaces and checked with type
// assertions.
package provider

import (
	"fmt"
	"slices"
	"strings"

	"github.com/thriftpyi/thriftpyi/pyigen/pytype"
	"github.com/thriftpyi/thriftpyi/pyigen/wire"
	"github.com/thriftpyi/thriftpyi/thriftmod"
)

// Namespace is a loaded module.
type Namespace interface {
	Name() string
	Names() []string
	Lookup(name string) (any, bool)
}

// class is implemented by every generated class.
type class interface {
	TypeName() string
	ModuleName() string
}

// serviceClass is marked by its method name list.
type serviceClass interface {
	class
	ThriftServices() []string
	Payload(attr string) (*thriftmod.Struct, bool)
}

// payloadClass is marked by its field specification.
type payloadClass interface {
	class
	ThriftSpec() *thriftmod.SpecTable
}

// exceptionMarker is attached by the runtime to exception classes only.
type exceptionMarker interface {
	Args() []string
}

// enumClass is marked by its name-to-value table.
type enumClass interface {
	class
	NamesToValues() []thriftmod.EnumValue
}

// BindingKind is the classification of a module binding.
type BindingKind int

const (
	KindOther BindingKind = iota
	KindImport
	KindService
	KindStruct
	KindException
	KindEnum
)

// String returns the string representation of the binding kind.
func (k BindingKind) String() string {
	switch k {
	case KindOther:
		return "Other"
	case KindImport:
		return "Import"
	case KindService:
		return "Service"
	case KindStruct:
		return "Struct"
	case KindException:
		return "Exception"
	case KindEnum:
		return "Enum"
	default:
		return "Unknown"
	}
}

// Classify returns the kind of a binding value.
func Classify(v any) BindingKind {
	if _, ok := v.(Namespace); ok {
		return KindImport
	}
	if _, ok := v.(serviceClass); ok {
		return KindService
	}
	if _, ok := v.(payloadClass); ok {
		if _, ok := v.(exceptionMarker); ok {
			return KindException
		}
		return KindStruct
	}
	if _, ok := v.(enumClass); ok {
		return KindEnum
	}
	return KindOther
}

// Binding is a classified module binding.
type Binding struct {
	Name  string
	Kind  BindingKind
	Value any
}

// Interface is a read-only view over a loaded module.
type Interface struct {
	ns       Namespace
	bindings []Binding
	scope    pytype.Scope
}

// NewInterface classifies every binding of ns.
func NewInterface(ns Namespace) *Interface {
	names := ns.Names()
	bindings := make([]Binding, 0, len(names))
	for _, name := range names {
		v, ok := ns.Lookup(name)
		if !ok {
			continue
		}
		bindings = append(bindings, Binding{Name: name, Kind: Classify(v), Value: v})
	}

	// References into an included module are qualified by the alias it
	// was included under. The first alias wins when a module is included
	// twice.
	scope := pytype.Scope{Module: ns.Name(), Aliases: make(map[string]string)}
	for _, b := range bindings {
		if b.Kind != KindImport {
			continue
		}
		module := b.Value.(Namespace).Name()
		if _, ok := scope.Aliases[module]; !ok {
			scope.Aliases[module] = b.Name
		}
	}
	return &Interface{ns: ns, bindings: bindings, scope: scope}
}

// Scope returns how references are qualified inside this module.
func (i *Interface) Scope() pytype.Scope { return i.scope }

// ModuleName returns the name of the underlying module.
func (i *Interface) ModuleName() string { return i.ns.Name() }

// Bindings returns all classified bindings in declaration order.
func (i *Interface) Bindings() []Binding {
	out := make([]Binding, len(i.bindings))
	copy(out, i.bindings)
	return out
}

func (i *Interface) ofKind(kind BindingKind) []Binding {
	var out []Binding
	for _, b := range i.bindings {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Services returns every service binding.
func (i *Interface) Services() []*Service {
	var out []*Service
	for _, b := range i.ofKind(KindService) {
		out = append(out, newService(b.Value.(serviceClass), i.scope))
	}
	return out
}

// Service returns the module's service. Exactly one service binding is
// expected; any other count is a *ServiceCountError.
func (i *Interface) Service() (*Service, error) {
	services := i.ofKind(KindService)
	if len(services) != 1 {
		names := make([]string, len(services))
		for j, b := range services {
			names[j] = b.Name
		}
		return nil, &ServiceCountError{Module: i.ModuleName(), Names: names}
	}
	return newService(services[0].Value.(serviceClass), i.scope), nil
}

// Imports returns the included modules keyed by import alias.
func (i *Interface) Imports() map[string]Namespace {
	out := make(map[string]Namespace)
	for _, b := range i.ofKind(KindImport) {
		out[b.Name] = b.Value.(Namespace)
	}
	return out
}

// ImportNames returns the import aliases in declaration order.
func (i *Interface) ImportNames() []string {
	var out []string
	for _, b := range i.ofKind(KindImport) {
		out = append(out, b.Name)
	}
	return out
}

// UnimportedModules returns the modules that annotations in this module
// reference but that are not bound as imports, such as the target of a
// typedef declared in an included file. They are qualified by their own
// name and need an import of their own.
func (i *Interface) UnimportedModules() ([]string, error) {
	var (
		specs   []thriftmod.Spec
		modules []string
	)
	for _, b := range i.bindings {
		switch b.Kind {
		case KindStruct, KindException:
			specs = append(specs, b.Value.(payloadClass).ThriftSpec().Values()...)
		case KindService:
			svc := b.Value.(serviceClass)
			if s, ok := svc.(*thriftmod.Service); ok && s.Parent != nil {
				modules = append(modules, s.Parent.Module)
			}
			for _, m := range svc.ThriftServices() {
				for _, suffix := range []string{"_args", "_result"} {
					if p, ok := svc.Payload(m + suffix); ok {
						specs = append(specs, p.ThriftSpec().Values()...)
					}
				}
			}
		}
	}
	for _, spec := range specs {
		e, err := wire.ParseEntry(spec)
		if err != nil {
			return nil, err
		}
		modules = append(modules, pytype.Modules(e.Type)...)
	}

	var out []string
	for _, m := range modules {
		if m == "" || m == i.scope.Module || slices.Contains(out, m) {
			continue
		}
		if _, ok := i.scope.Aliases[m]; ok {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Errors returns the exception classes.
func (i *Interface) Errors() []*Exception {
	var out []*Exception
	for _, b := range i.ofKind(KindException) {
		out = append(out, newException(b.Value.(payloadClass), i.scope))
	}
	return out
}

// Structs returns the payload classes that are not exceptions.
func (i *Interface) Structs() []*Struct {
	var out []*Struct
	for _, b := range i.ofKind(KindStruct) {
		out = append(out, newStruct(b.Value.(payloadClass), i.scope))
	}
	return out
}

// Enums returns the enum classes.
func (i *Interface) Enums() []*Enum {
	var out []*Enum
	for _, b := range i.ofKind(KindEnum) {
		out = append(out, newEnum(b.Value.(enumClass)))
	}
	return out
}

// ServiceCountError reports a module that does not declare exactly one
// service.
type ServiceCountError struct {
	Module string
	Names  []string
}

func (e *ServiceCountError) Error() string {
	if len(e.Names) == 0 {
		return fmt.Sprintf("module %s: no service found", e.Module)
	}
	return fmt.Sprintf("module %s: expected exactly one service, found %d: %s",
		e.Module, len(e.Names), strings.Join(e.Names, ", "))
}
