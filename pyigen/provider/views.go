package provider

import (
	"fmt"

	"github.com/thriftpyi/thriftpyi/pyigen/pytype"
	"github.com/thriftpyi/thriftpyi/pyigen/wire"
	"github.com/thriftpyi/thriftpyi/thriftmod"
)

// Service is a view over a generated service class.
type Service struct {
	Name       string
	ModuleName string

	class serviceClass
	scope pytype.Scope
}

func newService(c serviceClass, scope pytype.Scope) *Service {
	return &Service{Name: c.TypeName(), ModuleName: c.ModuleName(), class: c, scope: scope}
}

// Methods returns the method names in declaration order.
func (s *Service) Methods() []string {
	return s.class.ThriftServices()
}

// Base returns the extended service rendered for this module, or "" when the
// service extends nothing.
func (s *Service) Base() string {
	svc, ok := s.class.(*thriftmod.Service)
	if !ok || svc.Parent == nil {
		return ""
	}
	if q := s.scope.Qualifier(svc.Parent.Module); q != "" {
		return q + "." + svc.Parent.Name
	}
	return svc.Parent.Name
}

// ArgsFor returns the arguments of method in declaration order.
// Arguments read their requiredness marker, so an argument declared
// optional renders as Optional.
func (s *Service) ArgsFor(method string) ([]*Variable, error) {
	args, err := s.payload(method, "_args")
	if err != nil {
		return nil, err
	}
	var out []*Variable
	for _, spec := range args.ThriftSpec().Values() {
		v, err := NewField(spec)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Name, method, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ReturnTypeFor returns the annotation of method's return value, or the
// literal "None" when the method returns nothing.
func (s *Service) ReturnTypeFor(method string) (string, error) {
	result, err := s.payload(method, "_result")
	if err != nil {
		return "", err
	}
	spec, ok := result.ThriftSpec().Get(0)
	if !ok {
		return "None", nil
	}
	v, err := NewVariable(spec)
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", s.Name, method, err)
	}
	return v.RevealTypeIn(s.scope)
}

// Method bundles the rendered signature of one method.
type Method struct {
	Name    string
	Args    []Annotated
	Returns string
}

// Method renders the signature of the named method.
func (s *Service) Method(name string) (*Method, error) {
	vars, err := s.ArgsFor(name)
	if err != nil {
		return nil, err
	}
	args, err := annotateAll(vars, s.scope)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", s.Name, name, err)
	}
	returns, err := s.ReturnTypeFor(name)
	if err != nil {
		return nil, err
	}
	return &Method{Name: name, Args: args, Returns: returns}, nil
}

func (s *Service) payload(method, suffix string) (*thriftmod.Struct, error) {
	p, ok := s.class.Payload(method + suffix)
	if !ok {
		return nil, &UnknownMethodError{Service: s.Name, Method: method}
	}
	return p, nil
}

// UnknownMethodError reports a method the service does not declare.
type UnknownMethodError struct {
	Service string
	Method  string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("service %s has no method %q", e.Service, e.Method)
}

// Struct is a view over a generated struct class.
type Struct struct {
	Name       string
	ModuleName string

	class payloadClass
	scope pytype.Scope
}

func newStruct(c payloadClass, scope pytype.Scope) *Struct {
	return &Struct{Name: c.TypeName(), ModuleName: c.ModuleName(), class: c, scope: scope}
}

// Fields returns the struct fields in declaration order.
// Struct fields are all treated as required, regardless of their marker.
func (s *Struct) Fields() ([]*Variable, error) {
	var out []*Variable
	for _, spec := range s.class.ThriftSpec().Values() {
		v, err := NewVariable(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Annotated returns the fields rendered for the struct's own module.
func (s *Struct) Annotated() ([]Annotated, error) {
	fields, err := s.Fields()
	if err != nil {
		return nil, err
	}
	return annotateAll(fields, s.scope)
}

// Exception is a view over a generated exception class.
type Exception struct {
	Name       string
	ModuleName string

	class payloadClass
	scope pytype.Scope
}

func newException(c payloadClass, scope pytype.Scope) *Exception {
	return &Exception{Name: c.TypeName(), ModuleName: c.ModuleName(), class: c, scope: scope}
}

// Fields returns the exception fields in declaration order, each carrying
// its declared requiredness.
func (e *Exception) Fields() ([]*Variable, error) {
	var out []*Variable
	for _, spec := range e.class.ThriftSpec().Values() {
		v, err := NewField(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Annotated returns the fields rendered for the exception's own module.
func (e *Exception) Annotated() ([]Annotated, error) {
	fields, err := e.Fields()
	if err != nil {
		return nil, err
	}
	return annotateAll(fields, e.scope)
}

// Enum is a view over a generated enum class.
type Enum struct {
	Name       string
	ModuleName string

	class enumClass
}

func newEnum(c enumClass) *Enum {
	return &Enum{Name: c.TypeName(), ModuleName: c.ModuleName(), class: c}
}

// EnumMember is a (name, value) pair.
type EnumMember struct {
	Name  string
	Value int64
}

// Members returns the enum members in declaration order.
func (e *Enum) Members() []EnumMember {
	values := e.class.NamesToValues()
	out := make([]EnumMember, len(values))
	for i, v := range values {
		out[i] = EnumMember{Name: v.Name, Value: v.Value}
	}
	return out
}

// Variable describes one argument, field or return value.
type Variable struct {
	Name     string
	Type     wire.TypeDescriptor
	Required bool
}

// NewVariable builds a Variable from a field spec. Variables are
// required regardless of the spec's marker.
func NewVariable(spec thriftmod.Spec) (*Variable, error) {
	e, err := wire.ParseEntry(spec)
	if err != nil {
		return nil, err
	}
	return &Variable{Name: e.Name, Type: e.Type, Required: true}, nil
}

// NewField builds a Variable that carries the field spec's trailing
// requiredness marker.
func NewField(spec thriftmod.Spec) (*Variable, error) {
	e, err := wire.ParseEntry(spec)
	if err != nil {
		return nil, err
	}
	return &Variable{Name: e.Name, Type: e.Type, Required: e.Required}, nil
}

// RevealTypeFor renders the variable's annotation for an entity declared in
// module.
func (v *Variable) RevealTypeFor(module string) (string, error) {
	return pytype.Annotate(v.Type, v.Required, module)
}

// RevealTypeIn renders the variable's annotation with references qualified
// through scope.
func (v *Variable) RevealTypeIn(scope pytype.Scope) (string, error) {
	return pytype.AnnotateIn(v.Type, v.Required, scope)
}

// Annotated is a name with its rendered annotation.
type Annotated struct {
	Name       string
	Annotation string
}

func annotateAll(vars []*Variable, scope pytype.Scope) ([]Annotated, error) {
	out := make([]Annotated, 0, len(vars))
	for _, v := range vars {
		s, err := v.RevealTypeIn(scope)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.Name, err)
		}
		out = append(out, Annotated{Name: v.Name, Annotation: s})
	}
	return out, nil
}
