package thriftmod

// Spec is one field specification: (ttype, name, meta..., required).
//
// Meta depends on the tag:
//   - struct: the referenced generated class
//   - list, set: the element, either a bare thrift.TType or a Pair
//   - map: a Pair of (key, value), each a bare thrift.TType or a Pair
//   - primitives: none
type Spec []any

// Pair is the (tag, meta) shape nested inside container metadata.
type Pair [2]any

// SpecTable maps field positions to specs in declaration order.
type SpecTable struct {
	order []int
	specs map[int]Spec
}

// NewSpecTable returns an empty table.
func NewSpecTable() *SpecTable {
	return &SpecTable{specs: make(map[int]Spec)}
}

// Set stores the spec for a field position.
func (t *SpecTable) Set(pos int, spec Spec) {
	if _, ok := t.specs[pos]; !ok {
		t.order = append(t.order, pos)
	}
	t.specs[pos] = spec
}

// Get returns the spec at pos.
func (t *SpecTable) Get(pos int) (Spec, bool) {
	if t == nil {
		return nil, false
	}
	s, ok := t.specs[pos]
	return s, ok
}

// Positions returns field positions in declaration order.
func (t *SpecTable) Positions() []int {
	if t == nil {
		return nil
	}
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}

// Values returns the specs in declaration order.
func (t *SpecTable) Values() []Spec {
	if t == nil {
		return nil
	}
	out := make([]Spec, 0, len(t.order))
	for _, pos := range t.order {
		out = append(out, t.specs[pos])
	}
	return out
}

// Len returns the number of specs.
func (t *SpecTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Struct is a generated payload class. Unions and the synthetic
// <method>_args and <method>_result classes are Structs too.
type Struct struct {
	Name   string
	Module string
	Spec   *SpecTable
}

// NewStruct returns a payload class with an empty spec table.
func NewStruct(name, module string) *Struct {
	return &Struct{Name: name, Module: module, Spec: NewSpecTable()}
}

func (s *Struct) TypeName() string       { return s.Name }
func (s *Struct) ModuleName() string     { return s.Module }
func (s *Struct) ThriftSpec() *SpecTable { return s.Spec }
func (s *Struct) String() string         { return s.Module + "." + s.Name }

// Exception is a generated exception class.
type Exception struct {
	Struct
}

// NewException returns an exception class with an empty spec table.
func NewException(name, module string) *Exception {
	return &Exception{Struct: *NewStruct(name, module)}
}

// Args returns the positional constructor arguments of the exception,
// in declaration order. Only exception classes carry it.
func (e *Exception) Args() []string {
	names := make([]string, 0, e.Spec.Len())
	for _, spec := range e.Spec.Values() {
		if len(spec) > 1 {
			if name, ok := spec[1].(string); ok {
				names = append(names, name)
			}
		}
	}
	return names
}

// EnumValue is one member of an enum's name-to-value table.
type EnumValue struct {
	Name  string
	Value int64
}

// Enum is a generated enum class.
type Enum struct {
	Name   string
	Module string
	values []EnumValue
}

// NewEnum returns an enum with no members.
func NewEnum(name, module string) *Enum {
	return &Enum{Name: name, Module: module}
}

// Add appends a member.
func (e *Enum) Add(name string, value int64) {
	e.values = append(e.values, EnumValue{Name: name, Value: value})
}

func (e *Enum) TypeName() string   { return e.Name }
func (e *Enum) ModuleName() string { return e.Module }

// NamesToValues returns the member table in declaration order.
func (e *Enum) NamesToValues() []EnumValue {
	out := make([]EnumValue, len(e.values))
	copy(out, e.values)
	return out
}

// Service is a generated service class.
type Service struct {
	Name   string
	Module string

	// Parent is the extended service, if any.
	Parent *Service

	methods  []string
	payloads map[string]*Struct
}

// NewService returns a service with no methods.
func NewService(name, module string) *Service {
	return &Service{Name: name, Module: module, payloads: make(map[string]*Struct)}
}

// AddMethod registers a method together with its synthetic
// <method>_args and <method>_result payload classes.
func (s *Service) AddMethod(name string, args, result *Struct) {
	s.methods = append(s.methods, name)
	s.payloads[name+"_args"] = args
	s.payloads[name+"_result"] = result
}

func (s *Service) TypeName() string   { return s.Name }
func (s *Service) ModuleName() string { return s.Module }

// ThriftServices returns the method names in declaration order.
func (s *Service) ThriftServices() []string {
	out := make([]string, len(s.methods))
	copy(out, s.methods)
	return out
}

// Payload returns a synthetic payload class by attribute name,
// e.g. "ping_args" or "ping_result".
func (s *Service) Payload(attr string) (*Struct, bool) {
	p, ok := s.payloads[attr]
	return p, ok
}
