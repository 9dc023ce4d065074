package thriftmod

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/apache/thrift/lib/go/thrift"
	"go.uber.org/thriftrw/ast"
	"go.uber.org/thriftrw/idl"
)

// Loader parses .thrift files into Modules.
//
// Included files are loaded once per Loader and shared between the modules
// that include them. A Loader is safe for concurrent use; loads are
// serialized.
type Loader struct {
	// IncludeDirs are searched, in order, for include paths that do not
	// resolve relative to the including file.
	IncludeDirs []string

	mu      sync.Mutex
	modules map[string]*Module
}

// NewLoader returns a Loader with an empty module cache.
func NewLoader(includeDirs ...string) *Loader {
	return &Loader{
		IncludeDirs: includeDirs,
		modules:     make(map[string]*Module),
	}
}

// Load parses the file at path and everything it includes.
func (l *Loader) Load(ctx context.Context, path string) (*Module, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.modules == nil {
		l.modules = make(map[string]*Module)
	}
	return l.load(ctx, abs, nil)
}

func (l *Loader) load(ctx context.Context, path string, stack []string) (*Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m, ok := l.modules[path]; ok {
		return m, nil
	}
	if slices.Contains(stack, path) {
		return nil, fmt.Errorf("include cycle: %s", strings.Join(append(stack, path), " -> "))
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	prog, err := idl.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	mod := NewModule(ModuleName(path))
	mod.path = path
	b := &builder{
		mod:      mod,
		includes: make(map[string]*Module),
		classes:  make(map[string]any),
		typedefs: make(map[string]ast.Type),
		visiting: make(map[string]bool),
	}

	for _, h := range prog.Headers {
		inc, ok := h.(*ast.Include)
		if !ok {
			continue
		}
		incPath, err := l.resolveInclude(filepath.Dir(path), inc.Path)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, inc.Line, err)
		}
		child, err := l.load(ctx, incPath, append(stack, path))
		if err != nil {
			return nil, err
		}
		alias := inc.Name
		if alias == "" {
			alias = ModuleName(inc.Path)
		}
		b.includes[alias] = child
		mod.Bind(alias, child)
	}

	if err := b.build(prog.Definitions); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.modules[path] = mod
	return mod, nil
}

func (l *Loader) resolveInclude(dir, include string) (string, error) {
	candidates := []string{filepath.Join(dir, include)}
	for _, d := range l.IncludeDirs {
		candidates = append(candidates, filepath.Join(d, include))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return filepath.Abs(c)
		}
	}
	return "", fmt.Errorf("include %q not found", include)
}

// ModuleName derives a module name from a .thrift file path.
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// resolved is a type reduced to its wire tag and spec metadata.
type resolved struct {
	tag  thrift.TType
	meta any
}

// builder turns the definitions of one file into module bindings.
type builder struct {
	mod      *Module
	includes map[string]*Module
	classes  map[string]any // *Struct, *Exception, *Enum, *Service
	typedefs map[string]ast.Type
	visiting map[string]bool
}

func (b *builder) build(defs []ast.Definition) error {
	name := b.mod.Name()

	// Declare every class first so fields can reference types declared
	// later in the file, including themselves.
	for _, def := range defs {
		switch d := def.(type) {
		case *ast.Struct:
			var cls any
			if d.Type == ast.ExceptionType {
				cls = NewException(d.Name, name)
			} else {
				cls = NewStruct(d.Name, name)
			}
			b.classes[d.Name] = cls
			b.mod.Bind(d.Name, cls)
		case *ast.Enum:
			e := NewEnum(d.Name, name)
			var next int64
			for _, item := range d.Items {
				if item.Value != nil {
					next = int64(*item.Value)
				}
				e.Add(item.Name, next)
				next++
			}
			b.classes[d.Name] = e
			b.mod.Bind(d.Name, e)
		case *ast.Typedef:
			b.typedefs[d.Name] = d.Type
		case *ast.Service:
			svc := NewService(d.Name, name)
			b.classes[d.Name] = svc
			b.mod.Bind(d.Name, svc)
		case *ast.Constant:
			b.mod.Bind(d.Name, constantValue(d.Value))
		}
	}

	for tname := range b.typedefs {
		r, err := b.typedef(tname)
		if err != nil {
			return err
		}
		b.mod.typedefs[tname] = r
	}

	for _, def := range defs {
		switch d := def.(type) {
		case *ast.Struct:
			var spec *SpecTable
			switch cls := b.classes[d.Name].(type) {
			case *Exception:
				spec = cls.Spec
			case *Struct:
				spec = cls.Spec
			}
			for _, f := range d.Fields {
				s, err := b.spec(f.Name, f.Type, f.Requiredness == ast.Required)
				if err != nil {
					return fmt.Errorf("%s.%s: %w", d.Name, f.Name, err)
				}
				spec.Set(f.ID, s)
			}
		case *ast.Service:
			if err := b.service(d); err != nil {
				return fmt.Errorf("service %s: %w", d.Name, err)
			}
		}
	}
	return nil
}

func (b *builder) service(d *ast.Service) error {
	svc := b.classes[d.Name].(*Service)

	if d.Parent != nil {
		parent, err := b.lookupService(d.Parent.Name)
		if err != nil {
			return err
		}
		svc.Parent = parent
	}

	for _, fn := range d.Functions {
		args := NewStruct(fn.Name+"_args", svc.Module)
		for _, p := range fn.Parameters {
			// Arguments are required unless explicitly declared optional.
			s, err := b.spec(p.Name, p.Type, p.Requiredness != ast.Optional)
			if err != nil {
				return fmt.Errorf("%s(%s): %w", fn.Name, p.Name, err)
			}
			args.Spec.Set(p.ID, s)
		}

		result := NewStruct(fn.Name+"_result", svc.Module)
		if fn.ReturnType != nil {
			s, err := b.spec("success", fn.ReturnType, false)
			if err != nil {
				return fmt.Errorf("%s returns: %w", fn.Name, err)
			}
			result.Spec.Set(0, s)
		}
		for _, exc := range fn.Exceptions {
			s, err := b.spec(exc.Name, exc.Type, false)
			if err != nil {
				return fmt.Errorf("%s throws %s: %w", fn.Name, exc.Name, err)
			}
			result.Spec.Set(exc.ID, s)
		}

		svc.AddMethod(fn.Name, args, result)
	}
	return nil
}

func (b *builder) lookupService(name string) (*Service, error) {
	var v any
	var ok bool
	if alias, rest, found := strings.Cut(name, "."); found {
		inc, incOK := b.includes[alias]
		if !incOK {
			return nil, fmt.Errorf("unknown include %q in %q", alias, name)
		}
		v, ok = inc.Lookup(rest)
	} else {
		v, ok = b.classes[name]
	}
	svc, isSvc := v.(*Service)
	if !ok || !isSvc {
		return nil, fmt.Errorf("unknown service %q", name)
	}
	return svc, nil
}

// spec builds a field specification tuple.
func (b *builder) spec(name string, t ast.Type, required bool) (Spec, error) {
	r, err := b.resolve(t)
	if err != nil {
		return nil, err
	}
	s := Spec{r.tag, name}
	if r.meta != nil {
		s = append(s, r.meta)
	}
	return append(s, required), nil
}

func (b *builder) resolve(t ast.Type) (resolved, error) {
	switch t := t.(type) {
	case ast.BaseType:
		return baseType(t.ID)
	case ast.ListType:
		elem, err := b.element(t.ValueType)
		if err != nil {
			return resolved{}, err
		}
		return resolved{tag: TList, meta: elem}, nil
	case ast.SetType:
		elem, err := b.element(t.ValueType)
		if err != nil {
			return resolved{}, err
		}
		return resolved{tag: TSet, meta: elem}, nil
	case ast.MapType:
		key, err := b.element(t.KeyType)
		if err != nil {
			return resolved{}, err
		}
		value, err := b.element(t.ValueType)
		if err != nil {
			return resolved{}, err
		}
		return resolved{tag: TMap, meta: Pair{key, value}}, nil
	case ast.TypeReference:
		return b.reference(t.Name)
	default:
		return resolved{}, fmt.Errorf("unsupported type %v", t)
	}
}

// element returns container metadata: a bare tag for primitives,
// a (tag, meta) pair for everything else.
func (b *builder) element(t ast.Type) (any, error) {
	r, err := b.resolve(t)
	if err != nil {
		return nil, err
	}
	if r.meta == nil {
		return r.tag, nil
	}
	return Pair{r.tag, r.meta}, nil
}

func (b *builder) reference(name string) (resolved, error) {
	if alias, rest, found := strings.Cut(name, "."); found {
		inc, ok := b.includes[alias]
		if !ok {
			return resolved{}, fmt.Errorf("unknown include %q in type %q", alias, name)
		}
		if r, ok := inc.typedefs[rest]; ok {
			return r, nil
		}
		v, _ := inc.Lookup(rest)
		return classType(name, v)
	}

	if _, ok := b.typedefs[name]; ok {
		return b.typedef(name)
	}
	return classType(name, b.classes[name])
}

func (b *builder) typedef(name string) (resolved, error) {
	if r, ok := b.mod.typedefs[name]; ok {
		return r, nil
	}
	if b.visiting[name] {
		return resolved{}, fmt.Errorf("typedef cycle at %q", name)
	}
	b.visiting[name] = true
	defer delete(b.visiting, name)

	r, err := b.resolve(b.typedefs[name])
	if err != nil {
		return resolved{}, fmt.Errorf("typedef %s: %w", name, err)
	}
	b.mod.typedefs[name] = r
	return r, nil
}

// classType maps a referenced class to its wire shape. Enum-typed
// fields travel as i32.
func classType(name string, v any) (resolved, error) {
	switch v := v.(type) {
	case *Struct, *Exception:
		return resolved{tag: TStruct, meta: v}, nil
	case *Enum:
		return resolved{tag: TI32}, nil
	default:
		return resolved{}, fmt.Errorf("unknown type %q", name)
	}
}

func baseType(id ast.BaseTypeID) (resolved, error) {
	switch id {
	case ast.BoolTypeID:
		return resolved{tag: TBool}, nil
	case ast.I8TypeID:
		return resolved{tag: TByte}, nil
	case ast.I16TypeID:
		return resolved{tag: TI16}, nil
	case ast.I32TypeID:
		return resolved{tag: TI32}, nil
	case ast.I64TypeID:
		return resolved{tag: TI64}, nil
	case ast.DoubleTypeID:
		return resolved{tag: TDouble}, nil
	case ast.StringTypeID, ast.BinaryTypeID:
		return resolved{tag: TString}, nil
	default:
		return resolved{}, fmt.Errorf("unsupported base type %v", id)
	}
}

// constantValue converts a constant to the plain value bound in the module.
func constantValue(v ast.ConstantValue) any {
	switch v := v.(type) {
	case ast.ConstantInteger:
		return int64(v)
	case ast.ConstantString:
		return string(v)
	case ast.ConstantDouble:
		return float64(v)
	default:
		return v
	}
}
