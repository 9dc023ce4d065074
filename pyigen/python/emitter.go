// Package python emits Python stub files (.pyi) for loaded Thrift modules.
package python

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/thriftpyi/thriftpyi/pyigen/provider"
)

// Emitter writes the stub text for one module.
type Emitter struct {
	config Config
	indent string
}

// NewEmitter returns an Emitter for cfg. Zero fields take their defaults.
func NewEmitter(cfg Config) *Emitter {
	cfg = cfg.withDefaults()
	return &Emitter{config: cfg, indent: strings.Repeat(" ", cfg.IndentSize)}
}

// Emit writes the complete stub for iface.
func (e *Emitter) Emit(buf *bytes.Buffer, iface *provider.Interface) error {
	services := iface.Services()
	var svc *provider.Service
	switch len(services) {
	case 0:
		// Type-only modules have no service class.
	case 1:
		svc = services[0]
	default:
		_, err := iface.Service()
		return err
	}

	enums := iface.Enums()
	structs := iface.Structs()
	errs := iface.Errors()

	if err := e.emitHeader(buf, iface, len(enums) > 0, len(errs) > 0); err != nil {
		return err
	}

	for _, enum := range enums {
		buf.WriteString("\n\n")
		e.emitEnum(buf, enum)
	}
	for _, s := range structs {
		fields, err := s.Annotated()
		if err != nil {
			return fmt.Errorf("struct %s: %w", s.Name, err)
		}
		buf.WriteString("\n\n")
		e.emitClass(buf, s.Name, "", fields)
	}
	for _, exc := range errs {
		fields, err := exc.Annotated()
		if err != nil {
			return fmt.Errorf("exception %s: %w", exc.Name, err)
		}
		buf.WriteString("\n\n")
		e.emitClass(buf, exc.Name, e.config.ExceptionBase, fields)
	}
	if svc != nil {
		buf.WriteString("\n\n")
		if err := e.emitService(buf, svc); err != nil {
			return fmt.Errorf("service %s: %w", svc.Name, err)
		}
	}
	return nil
}

func (e *Emitter) emitHeader(buf *bytes.Buffer, iface *provider.Interface, hasEnums, hasErrors bool) error {
	buf.WriteString("# Code generated by thriftpyi. DO NOT EDIT.\n")
	buf.WriteString("# module: ")
	buf.WriteString(iface.ModuleName())
	buf.WriteString("\n")
	if e.config.Frontmatter != "" {
		buf.WriteString(strings.TrimRight(e.config.Frontmatter, "\n"))
		buf.WriteString("\n")
	}
	buf.WriteString("\n")

	if hasEnums {
		buf.WriteString("from enum import IntEnum\n")
	}
	buf.WriteString("from typing import *\n")

	if hasErrors {
		buf.WriteString("\n")
		buf.WriteString(e.config.ExceptionImport)
		buf.WriteString("\n")
	}

	imports, err := importLines(iface)
	if err != nil {
		return err
	}
	if len(imports) > 0 {
		buf.WriteString("\n")
		for _, line := range imports {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	return nil
}

// importLines returns the sorted import statements of the stub. Includes
// bound under an alias other than their module name are imported "as" the
// alias, since references into them are qualified by it.
func importLines(iface *provider.Interface) ([]string, error) {
	var lines []string
	for alias, ns := range iface.Imports() {
		if module := ns.Name(); module != alias {
			lines = append(lines, "import "+module+" as "+alias)
			continue
		}
		lines = append(lines, "import "+alias)
	}

	extra, err := iface.UnimportedModules()
	if err != nil {
		return nil, err
	}
	for _, module := range extra {
		lines = append(lines, "import "+module)
	}
	slices.Sort(lines)
	return lines, nil
}

func (e *Emitter) emitEnum(buf *bytes.Buffer, enum *provider.Enum) {
	buf.WriteString("class ")
	buf.WriteString(enum.Name)
	buf.WriteString("(IntEnum):\n")

	members := enum.Members()
	if len(members) == 0 {
		buf.WriteString(e.indent)
		buf.WriteString("...\n")
		return
	}
	for _, m := range members {
		fmt.Fprintf(buf, "%s%s = %d\n", e.indent, m.Name, m.Value)
	}
}

// emitClass writes a payload class: annotated attributes followed by an
// __init__ whose parameters all default.
func (e *Emitter) emitClass(buf *bytes.Buffer, name, base string, fields []provider.Annotated) {
	buf.WriteString("class ")
	buf.WriteString(name)
	if base != "" {
		buf.WriteString("(")
		buf.WriteString(base)
		buf.WriteString(")")
	}
	buf.WriteString(":\n")

	if len(fields) == 0 {
		buf.WriteString(e.indent)
		buf.WriteString("...\n")
		return
	}

	for _, f := range fields {
		buf.WriteString(e.indent)
		buf.WriteString(f.Name)
		buf.WriteString(": ")
		buf.WriteString(f.Annotation)
		buf.WriteString("\n")
	}

	if !e.config.EmitInit {
		return
	}
	buf.WriteString("\n")
	buf.WriteString(e.indent)
	buf.WriteString("def __init__(self")
	for _, f := range fields {
		buf.WriteString(", ")
		buf.WriteString(f.Name)
		buf.WriteString(": ")
		buf.WriteString(f.Annotation)
		buf.WriteString(" = ...")
	}
	buf.WriteString(") -> None: ...\n")
}

func (e *Emitter) emitService(buf *bytes.Buffer, svc *provider.Service) error {
	buf.WriteString("class ")
	buf.WriteString(svc.Name)
	if base := svc.Base(); base != "" {
		buf.WriteString("(")
		buf.WriteString(base)
		buf.WriteString(")")
	}
	buf.WriteString(":\n")

	methods := svc.Methods()
	if len(methods) == 0 {
		buf.WriteString(e.indent)
		buf.WriteString("...\n")
		return nil
	}

	for _, name := range methods {
		m, err := svc.Method(name)
		if err != nil {
			return err
		}
		buf.WriteString(e.indent)
		if e.config.Async {
			buf.WriteString("async ")
		}
		buf.WriteString("def ")
		buf.WriteString(m.Name)
		buf.WriteString("(self")
		for _, arg := range m.Args {
			buf.WriteString(", ")
			buf.WriteString(arg.Name)
			buf.WriteString(": ")
			buf.WriteString(arg.Annotation)
		}
		buf.WriteString(") -> ")
		buf.WriteString(m.Returns)
		buf.WriteString(": ...\n")
	}
	return nil
}
