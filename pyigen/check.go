package pyigen

import (
	"context"
	"fmt"

	"github.com/thriftpyi/thriftpyi/pyigen/provider"
	"github.com/thriftpyi/thriftpyi/thriftmod"
)

// Summary counts what a module declares.
type Summary struct {
	File       string
	Module     string
	Service    string // empty for type-only modules
	Methods    int
	Structs    int
	Exceptions int
	Enums      int
	Imports    int
}

// Check loads path and renders every annotation in it without writing
// anything, so unsupported types surface before generation.
func Check(ctx context.Context, loader *thriftmod.Loader, path string) (*Summary, error) {
	mod, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	iface := provider.NewInterface(mod)

	s := &Summary{
		File:    path,
		Module:  iface.ModuleName(),
		Imports: len(iface.ImportNames()),
	}

	for _, st := range iface.Structs() {
		if _, err := st.Annotated(); err != nil {
			return nil, fmt.Errorf("struct %s: %w", st.Name, err)
		}
		s.Structs++
	}
	for _, exc := range iface.Errors() {
		if _, err := exc.Annotated(); err != nil {
			return nil, fmt.Errorf("exception %s: %w", exc.Name, err)
		}
		s.Exceptions++
	}
	s.Enums = len(iface.Enums())

	if len(iface.Services()) == 0 {
		return s, nil
	}
	svc, err := iface.Service()
	if err != nil {
		return nil, err
	}
	s.Service = svc.Name
	for _, name := range svc.Methods() {
		if _, err := svc.Method(name); err != nil {
			return nil, err
		}
		s.Methods++
	}
	return s, nil
}
