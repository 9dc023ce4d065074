package python

import (
	"bytes"
	"context"
	"fmt"

	"github.com/thriftpyi/thriftpyi/pyigen/provider"
	"github.com/thriftpyi/thriftpyi/pyigen/sink"
)

// Config controls stub formatting.
type Config struct {
	// Async emits service methods as "async def".
	Async bool

	// Frontmatter is copied below the generated-code header.
	Frontmatter string

	// IndentSize is the number of spaces per indent level (default 4).
	IndentSize int

	// EmitInit adds an __init__ signature to struct and exception classes.
	EmitInit bool

	// ExceptionBase is the base class of generated exceptions
	// (default "TException").
	ExceptionBase string

	// ExceptionImport is the import line that provides ExceptionBase
	// (default "from thriftpy2.thrift import TException").
	ExceptionImport string
}

func (c Config) withDefaults() Config {
	if c.IndentSize <= 0 {
		c.IndentSize = 4
	}
	if c.ExceptionBase == "" {
		c.ExceptionBase = "TException"
	}
	if c.ExceptionImport == "" {
		c.ExceptionImport = "from thriftpy2.thrift import TException"
	}
	return c
}

// GenerateOptions configures one generation run.
type GenerateOptions struct {
	// Sink receives the generated stub.
	Sink sink.OutputSink

	// Config controls formatting.
	Config Config
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// Generator writes one <module>.pyi file per Interface.
type Generator struct{}

// Name returns the generator's identifier.
func (g *Generator) Name() string { return "python" }

// Generate renders iface and writes it to opts.Sink.
func (g *Generator) Generate(ctx context.Context, iface *provider.Interface, opts GenerateOptions) (*OutputFile, error) {
	if opts.Sink == nil {
		return nil, fmt.Errorf("no output sink configured")
	}

	var buf bytes.Buffer
	if err := NewEmitter(opts.Config).Emit(&buf, iface); err != nil {
		return nil, err
	}

	path := StubPath(iface.ModuleName())
	if err := opts.Sink.WriteFile(ctx, path, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return &OutputFile{Path: path, Size: int64(buf.Len())}, nil
}

// StubPath returns the stub file name for a module.
func StubPath(module string) string {
	return module + ".pyi"
}
