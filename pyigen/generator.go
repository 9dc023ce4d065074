// Package pyigen generates Python stub files from Thrift interface files.
//
// Example:
//
//	pyigen.FromDir("./interfaces").
//	    WithAsync().
//	    ToDir("./stubs")
package pyigen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thriftpyi/thriftpyi/internal/discover"
	"github.com/thriftpyi/thriftpyi/pyigen/provider"
	"github.com/thriftpyi/thriftpyi/pyigen/python"
	"github.com/thriftpyi/thriftpyi/pyigen/sink"
	"github.com/thriftpyi/thriftpyi/thriftmod"
)

// Generator provides a fluent API for stub generation.
// Create with FromDir, FromFiles or FromConfig.
type Generator struct {
	cfg Config
}

// FromDir creates a Generator for every .thrift file under dir.
func FromDir(dir string) *Generator {
	return &Generator{cfg: Config{Interfaces: dir}}
}

// FromFiles creates a Generator for the given .thrift files.
func FromFiles(paths ...string) *Generator {
	return &Generator{cfg: Config{Files: paths}}
}

// FromConfig creates a Generator from a loaded configuration.
func FromConfig(cfg *Config) *Generator {
	return &Generator{cfg: *cfg}
}

// WithAsync emits service methods as "async def".
func (g *Generator) WithAsync() *Generator {
	g.cfg.Async = true
	return g
}

// WithoutInit omits __init__ signatures.
func (g *Generator) WithoutInit() *Generator {
	g.cfg.NoInit = true
	return g
}

// Frontmatter adds content below the generated header of every stub.
func (g *Generator) Frontmatter(content string) *Generator {
	g.cfg.Frontmatter = content
	return g
}

// IncludeDirs adds directories searched for included files.
func (g *Generator) IncludeDirs(dirs ...string) *Generator {
	g.cfg.IncludeDirs = append(g.cfg.IncludeDirs, dirs...)
	return g
}

// Jobs limits how many files are processed concurrently.
func (g *Generator) Jobs(n int) *Generator {
	g.cfg.Jobs = n
	return g
}

// Logger sets the logger for progress records.
func (g *Generator) Logger(l *slog.Logger) *Generator {
	g.cfg.Logger = l
	return g
}

// ToDir writes the stubs into dir.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*GenerateResult, error) {
	g.cfg.OutDir = dir
	return Generate(context.Background(), &g.cfg, sink.NewFilesystemSink(dir))
}

// ToSink writes the stubs into out.
func (g *Generator) ToSink(ctx context.Context, out sink.OutputSink) (*GenerateResult, error) {
	return Generate(ctx, &g.cfg, out)
}

// GenerateResult describes a generation run.
type GenerateResult struct {
	// Files lists the written stubs in input order.
	Files []python.OutputFile
}

// Generate writes one stub per input file to out. Files are loaded and
// rendered concurrently; the first failure cancels the rest.
func Generate(ctx context.Context, cfg *Config, out sink.OutputSink) (*GenerateResult, error) {
	if out == nil {
		return nil, fmt.Errorf("output sink is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = applyConfigDefaults(cfg)

	files, err := inputFiles(cfg)
	if err != nil {
		return nil, err
	}

	loader := thriftmod.NewLoader(cfg.IncludeDirs...)
	gen := &python.Generator{}
	opts := python.GenerateOptions{
		Sink: out,
		Config: python.Config{
			Async:       cfg.Async,
			Frontmatter: cfg.Frontmatter,
			IndentSize:  cfg.IndentSize,
			EmitInit:    !cfg.NoInit,
		},
	}

	written := make([]python.OutputFile, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, path := range files {
		g.Go(func() error {
			start := time.Now()
			f, err := generateFile(ctx, loader, gen, path, opts)
			if err != nil {
				cfg.Logger.ErrorContext(ctx, "stub generation failed",
					slog.String("file", path),
					slog.Duration("duration", time.Since(start)),
					slog.Any("error", err),
				)
				return err
			}
			cfg.Logger.InfoContext(ctx, "stub generated",
				slog.String("file", path),
				slog.String("stub", f.Path),
				slog.Duration("duration", time.Since(start)),
			)
			written[i] = *f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &GenerateResult{Files: written}, nil
}

func generateFile(ctx context.Context, loader *thriftmod.Loader, gen *python.Generator, path string, opts python.GenerateOptions) (*python.OutputFile, error) {
	mod, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	f, err := gen.Generate(ctx, provider.NewInterface(mod), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func inputFiles(cfg *Config) ([]string, error) {
	paths := cfg.Files
	if len(paths) == 0 {
		found, err := discover.Find(cfg.Interfaces)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no .thrift files found in %s", cfg.Interfaces)
		}
		for _, f := range found {
			paths = append(paths, f.Path)
		}
	}
	if err := checkModuleNames(paths); err != nil {
		return nil, err
	}
	return paths, nil
}

// checkModuleNames rejects inputs whose stubs would share a path. Stubs are
// written flat as <module>.pyi, and Python could not tell the modules apart.
func checkModuleNames(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		name := thriftmod.ModuleName(p)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("duplicate module name %q: %s and %s", name, prev, p)
		}
		seen[name] = p
	}
	return nil
}
