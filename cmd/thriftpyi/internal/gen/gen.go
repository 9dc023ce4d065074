package gen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/thriftpyi/thriftpyi/pyigen"
	"github.com/thriftpyi/thriftpyi/pyigen/sink"
)

type Cmd struct {
	Interfaces string   `arg:"" optional:"" help:"Directory containing .thrift files."`
	Out        string   `help:"Output directory for generated stubs." short:"o" name:"output"`
	Async      bool     `help:"Emit service methods as async def." short:"a"`
	NoInit     bool     `help:"Omit __init__ signatures." name:"no-init"`
	Include    []string `help:"Additional include directories." short:"I"`
	Jobs       int      `help:"Files processed concurrently (0 = one per CPU)." short:"j"`
	Config     string   `help:"Path to thriftpyi.toml (default: search upward)." short:"c" type:"existingfile"`
	NoConfig   bool     `help:"Ignore thriftpyi.toml."`
	Set        []string `help:"Override a config value (key=value, repeatable)." placeholder:"KEY=VALUE" sep:"none"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	cfg.Logger = logger

	if cfg.OutDir == "" {
		return fmt.Errorf("no output directory: pass --output or set output in %s", pyigen.ConfigFile)
	}
	outDir, err := filepath.Abs(cfg.OutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	result, err := pyigen.Generate(context.Background(), cfg, sink.NewFilesystemSink(outDir))
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d stubs to %s\n", len(result.Files), outDir)
	return nil
}

// config merges thriftpyi.toml, --set overrides and flags, in that order.
func (c *Cmd) config() (*pyigen.Config, error) {
	cfg, err := pyigen.ProjectConfig(".", c.Config, c.NoConfig, c.Set)
	if err != nil {
		return nil, err
	}

	if c.Interfaces != "" {
		cfg.Interfaces = c.Interfaces
		cfg.Files = nil
	}
	if c.Out != "" {
		cfg.OutDir = c.Out
	}
	if c.Async {
		cfg.Async = true
	}
	if c.NoInit {
		cfg.NoInit = true
	}
	if c.Jobs != 0 {
		cfg.Jobs = c.Jobs
	}
	cfg.IncludeDirs = append(cfg.IncludeDirs, c.Include...)
	if cfg.Interfaces == "" && len(cfg.Files) == 0 {
		cfg.Interfaces = "."
	}
	return cfg, nil
}
