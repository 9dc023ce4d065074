package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/thriftpyi/thriftpyi/internal/discover"
	"github.com/thriftpyi/thriftpyi/pyigen"
	"github.com/thriftpyi/thriftpyi/thriftmod"
)

type Cmd struct {
	Interfaces string   `arg:"" optional:"" help:"Directory containing .thrift files (default: from thriftpyi.toml, else current directory)."`
	File       string   `help:"Check a single module by name or relative path." short:"f"`
	Include    []string `help:"Additional include directories." short:"I"`
	Config     string   `help:"Path to thriftpyi.toml (default: search upward)." short:"c" type:"existingfile"`
	NoConfig   bool     `help:"Ignore thriftpyi.toml."`
	Set        []string `help:"Override a config value (key=value, repeatable)." placeholder:"KEY=VALUE" sep:"none"`

	out io.Writer
}

func (c *Cmd) Run(logger *slog.Logger) error {
	cfg, err := pyigen.ProjectConfig(".", c.Config, c.NoConfig, c.Set)
	if err != nil {
		return err
	}
	cfg.IncludeDirs = append(cfg.IncludeDirs, c.Include...)

	files, err := c.files(cfg)
	if err != nil {
		return err
	}

	w := c.out
	if w == nil {
		w = os.Stdout
	}
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	loader := thriftmod.NewLoader(cfg.IncludeDirs...)
	var failed int
	for _, f := range files {
		s, err := pyigen.Check(context.Background(), loader, f.Path)
		if err != nil {
			failed++
			fmt.Fprintf(w, "%s %s: %v\n", bad("✗"), f.Rel, err)
			logger.Debug("check failed", slog.String("file", f.Path), slog.Any("error", err))
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", ok("✓"), f.Rel, describe(s))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	fmt.Fprintf(w, "%s All types resolvable\n", ok("✓"))
	return nil
}

// files picks the inputs: the argument directory, else the files or
// directory named in the config, else the current directory.
func (c *Cmd) files(cfg *pyigen.Config) ([]discover.File, error) {
	var files []discover.File
	switch dir := c.Interfaces; {
	case dir == "" && len(cfg.Files) > 0:
		for _, p := range cfg.Files {
			files = append(files, discover.File{Path: p, Rel: filepath.Base(p), Name: thriftmod.ModuleName(p)})
		}
	default:
		if dir == "" {
			dir = cfg.Interfaces
		}
		if dir == "" {
			dir = "."
		}
		found, err := discover.Find(dir)
		if err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no .thrift files found in %s", dir)
		}
		files = found
	}

	if c.File != "" {
		f, err := discover.SelectFile(files, c.File)
		if err != nil {
			return nil, err
		}
		files = []discover.File{*f}
	}
	return files, nil
}

func describe(s *pyigen.Summary) string {
	svc := "no service"
	if s.Service != "" {
		svc = fmt.Sprintf("service %s (%d methods)", s.Service, s.Methods)
	}
	return fmt.Sprintf("%s, %d structs, %d exceptions, %d enums", svc, s.Structs, s.Exceptions, s.Enums)
}
