package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/thriftpyi/thriftpyi/cmd/thriftpyi/internal/check"
	"github.com/thriftpyi/thriftpyi/cmd/thriftpyi/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Log every generated stub." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate .pyi stubs for Thrift interface files."`
	Check   check.Cmd  `cmd:"" help:"Validate interface files without generating stubs."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("thriftpyi"),
		kong.Description("Generate Python type stubs from Thrift interface files."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
