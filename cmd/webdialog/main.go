package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/goliatone/go-webdialog/internal/prompt"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// CLI represents the main CLI structure
type CLI struct {
	Config   string `help:"Config file. Defaults to config.yaml in the user config dir or the working dir."`
	EnvFile  string `default:".env" help:"dotenv file read before the environment."`
	LogLevel string `help:"Log level override (debug, info, warn, error)."`
	Version  kong.VersionFlag `short:"v" help:"Print version and exit."`

	Serve  ServeCmd  `cmd:"" help:"Serve dialogs over HTTP"`
	Render RenderCmd `cmd:"" help:"Render a single dialog"`
	List   ListCmd   `cmd:"" help:"List registered dialogs"`
	Check  CheckCmd  `cmd:"" help:"Check dialog markup against its element contract"`
}

// runtime carries the process dependencies commands write through.
type runtime struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
	driver prompt.Driver
}

func (rt *runtime) promptDriver() prompt.Driver {
	if rt.driver == nil {
		rt.driver = prompt.NewSurveyDriver(rt.stderr)
	}
	return rt.driver
}

func newParser(cli *CLI, rt *runtime, options ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("webdialog"),
		kong.Description("Server-side renderer for webmail dialogs"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"version": version},
		kong.Bind(rt),
	}
	return kong.New(cli, append(base, options...)...)
}

func main() {
	var cli CLI
	rt := &runtime{
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	parser, err := newParser(&cli, rt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitInternal)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
