package app

import (
	"flag"
	"fmt"
	"io"
)

// Command is the mode the binary runs in.
type Command string

const (
	// CommandServe runs the price poller and the metrics endpoint.
	CommandServe Command = "serve"
	// CommandDemo fills a cart from the catalog and walks one checkout to success.
	CommandDemo Command = "demo"
	// CommandHealthcheck probes a running instance, for container health checks.
	CommandHealthcheck Command = "healthcheck"
)

type Options struct {
	Command    Command
	ConfigPath string
	Language   string
}

// ParseArgs reads the subcommand followed by its flags.
// An empty or unknown subcommand means serve.
func ParseArgs(args []string, output io.Writer) (Options, error) {
	opts := Options{Command: CommandServe}

	if len(args) > 0 {
		switch Command(args[0]) {
		case CommandServe, CommandDemo, CommandHealthcheck:
			opts.Command = Command(args[0])
			args = args[1:]
		}
	}

	fs := flag.NewFlagSet(string(opts.Command), flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	fs.StringVar(&opts.Language, "lang", "it", "catalog language for the demo")

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("fs.Parse: %w", err)
	}

	return opts, nil
}
