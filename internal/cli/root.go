// Package cli implements the alytica command line tool, which sends a single
// event using settings from a config file and ALYTICA_* variables.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/randalmurphal/alytica/pkg/alytica"
	"github.com/randalmurphal/alytica/pkg/alytica/config"
)

type command struct {
	name        string
	description string
	configure   func(fs *flag.FlagSet)
	run         func(ctx context.Context, fs *flag.FlagSet, client *alytica.Client, stdout io.Writer) error
}

// RootCommand parses global flags and dispatches to a subcommand.
type RootCommand struct {
	commands map[string]command
	stdout   io.Writer
	stderr   io.Writer

	configPath string
	apiURL     string
	debug      bool
	logFormat  string
}

// NewRootCommand constructs the CLI dispatcher.
func NewRootCommand() *RootCommand {
	rc := &RootCommand{
		commands: make(map[string]command),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}

	rc.register(newTrackCommand())
	rc.register(newIdentifyCommand())
	rc.register(newAliasCommand())

	return rc
}

func (rc *RootCommand) register(cmd command) {
	rc.commands[cmd.name] = cmd
}

// Execute evaluates args, builds a client and runs the chosen subcommand.
func (rc *RootCommand) Execute(args []string) error {
	rootFlags := flag.NewFlagSet("alytica", flag.ContinueOnError)
	rootFlags.SetOutput(rc.stderr)
	rootFlags.Usage = func() { rc.printHelp() }

	rootFlags.StringVar(&rc.configPath, "config", "", "Path to a YAML or JSON config file")
	rootFlags.StringVar(&rc.apiURL, "api-url", "", "Override the collection API URL")
	rootFlags.BoolVar(&rc.debug, "debug", false, "Trace outgoing envelopes")
	rootFlags.StringVar(&rc.logFormat, "log-format", "text", "Debug log format (text, json)")

	if err := rootFlags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	remaining := rootFlags.Args()
	if len(remaining) == 0 {
		rc.printHelp()
		return nil
	}

	sub, ok := rc.commands[remaining[0]]
	if !ok {
		fmt.Fprintf(rc.stderr, "Unknown command %q\n\n", remaining[0])
		rc.printHelp()
		return fmt.Errorf("unknown command %q", remaining[0])
	}

	fs := flag.NewFlagSet(sub.name, flag.ContinueOnError)
	fs.SetOutput(rc.stderr)
	fs.Usage = func() {
		fmt.Fprintf(rc.stdout, "Usage: alytica %s [flags]\n", sub.name)
		fmt.Fprintln(rc.stdout, sub.description)
		fs.PrintDefaults()
	}
	if sub.configure != nil {
		sub.configure(fs)
	}
	if err := fs.Parse(remaining[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	client, err := rc.buildClient()
	if err != nil {
		fmt.Fprintf(rc.stderr, "error: %v\n", err)
		return err
	}

	if err := sub.run(context.Background(), fs, client, rc.stdout); err != nil {
		fmt.Fprintf(rc.stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig layers flags over the environment and config file.
func (rc *RootCommand) loadConfig() (config.Config, error) {
	base, err := config.Load(rc.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := map[string]any{}
	if rc.apiURL != "" {
		flags[config.KeyAPIURL] = rc.apiURL
	}
	if rc.debug {
		flags[config.KeyDebug] = true
	}

	return config.Merge(base, config.New(flags)), nil
}

func (rc *RootCommand) buildClient() (*alytica.Client, error) {
	cfg, err := rc.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(rc.logFormat, rc.stderr)
	if err != nil {
		return nil, err
	}

	clientCfg, err := alytica.ConfigFrom(cfg)
	if err != nil {
		return nil, err
	}

	return alytica.New(clientCfg,
		alytica.WithLogger(logger),
		alytica.WithGlobalProperties(alytica.GlobalPropertiesFrom(cfg)),
	)
}

func newLogger(format string, out io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "console":
		return slog.New(slog.NewTextHandler(out, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
}

func (rc *RootCommand) printHelp() {
	fmt.Fprintln(rc.stdout, "alytica - send analytics events")
	fmt.Fprintln(rc.stdout, "")
	fmt.Fprintln(rc.stdout, "Usage: alytica [global flags] <command> [command flags]")
	fmt.Fprintln(rc.stdout, "Global flags:")
	fmt.Fprintln(rc.stdout, "  -config string      Path to a YAML or JSON config file")
	fmt.Fprintln(rc.stdout, "  -api-url string     Override the collection API URL")
	fmt.Fprintln(rc.stdout, "  -debug              Trace outgoing envelopes")
	fmt.Fprintln(rc.stdout, "  -log-format string  Debug log format (text, json)")
	fmt.Fprintln(rc.stdout, "")
	fmt.Fprintln(rc.stdout, "Available commands:")

	names := make([]string, 0, len(rc.commands))
	for name := range rc.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(rc.stdout, "  %-10s %s\n", name, rc.commands[name].description)
	}
}
