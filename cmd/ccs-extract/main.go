package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/ccs-extract/internal/logging"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

// rootConfig holds the flags shared by every subcommand
type rootConfig struct {
	debug     bool
	logLevel  string
	logFormat string
	stdout    io.Writer
	stderr    io.Writer
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the command tree and executes the selected command
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg := &rootConfig{stdout: stdout, stderr: stderr}

	rootFlags := ff.NewFlagSet("ccs-extract")
	rootFlags.BoolVar(&cfg.debug, 0, "debug", "Log at debug level and write a debug dump next to each input")
	rootFlags.StringVar(&cfg.logLevel, 0, "log-level", "info", "Log level: debug, info, warn or error")
	rootFlags.StringVar(&cfg.logFormat, 0, "log-format", "text", "Log format: text, json or logfmt")
	rootFlags.StringLong("config", "", "Config file with flag values (one 'flag value' per line)")
	rootFlags.BoolLong("version", "Show version information")

	extractCmd := newExtractCommand(cfg, rootFlags, stdin)
	serveCmd := newServeCommand(cfg, rootFlags)
	runsCmd := newRunsCommand(cfg, rootFlags)

	root := &ff.Command{
		Name:        "ccs-extract",
		Usage:       "ccs-extract [FLAGS] <SUBCOMMAND> ...",
		ShortHelp:   "Extract credit card statement transactions to CSV",
		Flags:       rootFlags,
		Subcommands: []*ff.Command{extractCmd, serveCmd, runsCmd},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}

	err := root.Parse(withDefaultCommand(args, root.Subcommands),
		ff.WithEnvVarPrefix("CCS_EXTRACT"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Command(root.GetSelected()))
		return err
	}

	if err := cfg.setupLogging(); err != nil {
		return err
	}

	if err := root.Run(ctx); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			fmt.Fprintf(stderr, "%s\n", ffhelp.Command(root.GetSelected()))
		}
		return err
	}
	return nil
}

// withDefaultCommand runs extract when no subcommand is named, so
// "ccs-extract statement.pdf" works like "ccs-extract extract statement.pdf"
func withDefaultCommand(args []string, subcommands []*ff.Command) []string {
	if len(args) == 0 {
		return []string{"extract"}
	}
	switch args[0] {
	case "-h", "--help", "-help":
		return args
	}
	for _, cmd := range subcommands {
		if args[0] == cmd.Name {
			return args
		}
	}
	return append([]string{"extract"}, args...)
}

// setupLogging installs the default logger from the root flags
func (c *rootConfig) setupLogging() error {
	level := c.logLevel
	if c.debug {
		level = "debug"
	}
	if _, err := logging.Setup(c.stderr, level, logging.Format(c.logFormat)); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	return nil
}
