// nierarc extracts DAT and PAK archives and converts YAX trees to and from XML.
//
// Usage:
//
//	nierarc dat [flags] <file.dat>...
//	nierarc pak [flags] <file.pak>...
//	nierarc yax2xml <src.yax> <dst.xml>
//	nierarc xml2yax <src.xml> <dst.yax>
//	nierarc ls <archive>
//
// Every archive is extracted into its own directory below --out, named after the
// archive without its extension. Set NIERARC_DEBUG to log at debug level.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
)

// errUsage marks a command line the user has to fix; it exits with status 2.
var errUsage = errors.New("usage error")

type command struct {
	name    string
	summary string
	run     func(env *env, args []string) error
}

var commands = []command{
	{name: "dat", summary: "extract DAT archives", run: runDat},
	{name: "pak", summary: "extract PAK containers", run: runPak},
	{name: "yax2xml", summary: "convert a YAX tree to XML", run: runYaxToXML},
	{name: "xml2yax", summary: "convert an XML document to a YAX tree", run: runXMLToYax},
	{name: "ls", summary: "list the entries of an archive", run: runList},
}

// env is the process surface a command runs against.
type env struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func main() {
	e := &env{stdout: os.Stdout, stderr: os.Stderr}
	e.logger = newLogger(e.stderr, os.Getenv("NIERARC_DEBUG") != "")

	if err := run(e, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(e *env, args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printHelp(e.stderr)
		return nil
	}

	for _, c := range commands {
		if c.name == args[0] {
			return c.run(e, args[1:])
		}
	}

	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// parseFlags parses a subcommand's flags and reports whether help was requested.
func parseFlags(e *env, fs *pflag.FlagSet, usage string, args []string) (bool, error) {
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage:\n  nierarc %s\n\nFlags:\n", usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return true, nil
		}

		return false, fmt.Errorf("%w: %w", errUsage, err)
	}

	return false, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "nierarc extracts game archives and converts YAX trees.\n\nUsage:\n  nierarc <command> [flags] [args]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nRun \"nierarc <command> --help\" for the flags of a command.\n")
}
