package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/arloliu/nierarc/archive"
	"github.com/arloliu/nierarc/dat"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/pak"
)

func runList(e *env, args []string) error {
	fs := pflag.NewFlagSet("ls", pflag.ContinueOnError)
	if help, err := parseFlags(e, fs, "ls <archive>", args); help || err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: want one archive, got %d arguments", errUsage, fs.NArg())
	}

	src := fs.Arg(0)
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIo, err)
	}

	var entries []archive.Entry
	switch {
	case dat.IsDat(data):
		a, err := dat.Open(data)
		if err != nil {
			return err
		}
		entries = a.Entries()
	case pak.IsPak(data):
		a, err := pak.Open(data)
		if err != nil {
			return err
		}
		entries = a.Entries()
	default:
		return fmt.Errorf("%w: %s is neither a DAT nor a PAK archive", errs.ErrBadMagic, src)
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tKIND\tSIZE\tNAME")
	for _, en := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", en.Index, en.Kind, en.Size, en.Name)
	}

	return tw.Flush()
}
