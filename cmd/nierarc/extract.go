package main

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/arloliu/nierarc"
	"github.com/arloliu/nierarc/archive"
)

type extractFlags struct {
	out      string
	jobs     int
	manifest bool
	annotate bool
}

func (f *extractFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.out, "out", "o", ".", "directory receiving one subdirectory per archive")
	fs.IntVarP(&f.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of archives extracted in parallel")
	fs.BoolVar(&f.manifest, "manifest", false, "write a JSON manifest next to the extracted files")
	fs.BoolVar(&f.annotate, "annotate", false, "annotate hashed values in XML output with their names")
}

func (f *extractFlags) options(e *env) []archive.Option {
	return []archive.Option{
		archive.WithLogger(e.logger),
		archive.WithManifest(f.manifest),
		archive.WithAnnotations(f.annotate),
	}
}

type extractFunc func(src, dir string, opts ...archive.Option) (archive.Result, error)

func runDat(e *env, args []string) error {
	var flags extractFlags
	var withPak bool

	fs := pflag.NewFlagSet("dat", pflag.ContinueOnError)
	flags.register(fs)
	fs.BoolVar(&withPak, "pak", false, "also extract nested PAK containers, converting their trees to XML")

	if help, err := parseFlags(e, fs, "dat [flags] <file.dat>...", args); help || err != nil {
		return err
	}

	return extractArchives(e, &flags, fs.Args(), func(src, dir string, opts ...archive.Option) (archive.Result, error) {
		return nierarc.ExtractDat(src, dir, withPak, opts...)
	})
}

func runPak(e *env, args []string) error {
	var flags extractFlags
	var raw bool

	fs := pflag.NewFlagSet("pak", pflag.ContinueOnError)
	flags.register(fs)
	fs.BoolVar(&raw, "raw", false, "write YAX entries as they are instead of converting them to XML")

	if help, err := parseFlags(e, fs, "pak [flags] <file.pak>...", args); help || err != nil {
		return err
	}

	return extractArchives(e, &flags, fs.Args(), func(src, dir string, opts ...archive.Option) (archive.Result, error) {
		return nierarc.ExtractPak(src, dir, !raw, opts...)
	})
}

type outcome struct {
	src string
	dir string
	res archive.Result
	err error
}

// extractArchives runs fn over srcs with at most flags.jobs archives in flight and
// prints a summary. It fails when any archive or entry failed.
func extractArchives(e *env, flags *extractFlags, srcs []string, fn extractFunc) error {
	if len(srcs) == 0 {
		return fmt.Errorf("%w: no archive given", errUsage)
	}
	if flags.jobs < 1 {
		return fmt.Errorf("%w: --jobs must be at least 1, got %d", errUsage, flags.jobs)
	}

	dirs, err := outputDirs(flags.out, srcs)
	if err != nil {
		return err
	}

	outcomes := make([]outcome, len(srcs))
	sem := make(chan struct{}, flags.jobs)
	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			e.logger.Debug("extracting", "src", src, "dir", dirs[i])
			res, err := fn(src, dirs[i], flags.options(e)...)
			outcomes[i] = outcome{src: src, dir: dirs[i], res: res, err: err}
		}()
	}
	wg.Wait()

	return report(e.stdout, outcomes)
}

// outputDirs names one destination per archive and rejects two archives that would
// share one.
func outputDirs(out string, srcs []string) ([]string, error) {
	dirs := make([]string, len(srcs))
	seen := make(map[string]string, len(srcs))
	for i, src := range srcs {
		base := filepath.Base(src)
		dir := filepath.Join(out, strings.TrimSuffix(base, filepath.Ext(base)))
		if prev, ok := seen[dir]; ok {
			return nil, fmt.Errorf("%w: %s and %s would both extract into %s", errUsage, prev, src, dir)
		}
		seen[dir] = src
		dirs[i] = dir
	}

	return dirs, nil
}

func report(w io.Writer, outcomes []outcome) error {
	ok := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	failed := 0
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			failed++
			fmt.Fprintf(w, "%s %s: %v\n", fail("FAIL"), o.src, o.err)
		case !o.res.OK():
			failed++
			fmt.Fprintf(w, "%s %s: %d files written to %s, %d entries failed\n",
				warn("PART"), o.src, len(o.res.Paths), o.dir, len(o.res.Failures))
			for _, f := range o.res.Failures {
				fmt.Fprintf(w, "     %s\n", f)
			}
		default:
			fmt.Fprintf(w, "%s %s: %d files written to %s\n", ok("OK"), o.src, len(o.res.Paths), o.dir)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d archives had failures", failed, len(outcomes))
	}

	return nil
}
