package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/arloliu/nierarc"
	"github.com/arloliu/nierarc/xmlbridge"
)

func runYaxToXML(e *env, args []string) error {
	var annotate bool
	fs := pflag.NewFlagSet("yax2xml", pflag.ContinueOnError)
	fs.BoolVar(&annotate, "annotate", false, "annotate hashed values with their names")

	if help, err := parseFlags(e, fs, "yax2xml [flags] <src.yax> <dst.xml>", args); help || err != nil {
		return err
	}
	src, dst, err := pair(fs.Args())
	if err != nil {
		return err
	}

	var opts []xmlbridge.Option
	if annotate {
		opts = append(opts, xmlbridge.WithAnnotations())
	}
	if err := nierarc.ConvertYaxToXMLFile(src, dst, opts...); err != nil {
		return err
	}
	e.logger.Debug("converted", "src", src, "dst", dst)

	return nil
}

func runXMLToYax(e *env, args []string) error {
	fs := pflag.NewFlagSet("xml2yax", pflag.ContinueOnError)
	if help, err := parseFlags(e, fs, "xml2yax <src.xml> <dst.yax>", args); help || err != nil {
		return err
	}
	src, dst, err := pair(fs.Args())
	if err != nil {
		return err
	}

	if err := nierarc.ConvertXMLToYaxFile(src, dst); err != nil {
		return err
	}
	e.logger.Debug("converted", "src", src, "dst", dst)

	return nil
}

func pair(args []string) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("%w: want a source and a destination, got %d arguments", errUsage, len(args))
	}

	return args[0], args[1], nil
}
