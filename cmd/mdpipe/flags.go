package main

import (
	flag "github.com/spf13/pflag"
)

// cliFlags holds all command-line flags. Zero values mean "not set" so the
// merge with config file and environment values can tell defaults apart
// from explicit choices.
type cliFlags struct {
	config     string
	out        string
	format     string
	encoding   string
	engine     string
	style      string
	maxNesting int
	verbose    bool
	version    bool
}

// parseFlags parses args (including the program name) and returns the flags
// and the remaining positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("mdpipe", flag.ContinueOnError)

	fs.StringVarP(&f.config, "config", "c", "", "config file path (YAML)")
	fs.StringVarP(&f.out, "out", "o", "", "output file (default: stdout)")
	fs.StringVarP(&f.format, "format", "f", "", "output format: html or tokens")
	fs.StringVar(&f.encoding, "encoding", "", "input charset (default: utf-8)")
	fs.StringVar(&f.engine, "engine", "", "block engine: markdown or goldmark")
	fs.StringVar(&f.style, "chroma-style", "", "chroma style for highlighted code blocks")
	fs.IntVar(&f.maxNesting, "max-nesting", 0, "token tree depth limit (0 = library default)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose diagnostics on stderr")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
