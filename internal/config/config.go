// Package config reads the exprc command line.
//
// Every setting has an environment variable that supplies its default, so
// that a flag always overrides the environment:
//
//	EXPRC_INPUT       -i, -input-line
//	EXPRC_DEBUG_FILE  -o, -debug-file
//	EXPRC_VERBOSE     -v, -verbose
//	EXPRC_TRACE       -trace
//	EXPRC_VERIFY      -verify
//	EXPRC_FOLD        -fold
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/hassan/exprc/internal/lexer"
)

// Config is the configuration of one exprc run.
type Config struct {
	// Input is the expression to compile. Empty means read it from stdin.
	Input string

	// DebugFile is where the YAML debug report is written. Empty means no
	// report.
	DebugFile string

	// Presets are variable values given with -set.
	Presets map[string]float64

	// Verbose enables debug logging of the optimizer passes.
	Verbose bool

	// Trace prints every value the evaluator stores.
	Trace bool

	// Verify checks the table after building and after every pass.
	Verify bool

	// Fold enables constant folding before dead code elimination.
	Fold bool

	// Version asks for the version banner instead of a compilation.
	Version bool
}

// Load parses args, not including the program name. Usage and flag errors
// are written to output. Load returns flag.ErrHelp for -h.
func Load(name string, args []string, output io.Writer) (*Config, error) {
	cfg := &Config{
		Presets: make(map[string]float64),
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	// env caches the whole environment on first use. Reload it so that
	// every Load sees variables set since the previous one.
	env.Load()

	input := env.Str("EXPRC_INPUT")
	fs.StringVar(&cfg.Input, "i", input, "expression to compile (default: read one line from stdin)")
	fs.StringVar(&cfg.Input, "input-line", input, "same as -i")

	debugFile := env.Str("EXPRC_DEBUG_FILE")
	fs.StringVar(&cfg.DebugFile, "o", debugFile, "write a YAML debug report to `file`")
	fs.StringVar(&cfg.DebugFile, "debug-file", debugFile, "same as -o")

	verbose := env.Bool("EXPRC_VERBOSE")
	fs.BoolVar(&cfg.Verbose, "v", verbose, "log optimizer passes")
	fs.BoolVar(&cfg.Verbose, "verbose", verbose, "same as -v")

	fs.BoolVar(&cfg.Trace, "trace", env.Bool("EXPRC_TRACE"), "print every evaluated value")
	fs.BoolVar(&cfg.Verify, "verify", env.Bool("EXPRC_VERIFY"), "check the value table after every stage")
	fs.BoolVar(&cfg.Fold, "fold", env.Bool("EXPRC_FOLD"), "fold constant operations")
	fs.BoolVar(&cfg.Version, "version", false, "print the version and exit")

	fs.Func("set", "`name=value` variable definition (any number of times)", func(s string) error {
		name, value, err := parsePreset(s)
		if err != nil {
			return err
		}
		if _, ok := cfg.Presets[name]; ok {
			return fmt.Errorf("variable %s is set more than once", name)
		}
		cfg.Presets[name] = value
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments %q (quote the expression and pass it with -i)", fs.Args())
		fmt.Fprintln(output, err)
		fs.Usage()
		return nil, err
	}
	return cfg, nil
}

// parsePreset splits "name=value". The name must be a variable name as the
// lexer reads it, so that a typo cannot bind something no expression can
// refer to.
func parsePreset(s string) (string, float64, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)

	tokens, err := lexer.New(name, "-set").ScanTokens()
	if err != nil || len(tokens) != 2 || tokens[0].Type != lexer.TokenVariable {
		return "", 0, fmt.Errorf("%q is not a variable name", name)
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", 0, fmt.Errorf("value of %s: %w", name, err)
	}
	return name, v, nil
}
