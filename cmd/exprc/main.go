// Package main provides the exprc entry point.
//
// exprc compiles one arithmetic expression and evaluates it:
// 1. Lexical Analysis (tokenization)
// 2. Syntax Analysis (parsing)
// 3. IR Generation (value table)
// 4. Optimization (copy propagation, algebraic simplification, dead code elimination)
// 5. Evaluation (prompting for free variables)
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/hassan/exprc/internal/config"
	"github.com/hassan/exprc/internal/debugdump"
	"github.com/hassan/exprc/internal/eval"
	"github.com/hassan/exprc/internal/ir"
	"github.com/hassan/exprc/internal/lexer"
	"github.com/hassan/exprc/internal/optimizer"
	"github.com/hassan/exprc/internal/parser"
	"github.com/hassan/exprc/internal/term"
)

const (
	version  = "1.0.0"
	homepage = "https://github.com/hassan/exprc"

	// inputName is the file name used in positions of the expression.
	inputName = "input"
)

// stdio is what run reads from and writes to.
type stdio struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	// interactive is set when in is a terminal; prompts are only printed
	// then.
	interactive bool

	// color is set when err is a terminal.
	color bool

	// values overrides where variable values come from. When nil they are
	// read from in.
	values eval.ValueSource
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := run(ctx, os.Args[1:], stdio{
		in:          os.Stdin,
		out:         os.Stdout,
		err:         os.Stderr,
		interactive: term.IsTerminalFile(os.Stdin),
		color:       term.IsTerminalFile(os.Stderr),
	})
	os.Exit(code)
}

// run executes one exprc invocation and returns the exit code.
func run(ctx context.Context, args []string, s stdio) (code int) {
	cfg, err := config.Load("exprc", args, s.err)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	if cfg.Version {
		printVersion(s.out)
		return 0
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(s.err, &slog.HandlerOptions{Level: level}))

	in := bufio.NewReader(s.in)
	report := &debugdump.Report{}
	if cfg.DebugFile != "" {
		defer func() {
			if err := report.WriteFile(cfg.DebugFile); err != nil {
				fmt.Fprintf(s.err, "Error writing debug report: %v\n", err)
				code = 1
			}
		}()
	}

	// Read the expression
	input := cfg.Input
	if input == "" {
		if s.interactive {
			fmt.Fprintln(s.out, "Input the source line:")
		}
		input, err = readLine(in)
		if err != nil {
			fmt.Fprintf(s.err, "Error reading input: %v\n", err)
			return 1
		}
	}
	report.Input = input

	// Tokenize
	tokens, err := lexer.New(input, inputName).ScanTokens()
	if err != nil {
		var litErr *lexer.LiteralError
		if errors.As(err, &litErr) {
			fmt.Fprint(s.err, litErr.Highlight(s.color))
		} else {
			fmt.Fprintf(s.err, "%v\n", err)
		}
		return 1
	}
	report.Tokens = tokens

	// Parse
	expr, errs := parser.New(lexer.NewReplay(tokens)).Parse()
	if len(errs) > 0 {
		fmt.Fprintf(s.err, "Parsing errors:\n")
		for _, err := range errs {
			fmt.Fprintf(s.err, "  %v\n", err)
		}
		return 1
	}
	report.Tree = expr

	// Generate IR
	table, err := ir.NewBuilder().Build(expr)
	if err != nil {
		fmt.Fprintf(s.err, "IR generation error: %v\n", err)
		return 1
	}
	report.Table = table

	if cfg.Verify {
		if errs := table.Verify(); len(errs) > 0 {
			fmt.Fprintf(s.err, "IR verification errors:\n")
			for _, err := range errs {
				fmt.Fprintf(s.err, "  %v\n", err)
			}
			return 1
		}
	}
	logger.Debug("built value table", "table", table.String())

	// Optimize
	opt := optimizer.NewOptimizer()
	opt.SetLogger(logger)
	opt.SetVerify(cfg.Verify)
	if cfg.Fold {
		opt.EnableConstantFolding()
	}
	stats, err := opt.Optimize(table)
	if err != nil {
		fmt.Fprintf(s.err, "Optimization error: %v\n", err)
		return 1
	}
	logger.Debug("optimized value table", "table", table.String(), "stats", stats.String())

	// Evaluate
	values := s.values
	if values == nil {
		values = eval.NewPrompter(in, s.out, s.interactive)
	}
	bindings, err := eval.NewBindings(cfg.Presets, values)
	if err != nil {
		fmt.Fprintf(s.err, "%v\n", err)
		return 1
	}
	opts := []eval.Option{eval.WithLogger(logger)}
	if cfg.Trace {
		opts = append(opts, eval.WithTrace(s.out))
	}
	evaluator := eval.New(bindings, opts...)
	result, err := evaluator.Run(ctx, table)
	report.Variables = evaluator.Scope().AllSymbols()
	logger.Debug("variable bindings", "scopes", bindings.Scope().DebugString())
	if err != nil {
		if s.interactive {
			fmt.Fprintln(s.out)
		}
		fmt.Fprintf(s.err, "Evaluation error: %v\n", err)
		return 1
	}
	report.SetResult(result)

	for _, name := range bindings.Unused() {
		logger.Warn("variable set but not used", "name", name)
	}

	fmt.Fprintf(s.out, "Result: %s\n", strconv.FormatFloat(result, 'g', -1, 64))
	return 0
}

// readLine reads one line without its line ending. A last line without a
// newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "exprc: arithmetic expression compiler\n")
	fmt.Fprintf(w, "Version %s\n\n", version)
	fmt.Fprintf(w, "Source code of the program: %s\n", homepage)
}
