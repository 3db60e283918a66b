// Package debugdump writes a YAML report of one compilation: the input, its
// tokens, the expression tree, the optimized table, the variable values and
// the result.
package debugdump

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hassan/exprc/internal/ir"
	"github.com/hassan/exprc/internal/lexer"
	"github.com/hassan/exprc/internal/parser/ast"
	"github.com/hassan/exprc/internal/symtab"
)

// Report collects what each stage produced. Stages that did not run are
// left at their zero value and omitted from the output.
type Report struct {
	Input  string
	Tokens []lexer.Token
	Tree   ast.Expr
	Table  *ir.Table
	Result *float64

	// Variables are the bindings visible to the evaluation, as returned by
	// symtab.Scope.AllSymbols.
	Variables []*symtab.Symbol
}

// SetResult records the evaluated result.
func (r *Report) SetResult(v float64) {
	r.Result = &v
}

// Write encodes the report as YAML to w.
func (r *Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.toDisk()); err != nil {
		return fmt.Errorf("debugdump: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("debugdump: encoder close: %w", err)
	}
	return nil
}

// WriteFile writes the report to path, replacing any existing file.
func (r *Report) WriteFile(path string) error {
	if path == "" {
		return fmt.Errorf("debugdump: empty path")
	}
	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("debugdump: write %s: %w", path, err)
	}
	return nil
}

type reportDisk struct {
	Input     string         `yaml:"input"`
	Tokens    []tokenDisk    `yaml:"tokens,omitempty"`
	Tree      map[string]any `yaml:"tree,omitempty"`
	Table     *ir.Table      `yaml:"table,omitempty"`
	Variables []variableDisk `yaml:"variables,omitempty"`
	Result    *float64       `yaml:"result,omitempty"`
}

type variableDisk struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
	Kind  string  `yaml:"kind"`
	Used  bool    `yaml:"used"`
}

type tokenDisk struct {
	Type     string `yaml:"type"`
	Lexeme   string `yaml:"lexeme,omitempty"`
	Position int    `yaml:"position"`
}

func (r *Report) toDisk() reportDisk {
	disk := reportDisk{
		Input:  r.Input,
		Table:  r.Table,
		Result: r.Result,
	}
	for _, tok := range r.Tokens {
		disk.Tokens = append(disk.Tokens, tokenDisk{
			Type:     tok.Type.String(),
			Lexeme:   tok.Lexeme,
			Position: tok.Position.Offset,
		})
	}
	if r.Tree != nil {
		disk.Tree = ast.Tree(r.Tree)
	}
	for _, symbol := range r.Variables {
		disk.Variables = append(disk.Variables, variableDisk{
			Name:  symbol.Name,
			Value: symbol.Value,
			Kind:  symbol.Kind.String(),
			Used:  symbol.Used,
		})
	}
	return disk
}
