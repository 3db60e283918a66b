package parser

import (
	"errors"
	"testing"

	"github.com/hassan/exprc/internal/lexer"
	"github.com/hassan/exprc/internal/parser/ast"
)

func parse(source string) (ast.Expr, []error) {
	return New(lexer.New(source, "test")).Parse()
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"number", "42", "42"},
		{"fraction", "11.00", "11"},
		{"trailing dot", "5.", "5"},
		{"variable", "var123", "var123"},
		{"addition", "1 + 2", "(1 + 2)"},
		{"left associative minus", "1 - 2 - 3", "((1 - 2) - 3)"},
		{"left associative division", "8 / 4 / 2", "((8 / 4) / 2)"},
		{"factor binds tighter", "1 + 2 * 3", "(1 + (2 * 3))"},
		{"factor first", "1 * 2 + 3", "((1 * 2) + 3)"},
		{"grouping", "(1 + 2) * 3", "(((1 + 2)) * 3)"},
		{"unary", "-x", "(-x)"},
		{"unary binds tighter than factor", "-a * b", "((-a) * b)"},
		{"unary after operator", "2 * -3", "(2 * (-3))"},
		{"nested unary", "-(-(3))", "(-((-(3))))"},
		{"double minus", "1 - -1", "(1 - (-1))"},
		{"mixed", "1 + 11.00 - 1000 / var123 * (5 - 2)", "((1 + 11) - ((1000 / var123) * ((5 - 2))))"},
		{"whitespace", " \t1\n+\r2 ", "(1 + 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, errs := parse(tt.source)
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if got := ast.String(expr); got != tt.expected {
				t.Errorf("parse(%q) = %s, want %s", tt.source, got, tt.expected)
			}
		})
	}
}

func TestParse_Nodes(t *testing.T) {
	expr, errs := parse("1 + x")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	bin, ok := expr.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpr, got %T", expr)
	}
	if bin.Operator.Type != lexer.TokenAdd || bin.Operator.Position.Offset != 2 {
		t.Errorf("unexpected operator %v", bin.Operator)
	}
	if n, ok := bin.Left.(*ast.NumberExpr); !ok || n.Value != 1 {
		t.Errorf("unexpected left operand %#v", bin.Left)
	}
	if v, ok := bin.Right.(*ast.VariableExpr); !ok || v.Name != "x" {
		t.Errorf("unexpected right operand %#v", bin.Right)
	}
}

func TestParse_FromScannedTokens(t *testing.T) {
	tests := []struct {
		source   string
		expected string
		err      string
	}{
		{source: "a + 0 * b", expected: "(a + (0 * b))"},
		{source: "(1 + 2", err: "test:1:7: expected ')' after expression, got end of input"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tokens, err := lexer.New(tt.source, "test").ScanTokens()
			if err != nil {
				t.Fatalf("scan: %v", err)
			}
			expr, errs := New(lexer.NewReplay(tokens)).Parse()
			if tt.err != "" {
				if len(errs) != 1 || errs[0].Error() != tt.err {
					t.Errorf("errors = %v, want [%s]", errs, tt.err)
				}
				return
			}
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if got := ast.String(expr); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"empty", "", "test:1:1: expected expression, got end of input"},
		{"dangling operator", "1 +", "test:1:4: expected expression, got end of input"},
		{"missing close bracket", "(1 + 2", "test:1:7: expected ')' after expression, got end of input"},
		{"stray close bracket", "1 + 2)", "test:1:6: unexpected \")\" after expression"},
		{"adjacent operands", "1 2", "test:1:3: unexpected \"2\" after expression"},
		{"leading operator", "* 2", "test:1:1: expected expression, got \"*\""},
		{"unary plus", "+1", "test:1:1: expected expression, got \"+\""},
		{"empty group", "()", "test:1:2: expected expression, got \")\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, errs := parse(tt.source)
			if expr != nil {
				t.Errorf("expected nil tree, got %s", ast.String(expr))
			}
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if errs[0].Error() != tt.message {
				t.Errorf("error = %q, want %q", errs[0].Error(), tt.message)
			}
		})
	}
}

func TestParse_LexerError(t *testing.T) {
	tests := []struct {
		name   string
		source string
		offset int
	}{
		{"first token", "&", 0},
		{"inside expression", "1 + 2 & 3", 6},
		{"inside group", "(1 $ 2)", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, errs := parse(tt.source)
			if expr != nil {
				t.Errorf("expected nil tree")
			}
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			var litErr *lexer.LiteralError
			if !errors.As(errs[0], &litErr) {
				t.Fatalf("expected *lexer.LiteralError, got %T: %v", errs[0], errs[0])
			}
			if litErr.Pos() != tt.offset {
				t.Errorf("offset = %d, want %d", litErr.Pos(), tt.offset)
			}
		})
	}
}

func FuzzParse(f *testing.F) {
	f.Add("1 + 2")
	f.Add("(1 + 2) * 3")
	f.Add("-(-(3))")
	f.Add("a + 0 * b")
	f.Add("1 +")
	f.Fuzz(func(t *testing.T, source string) {
		expr, errs := parse(source)
		if (expr == nil) == (len(errs) == 0) {
			t.Fatalf("expected either a tree or errors, got %v and %v", expr, errs)
		}
		if expr == nil {
			return
		}
		// The printed form is itself valid input.
		printed := ast.String(expr)
		if _, errs := parse(printed); len(errs) > 0 {
			t.Fatalf("reparse of %q failed: %v", printed, errs)
		}
	})
}
