package eval

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestPrompter_Value(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		expected    []float64
		prompt      string
	}{
		{
			name:        "interactive",
			input:       "7\n",
			interactive: true,
			expected:    []float64{7},
			prompt:      `Give a value to the variable "x" = `,
		},
		{
			name:     "piped input is not prompted",
			input:    "7\n",
			expected: []float64{7},
		},
		{
			name:     "surrounding space",
			input:    "  -2.5 \r\n",
			expected: []float64{-2.5},
		},
		{
			name:     "last line without newline",
			input:    "1\n2",
			expected: []float64{1, 2},
		},
		{
			name:     "exponent",
			input:    "1e3\n",
			expected: []float64{1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out, tt.interactive)

			for i, want := range tt.expected {
				got, err := p.Value(context.Background(), "x")
				if err != nil {
					t.Fatalf("read %d: unexpected error: %v", i, err)
				}
				if got != want {
					t.Errorf("read %d = %v, want %v", i, got, want)
				}
			}
			if out.String() != tt.prompt {
				t.Errorf("prompt = %q, want %q", out.String(), tt.prompt)
			}
		})
	}
}

func TestPrompter_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{
			name:  "not a number",
			input: "seven\n",
			check: func(err error) bool { return errors.Is(err, strconv.ErrSyntax) },
		},
		{
			name:  "empty line",
			input: "\n",
			check: func(err error) bool { return errors.Is(err, strconv.ErrSyntax) },
		},
		{
			name:  "end of input",
			input: "",
			check: func(err error) bool { return errors.Is(err, io.ErrUnexpectedEOF) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrompter(strings.NewReader(tt.input), io.Discard, false)
			_, err := p.Value(context.Background(), "x")
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPrompter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("1\n"), &out, true)

	if _, err := p.Value(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("cancelled prompter wrote %q", out.String())
	}
}

func TestBindings(t *testing.T) {
	fallback := &scripted{t: t, values: map[string]float64{"b": 2}}
	b, err := NewBindings(map[string]float64{"a": 7, "typo": 1}, fallback)
	if err != nil {
		t.Fatalf("NewBindings failed: %v", err)
	}

	if v, err := b.Value(context.Background(), "a"); err != nil || v != 7 {
		t.Errorf("Value(a) = %v, %v; want 7", v, err)
	}
	if v, err := b.Value(context.Background(), "b"); err != nil || v != 2 {
		t.Errorf("Value(b) = %v, %v; want 2", v, err)
	}
	if !reflect.DeepEqual(fallback.requests, []string{"b"}) {
		t.Errorf("fallback requests = %v, want [b]", fallback.requests)
	}
	if unused := b.Unused(); !reflect.DeepEqual(unused, []string{"typo"}) {
		t.Errorf("Unused() = %v, want [typo]", unused)
	}
	if symbol := b.Scope().LookupLocal("a"); symbol == nil || !symbol.IsPreset() {
		t.Errorf("a is not a preset binding: %v", symbol)
	}
}

func TestBindings_RunScopeIsNested(t *testing.T) {
	fallback := &scripted{t: t, values: map[string]float64{"b": 2}}
	b, err := NewBindings(map[string]float64{"a": 7, "typo": 1}, fallback)
	if err != nil {
		t.Fatalf("NewBindings failed: %v", err)
	}
	e := New(b)

	for run := 0; run < 2; run++ {
		if _, err := e.Run(context.Background(), build(t, "a + b")); err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if e.Scope().Parent != b.Scope() {
			t.Fatalf("run %d: evaluation scope is not nested under the presets", run)
		}
		if e.Scope().Depth != 1 {
			t.Errorf("run %d: depth = %d, want 1", run, e.Scope().Depth)
		}
		// The preset is found through the parent, not bound again.
		if e.Scope().LookupLocal("a") != nil {
			t.Errorf("run %d: preset a was copied into the run scope", run)
		}
	}

	if len(b.Scope().Children) != 2 {
		t.Errorf("preset scope has %d children, want 2", len(b.Scope().Children))
	}
	if !reflect.DeepEqual(fallback.requests, []string{"b", "b"}) {
		t.Errorf("fallback requests = %v, want one per run", fallback.requests)
	}
	if unused := b.Unused(); !reflect.DeepEqual(unused, []string{"typo"}) {
		t.Errorf("Unused() = %v, want [typo]", unused)
	}

	var names []string
	for _, symbol := range e.Scope().AllSymbols() {
		names = append(names, symbol.String())
	}
	want := []string{"resolved b = 2", "preset a = 7", "preset typo = 1"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("AllSymbols() = %v, want %v", names, want)
	}

	expected := "preset scope (depth 0, 2 symbols)\n" +
		"  preset a = 7\n" +
		"  preset typo = 1\n" +
		"  evaluation scope (depth 1, 1 symbols)\n" +
		"    resolved b = 2\n" +
		"  evaluation scope (depth 1, 1 symbols)\n" +
		"    resolved b = 2\n"
	if got := b.Scope().DebugString(); got != expected {
		t.Errorf("DebugString() =\n%s\nwant\n%s", got, expected)
	}
}

func TestBindings_NoFallback(t *testing.T) {
	b, err := NewBindings(nil, nil)
	if err != nil {
		t.Fatalf("NewBindings failed: %v", err)
	}
	if _, err := b.Value(context.Background(), "x"); err == nil {
		t.Error("expected error for an unbound name")
	}
}

func TestBindings_WithEvaluator(t *testing.T) {
	fallback := &scripted{t: t, values: map[string]float64{"b": 5}}
	b, err := NewBindings(map[string]float64{"a": 7}, fallback)
	if err != nil {
		t.Fatalf("NewBindings failed: %v", err)
	}

	result, err := New(b).Run(context.Background(), build(t, "a * b + a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 {
		t.Errorf("result = %v, want 42", result)
	}
	if !reflect.DeepEqual(fallback.requests, []string{"b"}) {
		t.Errorf("fallback requests = %v, want [b]", fallback.requests)
	}
	if len(b.Unused()) != 0 {
		t.Errorf("Unused() = %v, want none", b.Unused())
	}
}
