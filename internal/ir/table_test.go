package ir

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNewTable(t *testing.T) {
	table := NewTable()

	want := map[Position]float64{MinusOne: -1, Zero: 0, One: 1}
	if !reflect.DeepEqual(table.Constants, want) {
		t.Errorf("Constants = %v, want %v", table.Constants, want)
	}
	if table.Next() != FirstUser {
		t.Errorf("Next() = %d, want %d", table.Next(), FirstUser)
	}
	for p := range want {
		if users, ok := table.Uses[p]; !ok || len(users) != 0 {
			t.Errorf("reserved %s should have an empty uses entry", p)
		}
	}
	if errs := table.Verify(); len(errs) != 0 {
		t.Errorf("fresh table does not verify: %v", errs)
	}

	// Tables share nothing.
	other := NewTable()
	other.Constants[Zero] = 42
	if table.Constants[Zero] != 0 {
		t.Error("NewTable returned shared state")
	}
}

func TestTable_AddOperation(t *testing.T) {
	table := NewTable()
	x := table.AddVariable("x")
	op := table.AddOperation(x, OpAdd, x)

	if op != x+1 {
		t.Errorf("positions not allocated in order: %s after %s", op, x)
	}
	if got := table.Users(x); !reflect.DeepEqual(got, []Position{op}) {
		t.Errorf("Users(x) = %v, want [%s]", got, op)
	}
	if _, ok := table.Uses[op]; !ok {
		t.Error("new operation has no uses entry")
	}
}

func TestTable_LookupConstant(t *testing.T) {
	table := NewTable()
	half := table.AddConstant(0.5)
	table.AddConstant(0.5)

	tests := []struct {
		name  string
		value float64
		want  Position
		found bool
	}{
		{"reserved minus one", -1, MinusOne, true},
		{"reserved zero", 0, Zero, true},
		{"negative zero equals zero", math.Copysign(0, -1), Zero, true},
		{"reserved one", 1, One, true},
		{"lowest position wins", 0.5, half, true},
		{"exact equality only", 0.5000000001, 0, false},
		{"missing", 7, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := table.LookupConstant(tt.value)
			if found != tt.found || (found && got != tt.want) {
				t.Errorf("LookupConstant(%v) = %s, %v; want %s, %v", tt.value, got, found, tt.want, tt.found)
			}
		})
	}
}

func TestTable_Replace(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Table) (from, to Position)
		validate func(*testing.T, *Table, Position, Position)
	}{
		{
			name: "patches both operand fields",
			setup: func(table *Table) (Position, Position) {
				x := table.AddVariable("x")
				a := table.AddOperation(x, OpMul, One)
				table.Output = table.AddOperation(a, OpSub, a)
				return a, x
			},
			validate: func(t *testing.T, table *Table, from, to Position) {
				op := table.Operations[table.Output]
				if op.Left != to || op.Right != to {
					t.Errorf("user not patched: %s", op)
				}
				if _, ok := table.Uses[to][table.Output]; !ok {
					t.Error("user not moved into the uses of the replacement")
				}
			},
		},
		{
			name: "retargets output",
			setup: func(table *Table) (Position, Position) {
				x := table.AddVariable("x")
				table.Output = table.AddOperation(x, OpAdd, Zero)
				return table.Output, x
			},
			validate: func(t *testing.T, table *Table, from, to Position) {
				if table.Output != to {
					t.Errorf("Output = %s, want %s", table.Output, to)
				}
			},
		},
		{
			name: "keeps the replaced record",
			setup: func(table *Table) (Position, Position) {
				x := table.AddVariable("x")
				a := table.AddOperation(x, OpMul, Zero)
				table.Output = table.AddOperation(a, OpAdd, x)
				return a, Zero
			},
			validate: func(t *testing.T, table *Table, from, to Position) {
				if _, ok := table.Operations[from]; !ok {
					t.Error("replaced record was deleted")
				}
				if !table.Retired(from) {
					t.Error("replaced record should be retired")
				}
				if _, ok := table.Uses[from]; ok {
					t.Error("uses entry of the replaced position survived")
				}
			},
		},
		{
			name: "same position is a no-op",
			setup: func(table *Table) (Position, Position) {
				x := table.AddVariable("x")
				table.Output = table.AddOperation(x, OpAdd, One)
				return table.Output, table.Output
			},
			validate: func(t *testing.T, table *Table, from, to Position) {
				if table.Retired(from) {
					t.Error("self replacement retired the record")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable()
			from, to := tt.setup(table)
			table.Replace(from, to)
			tt.validate(t, table, from, to)
			if errs := table.Verify(); len(errs) != 0 {
				t.Errorf("table does not verify after Replace: %v", errs)
			}
		})
	}
}

func TestTable_Verify(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(*Table)
		message string
	}{
		{
			name:    "defined twice",
			corrupt: func(table *Table) { table.Variables[Zero] = "z" },
			message: "%1 is defined 2 times",
		},
		{
			name:    "undefined operand",
			corrupt: func(table *Table) { table.Operations[4] = Operation{Left: 3, Op: OpAdd, Right: 99} },
			message: "%4 refers to undefined %99",
		},
		{
			name:    "stale user",
			corrupt: func(table *Table) { table.Uses[One][3] = struct{}{} },
			message: "uses of %2 lists %3, which does not refer to it",
		},
		{
			name:    "missing user",
			corrupt: func(table *Table) { delete(table.Uses[3], 4) },
			message: "%4 refers to %3 but is missing from its uses",
		},
		{
			name:    "missing uses entry",
			corrupt: func(table *Table) { delete(table.Uses, 3) },
			message: "%3 has no uses entry",
		},
		{
			name:    "dangling output",
			corrupt: func(table *Table) { table.Output = 42 },
			message: "output %42 is not defined",
		},
		{
			name: "retired output",
			corrupt: func(table *Table) {
				delete(table.Uses, 4)
				table.Output = 4
			},
			message: "output %4 is retired",
		},
		{
			name: "beyond the counter",
			corrupt: func(table *Table) {
				table.Constants[10] = 5
				table.Uses[10] = map[Position]struct{}{}
			},
			message: "%10 is not below the allocation counter 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable()
			x := table.AddVariable("x")
			table.Output = table.AddOperation(x, OpAdd, One)

			tt.corrupt(table)

			errs := table.Verify()
			found := false
			for _, err := range errs {
				if err.Error() == tt.message {
					found = true
				}
			}
			if !found {
				t.Errorf("Verify() = %v, want an error %q", errs, tt.message)
			}
		})
	}
}

func TestTable_Clone(t *testing.T) {
	table := NewTable()
	x := table.AddVariable("x")
	table.Output = table.AddOperation(x, OpMul, MinusOne)

	clone := table.Clone()
	clone.Replace(table.Output, x)
	clone.AddVariable("y")

	if table.Output == x || table.Retired(x+1) {
		t.Error("Replace on the clone changed the original")
	}
	if table.Next() == clone.Next() {
		t.Error("allocation counter is shared")
	}
}

func TestTable_String(t *testing.T) {
	table := NewTable()
	x := table.AddVariable("x")
	half := table.AddConstant(0.5)
	table.Output = table.AddOperation(x, OpDiv, half)

	want := strings.Join([]string{
		"%0 = -1",
		"%1 = 0",
		"%2 = 1",
		"%3 = x",
		"%4 = 0.5",
		"%5 = %3 / %4",
		"output = %5",
	}, "\n") + "\n"
	if got := table.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestTable_MarshalYAML(t *testing.T) {
	table := NewTable()
	x := table.AddVariable("x")
	table.Output = table.AddOperation(x, OpMul, MinusOne)

	data, err := yaml.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded struct {
		Values yaml.Node `yaml:"values"`
		Output string    `yaml:"output"`
	}
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v\n%s", err, data)
	}
	if decoded.Output != "%4" {
		t.Errorf("output = %q, want %%4", decoded.Output)
	}

	var keys, values []string
	for i := 0; i+1 < len(decoded.Values.Content); i += 2 {
		keys = append(keys, decoded.Values.Content[i].Value)
		values = append(values, decoded.Values.Content[i+1].Value)
	}
	wantKeys := []string{"%0", "%1", "%2", "%3", "%4"}
	wantValues := []string{"-1", "0", "1", "x", "%3 * %0"}
	if !reflect.DeepEqual(keys, wantKeys) {
		t.Errorf("keys = %v, want %v", keys, wantKeys)
	}
	if !reflect.DeepEqual(values, wantValues) {
		t.Errorf("values = %v, want %v", values, wantValues)
	}
}

func TestOperator_Apply(t *testing.T) {
	tests := []struct {
		op   Operator
		l, r float64
		want float64
	}{
		{OpAdd, 1, 2, 3},
		{OpSub, 1, 2, -1},
		{OpMul, 3, -1, -3},
		{OpDiv, 1, 4, 0.25},
		{OpDiv, 1, 0, math.Inf(1)},
		{OpDiv, -1, 0, math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			if got := tt.op.Apply(tt.l, tt.r); got != tt.want {
				t.Errorf("%v %s %v = %v, want %v", tt.l, tt.op, tt.r, got, tt.want)
			}
		})
	}

	if got := OpDiv.Apply(0, 0); !math.IsNaN(got) {
		t.Errorf("0 / 0 = %v, want NaN", got)
	}
}
