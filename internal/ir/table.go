package ir

import (
	"slices"
	"strconv"
	"strings"
)

// Table is the value table: four maps keyed by Position plus the output
// root.
//
// A position is a key of exactly one of Constants, Variables and
// Operations. Uses[p] holds every position whose operation refers to p.
//
// Replace leaves the replaced operation in Operations but removes its Uses
// entry and every reference to it. Such a record is called retired: it is
// dead, and dead code elimination deletes it. Passes skip retired records.
type Table struct {
	Constants  map[Position]float64
	Variables  map[Position]string
	Operations map[Position]Operation
	Uses       map[Position]map[Position]struct{}

	// Output is the position holding the value of the whole expression.
	Output Position

	// next is the allocation counter. Positions are never reused.
	next Position
}

// NewTable returns a table holding only the reserved constants.
func NewTable() *Table {
	t := &Table{
		Constants:  make(map[Position]float64),
		Variables:  make(map[Position]string),
		Operations: make(map[Position]Operation),
		Uses:       make(map[Position]map[Position]struct{}),
		next:       FirstUser,
	}
	for p, v := range map[Position]float64{MinusOne: -1, Zero: 0, One: 1} {
		t.Constants[p] = v
		t.Uses[p] = make(map[Position]struct{})
	}
	return t
}

// Next returns the next position that would be allocated. Every position
// ever allocated in t is below it.
func (t *Table) Next() Position {
	return t.next
}

func (t *Table) alloc() Position {
	p := t.next
	t.next++
	t.Uses[p] = make(map[Position]struct{})
	return p
}

// LookupConstant returns the lowest position holding exactly value.
func (t *Table) LookupConstant(value float64) (Position, bool) {
	for _, p := range SortedPositions(t.Constants) {
		if t.Constants[p] == value {
			return p, true
		}
	}
	return 0, false
}

// AddConstant allocates a position for a literal. It does not deduplicate;
// see LookupConstant.
func (t *Table) AddConstant(value float64) Position {
	p := t.alloc()
	t.Constants[p] = value
	return p
}

// AddVariable allocates a position for one read of a variable.
func (t *Table) AddVariable(name string) Position {
	p := t.alloc()
	t.Variables[p] = name
	return p
}

// AddOperation allocates a position for left op right and records it as a
// user of both operands.
func (t *Table) AddOperation(left Position, op Operator, right Position) Position {
	p := t.alloc()
	t.Operations[p] = Operation{Left: left, Op: op, Right: right}
	t.Uses[left][p] = struct{}{}
	t.Uses[right][p] = struct{}{}
	return p
}

// Replace redirects every use of from to to: users of from get their
// operand fields patched and move into Uses[to], Uses[from] is deleted and
// Output is retargeted. The definition of from is left in place.
//
// ALGORITHM:
//
//	for each q in Uses[from]:
//	    patch q.Left and q.Right from "from" to "to"
//	    add q to Uses[to]
//	delete Uses[from]
//	if Output == from: Output = to
func (t *Table) Replace(from, to Position) {
	if from == to {
		return
	}
	for user := range t.Uses[from] {
		op := t.Operations[user]
		if op.Left == from {
			op.Left = to
		}
		if op.Right == from {
			op.Right = to
		}
		t.Operations[user] = op
		t.Uses[to][user] = struct{}{}
	}
	delete(t.Uses, from)
	if t.Output == from {
		t.Output = to
	}
}

// Retired reports whether p is an operation that was replaced.
func (t *Table) Retired(p Position) bool {
	if _, ok := t.Operations[p]; !ok {
		return false
	}
	_, ok := t.Uses[p]
	return !ok
}

// Defined reports whether p is a key of Constants, Variables or Operations.
func (t *Table) Defined(p Position) bool {
	if _, ok := t.Constants[p]; ok {
		return true
	}
	if _, ok := t.Variables[p]; ok {
		return true
	}
	_, ok := t.Operations[p]
	return ok
}

// OperationPositions returns the keys of Operations in ascending order.
func (t *Table) OperationPositions() []Position {
	return SortedPositions(t.Operations)
}

// Positions returns every defined position in ascending order.
func (t *Table) Positions() []Position {
	ps := make([]Position, 0, len(t.Constants)+len(t.Variables)+len(t.Operations))
	for p := range t.Constants {
		ps = append(ps, p)
	}
	for p := range t.Variables {
		ps = append(ps, p)
	}
	for p := range t.Operations {
		ps = append(ps, p)
	}
	slices.Sort(ps)
	return ps
}

// Users returns Uses[p] in ascending order.
func (t *Table) Users(p Position) []Position {
	return SortedPositions(t.Uses[p])
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := &Table{
		Constants:  make(map[Position]float64, len(t.Constants)),
		Variables:  make(map[Position]string, len(t.Variables)),
		Operations: make(map[Position]Operation, len(t.Operations)),
		Uses:       make(map[Position]map[Position]struct{}, len(t.Uses)),
		Output:     t.Output,
		next:       t.next,
	}
	for p, v := range t.Constants {
		c.Constants[p] = v
	}
	for p, name := range t.Variables {
		c.Variables[p] = name
	}
	for p, op := range t.Operations {
		c.Operations[p] = op
	}
	for p, users := range t.Uses {
		set := make(map[Position]struct{}, len(users))
		for u := range users {
			set[u] = struct{}{}
		}
		c.Uses[p] = set
	}
	return c
}

// Entry is one line of a table dump.
type Entry struct {
	Position Position
	// Text is the literal value, the variable name or "%L op %R".
	Text string
}

// Entries lists every defined position with its text, in position order.
func (t *Table) Entries() []Entry {
	positions := t.Positions()
	entries := make([]Entry, 0, len(positions))
	for _, p := range positions {
		entries = append(entries, Entry{Position: p, Text: t.text(p)})
	}
	return entries
}

func (t *Table) text(p Position) string {
	if v, ok := t.Constants[p]; ok {
		return FormatValue(v)
	}
	if name, ok := t.Variables[p]; ok {
		return name
	}
	return t.Operations[p].String()
}

// String dumps the table one definition per line followed by the output.
//
//	%0 = -1
//	%3 = x
//	%4 = %3 * %1
//	output = %4
func (t *Table) String() string {
	var sb strings.Builder
	for _, e := range t.Entries() {
		sb.WriteString(e.Position.String())
		sb.WriteString(" = ")
		sb.WriteString(e.Text)
		sb.WriteString("\n")
	}
	sb.WriteString("output = ")
	sb.WriteString(t.Output.String())
	sb.WriteString("\n")
	return sb.String()
}

// FormatValue formats a value the way dumps and traces print it: the
// shortest decimal that round-trips, without an exponent.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SortedPositions returns the keys of m in ascending order.
func SortedPositions[V any](m map[Position]V) []Position {
	keys := make([]Position, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
