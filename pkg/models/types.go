package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// VariableKind distinguishes manipulated from measured variables
type VariableKind string

const (
	// KindIndependent variables have an enumerable set of allowed values
	KindIndependent VariableKind = "independent"
	// KindDependent variables have a value range and no enumeration
	KindDependent VariableKind = "dependent"
)

// Variable is a single declared study variable. Declarations are made once
// at startup and are immutable for the whole run.
type Variable struct {
	Name          string
	Kind          VariableKind
	AllowedValues []float64 // independent variables only
	Min           float64
	Max           float64
}

// VariableSet holds all variable declarations for a study, in declaration order.
type VariableSet struct {
	Independent []Variable
	Dependent   []Variable
}

// IndependentNames returns the independent variable names in declaration order
func (s *VariableSet) IndependentNames() []string {
	names := make([]string, len(s.Independent))
	for i, v := range s.Independent {
		names[i] = v.Name
	}
	return names
}

// DependentNames returns the dependent variable names in declaration order
func (s *VariableSet) DependentNames() []string {
	names := make([]string, len(s.Dependent))
	for i, v := range s.Dependent {
		names[i] = v.Name
	}
	return names
}

// Validate checks the declarations for configuration errors
func (s *VariableSet) Validate() error {
	if len(s.Independent) == 0 {
		return fmt.Errorf("at least one independent variable must be declared")
	}
	if len(s.Dependent) == 0 {
		return fmt.Errorf("at least one dependent variable must be declared")
	}
	seen := make(map[string]bool)
	for _, v := range s.Independent {
		if v.Name == "" {
			return fmt.Errorf("independent variable name cannot be empty")
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate variable name: %s", v.Name)
		}
		seen[v.Name] = true
		if len(v.AllowedValues) == 0 {
			return fmt.Errorf("independent variable %s has no allowed values", v.Name)
		}
	}
	for _, v := range s.Dependent {
		if v.Name == "" {
			return fmt.Errorf("dependent variable name cannot be empty")
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate variable name: %s", v.Name)
		}
		seen[v.Name] = true
		if v.Max < v.Min {
			return fmt.Errorf("dependent variable %s: max %v is below min %v", v.Name, v.Max, v.Min)
		}
	}
	return nil
}

// Row assigns one value per named variable. Rows stored in tables are treated
// as immutable; use Clone before modifying a row taken from a table.
type Row map[string]float64

// Clone returns an independent copy of the row
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Key renders the row's values for the given columns as a stable string,
// usable as a deduplication key
func (r Row) Key(cols []string) string {
	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatFloat(r[col], 'g', -1, 64))
	}
	return b.String()
}

// Table is an ordered sequence of rows with a declared column order.
// All table-producing operations return new tables; existing rows are never
// rewritten in place.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given column order
func NewTable(cols ...string) Table {
	return Table{Columns: append([]string(nil), cols...)}
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Clone returns a table with freshly allocated column and row slices.
// Row maps are shared; rows are immutable by convention.
func (t Table) Clone() Table {
	return Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    append([]Row(nil), t.Rows...),
	}
}

// Append returns a new table with the given rows concatenated at the end.
// The receiver is left untouched.
func (t Table) Append(rows ...Row) Table {
	out := t.Clone()
	out.Rows = append(out.Rows, rows...)
	return out
}

// Concat returns a new table holding the receiver's rows followed by the
// other table's rows. Column order follows the receiver unless it is empty,
// in which case the other table's columns are adopted.
func (t Table) Concat(other Table) Table {
	out := t.Clone()
	if len(out.Columns) == 0 {
		out.Columns = append([]string(nil), other.Columns...)
	}
	out.Rows = append(out.Rows, other.Rows...)
	return out
}

// Select returns a new table projected onto the given columns
func (t Table) Select(cols ...string) Table {
	out := NewTable(cols...)
	for _, r := range t.Rows {
		proj := make(Row, len(cols))
		for _, col := range cols {
			proj[col] = r[col]
		}
		out.Rows = append(out.Rows, proj)
	}
	return out
}

// Column returns the values of a single column in row order
func (t Table) Column(name string) []float64 {
	vals := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		vals[i] = r[name]
	}
	return vals
}

// Distinct returns a new table keeping only the first occurrence of each
// combination of values over the given columns, projected onto those columns
func (t Table) Distinct(cols ...string) Table {
	out := NewTable(cols...)
	seen := make(map[string]bool)
	for _, r := range t.Rows {
		key := r.Key(cols)
		if seen[key] {
			continue
		}
		seen[key] = true
		proj := make(Row, len(cols))
		for _, col := range cols {
			proj[col] = r[col]
		}
		out.Rows = append(out.Rows, proj)
	}
	return out
}

// KeySet returns the set of row keys over the given columns
func (t Table) KeySet(cols []string) map[string]bool {
	keys := make(map[string]bool, len(t.Rows))
	for _, r := range t.Rows {
		keys[r.Key(cols)] = true
	}
	return keys
}

// Equal reports structural equality: same column order, same row count, and
// cell-for-cell identical values
func (t Table) Equal(other Table) bool {
	if len(t.Columns) != len(other.Columns) || len(t.Rows) != len(other.Rows) {
		return false
	}
	for i, col := range t.Columns {
		if other.Columns[i] != col {
			return false
		}
	}
	for i, r := range t.Rows {
		o := other.Rows[i]
		if len(r) != len(o) {
			return false
		}
		for k, v := range r {
			ov, ok := o[k]
			if !ok || ov != v {
				return false
			}
		}
	}
	return true
}

// String renders a compact preview of the table, mainly for logs and the CLI
func (t Table) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, ","))
	limit := len(t.Rows)
	if limit > 10 {
		limit = 10
	}
	for _, r := range t.Rows[:limit] {
		b.WriteByte('\n')
		for i, col := range t.Columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatFloat(r[col], 'g', -1, 64))
		}
	}
	if len(t.Rows) > limit {
		fmt.Fprintf(&b, "\n... (%d more rows)", len(t.Rows)-limit)
	}
	return b.String()
}

// SortedCopy returns a new table with rows ordered by the given columns,
// ascending, ties broken by original position
func (t Table) SortedCopy(cols ...string) Table {
	out := t.Clone()
	sort.SliceStable(out.Rows, func(i, j int) bool {
		for _, col := range cols {
			if out.Rows[i][col] != out.Rows[j][col] {
				return out.Rows[i][col] < out.Rows[j][col]
			}
		}
		return false
	})
	return out
}
