// Package design builds the design space: the enumerable set of admissible
// condition tuples over the declared independent variables.
package design

import (
	"errors"
	"fmt"

	"github.com/autosci-lab/discovery-core/pkg/config"
	"github.com/autosci-lab/discovery-core/pkg/models"
)

// ErrEmptySpace indicates the cross product left no admissible rows, which is
// a configuration error surfaced before the first cycle
var ErrEmptySpace = errors.New("design space has no rows")

// Filter is a validity predicate over a candidate condition row. Rows for
// which any filter returns false are excluded from the space.
type Filter func(models.Row) bool

// NotEqual rejects rows where two variables hold equal values, excluding
// degenerate conditions such as identical stimuli on both sides
func NotEqual(a, b string) Filter {
	return func(r models.Row) bool {
		return r[a] != r[b]
	}
}

// FromConfig converts declared filter specs into predicates
func FromConfig(d config.Design) ([]Filter, error) {
	filters := make([]Filter, 0, len(d.Filters))
	for i, f := range d.Filters {
		switch f.Type {
		case "not_equal":
			filters = append(filters, NotEqual(f.A, f.B))
		default:
			return nil, fmt.Errorf("design filter %d: unknown type %s", i, f.Type)
		}
	}
	return filters, nil
}

// Build enumerates the full cross product of the independent variables'
// allowed values in declaration order, applies the filters, and returns the
// resulting table. Declarations are immutable, so the result is computed once
// per run and cached by the caller.
func Build(vars *models.VariableSet, filters ...Filter) (models.Table, error) {
	if err := vars.Validate(); err != nil {
		return models.Table{}, err
	}

	cols := vars.IndependentNames()
	space := models.NewTable(cols...)

	// Odometer enumeration keeps declaration order: the last variable
	// varies fastest, matching a nested-loop cross product.
	idx := make([]int, len(vars.Independent))
	for {
		row := make(models.Row, len(cols))
		for i, v := range vars.Independent {
			row[v.Name] = v.AllowedValues[idx[i]]
		}
		if admissible(row, filters) {
			space.Rows = append(space.Rows, row)
		}

		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(vars.Independent[pos].AllowedValues) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}

	if space.IsEmpty() {
		return models.Table{}, ErrEmptySpace
	}
	return space, nil
}

func admissible(r models.Row, filters []Filter) bool {
	for _, f := range filters {
		if !f(r) {
			return false
		}
	}
	return true
}
