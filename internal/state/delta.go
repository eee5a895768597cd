package state

import (
	"github.com/autosci-lab/discovery-core/pkg/models"
)

// Policy names how a delta field is folded into the container
type Policy string

const (
	// PolicyReplace wholly supersedes the prior value
	PolicyReplace Policy = "replace"
	// PolicyAppend concatenates after the prior value, initializing an
	// empty prior field rather than erroring
	PolicyAppend Policy = "append"
)

// Policies records the merge discipline per container field. The condition
// pool is transient request state and is replaced; observations and model
// history are append-only history.
var Policies = map[string]Policy{
	"conditions":   PolicyReplace,
	"observations": PolicyAppend,
	"models":       PolicyAppend,
}

// Delta is a partial update naming only the fields a stage changed. The zero
// value is the empty delta; merging it is a no-op that still yields a new,
// value-equal container.
type Delta struct {
	conditions   *models.Table
	observations *models.Table
	history      []models.ModelRecord
}

// WithConditions sets the replacement condition pool
func (d Delta) WithConditions(t models.Table) Delta {
	d.conditions = &t
	return d
}

// WithObservations sets the observation rows to append
func (d Delta) WithObservations(t models.Table) Delta {
	d.observations = &t
	return d
}

// WithModels sets the model records to append, in family order
func (d Delta) WithModels(recs ...models.ModelRecord) Delta {
	d.history = recs
	return d
}

// IsEmpty reports whether the delta names no fields
func (d Delta) IsEmpty() bool {
	return d.conditions == nil && d.observations == nil && len(d.history) == 0
}

// Merge applies the delta to the container per the field policies and returns
// a new container. The receiver is never modified; unnamed fields carry over
// untouched. Merge is all-or-nothing: there is no partially applied state.
func (c Container) Merge(d Delta) Container {
	next := Container{
		variables:    c.variables,
		observations: c.observations,
		conditions:   c.conditions,
		history:      c.history,
	}
	if d.conditions != nil {
		next.conditions = d.conditions.Clone()
	}
	if d.observations != nil {
		next.observations = c.observations.Concat(*d.observations)
	}
	if len(d.history) > 0 {
		merged := make([]models.ModelRecord, 0, len(c.history)+len(d.history))
		merged = append(merged, c.history...)
		merged = append(merged, d.history...)
		next.history = merged
	}
	return next
}
