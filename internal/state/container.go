package state

import (
	"github.com/autosci-lab/discovery-core/pkg/models"
)

// Container aggregates the loop state. The zero value is not usable; build
// one with New. Fields are unexported so the only way to produce a changed
// container is through Merge.
type Container struct {
	variables    *models.VariableSet
	observations models.Table
	conditions   models.Table
	history      []models.ModelRecord
}

// New constructs the initial container from variable declarations only.
// The observation table and condition pool start empty with column orders
// derived from the declarations.
func New(vars *models.VariableSet) Container {
	obsCols := append(vars.IndependentNames(), vars.DependentNames()...)
	return Container{
		variables:    vars,
		observations: models.NewTable(obsCols...),
		conditions:   models.NewTable(vars.IndependentNames()...),
	}
}

// Variables returns the immutable variable declarations
func (c Container) Variables() *models.VariableSet {
	return c.variables
}

// Observations returns the accumulated observation table
func (c Container) Observations() models.Table {
	return c.observations
}

// Conditions returns the condition pool for the current cycle
func (c Container) Conditions() models.Table {
	return c.conditions
}

// Models returns the ordered fitted-model history. Callers must treat the
// returned slice as read-only.
func (c Container) Models() []models.ModelRecord {
	return c.history
}

// View returns the read-only projection stages are invoked with
func (c Container) View() View {
	return View{
		Variables:    c.variables,
		Observations: c.observations,
		Conditions:   c.conditions,
		Models:       c.history,
	}
}

// Equal reports structural equality of two containers
func (c Container) Equal(other Container) bool {
	if c.variables != other.variables {
		return false
	}
	if !c.observations.Equal(other.observations) {
		return false
	}
	if !c.conditions.Equal(other.conditions) {
		return false
	}
	if len(c.history) != len(other.history) {
		return false
	}
	for i, rec := range c.history {
		if other.history[i] != rec {
			return false
		}
	}
	return true
}
