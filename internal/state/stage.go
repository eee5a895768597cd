package state

import (
	"github.com/autosci-lab/discovery-core/pkg/models"
)

// View is the read-only projection of container fields handed to a stage.
// Stages must not mutate the tables or the model slice; they communicate
// changes exclusively through the returned Delta.
type View struct {
	Variables    *models.VariableSet
	Observations models.Table
	Conditions   models.Table
	Models       []models.ModelRecord
}

// StageFunc computes a partial update from the container fields it needs.
// A stage must be deterministic given identical field values, except where it
// delegates to an intentionally stochastic collaborator.
type StageFunc func(View) (Delta, error)

// Stage transforms a container into its successor
type Stage func(Container) (Container, error)

// Apply projects the container into a view, invokes the stage function, and
// merges its delta. On error the input container is returned unchanged, so
// the caller still holds the last good state and may retry the whole stage.
func Apply(c Container, f StageFunc) (Container, error) {
	delta, err := f(c.View())
	if err != nil {
		return c, err
	}
	return c.Merge(delta), nil
}

// Wrap adapts a stage function into a container transformer
func Wrap(f StageFunc) Stage {
	return func(c Container) (Container, error) {
		return Apply(c, f)
	}
}
