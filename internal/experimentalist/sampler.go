// Package experimentalist provides the condition-sampler collaborators that
// choose which design-space rows to run next. All concrete samplers satisfy
// one capability interface; the implementation is chosen at configuration
// time, never at call time.
package experimentalist

import (
	"context"
	"fmt"

	"github.com/autosci-lab/discovery-core/pkg/models"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

// Request carries everything a sampler may consult. Pool is the full design
// space; Existing holds the distinct already-observed independent-variable
// combinations; Models are the fitted handles chosen for this cycle.
type Request struct {
	Pool     models.Table
	Existing models.Table
	Models   []models.ModelRecord
	Count    int
}

// Sampler chooses a row subset of the design space, size at most
// Request.Count. Samplers deduplicate already-observed combinations before
// ranking; returning fewer rows than requested is allowed and is surfaced by
// the scheduler, not masked here.
type Sampler interface {
	// Name returns the strategy name
	Name() string
	// Sample returns chosen condition rows drawn from the pool
	Sample(ctx context.Context, req Request) (models.Table, error)
}

// New creates a sampler by strategy name. Stochastic strategies draw from the
// supplied random source so runs stay reproducible under a fixed seed.
func New(name string, rs *utils.RandSource) (Sampler, error) {
	switch name {
	case "random":
		return NewRandomSampler(rs), nil
	case "disagreement":
		return NewDisagreementSampler(), nil
	case "novelty":
		return NewNoveltySampler(rs), nil
	default:
		return nil, fmt.Errorf("unknown experimentalist strategy: %s", name)
	}
}

// candidates returns the pool rows whose independent-variable combination has
// not been observed yet, preserving pool order
func candidates(req Request) models.Table {
	if req.Existing.IsEmpty() {
		return req.Pool.Clone()
	}
	seen := req.Existing.KeySet(req.Pool.Columns)
	out := models.NewTable(req.Pool.Columns...)
	for _, r := range req.Pool.Rows {
		if seen[r.Key(req.Pool.Columns)] {
			continue
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}
