package experimentalist

import (
	"context"
	"fmt"

	"github.com/autosci-lab/discovery-core/pkg/models"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

// RandomSampler draws conditions uniformly without replacement. It serves as
// the bootstrap sampler and as a model-free per-cycle strategy.
type RandomSampler struct {
	rand *utils.RandSource
}

// NewRandomSampler creates a uniform random sampler
func NewRandomSampler(rs *utils.RandSource) *RandomSampler {
	return &RandomSampler{rand: rs}
}

// Name returns the strategy name
func (s *RandomSampler) Name() string {
	return "random"
}

// Sample draws up to req.Count unobserved rows uniformly at random
func (s *RandomSampler) Sample(ctx context.Context, req Request) (models.Table, error) {
	if req.Count <= 0 {
		return models.Table{}, fmt.Errorf("sample count must be positive, got %d", req.Count)
	}
	pool := candidates(req)
	out := models.NewTable(pool.Columns...)
	for _, i := range s.rand.SampleInts(pool.Len(), req.Count) {
		out.Rows = append(out.Rows, pool.Rows[i])
	}
	return out, nil
}
