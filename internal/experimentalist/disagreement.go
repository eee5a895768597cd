package experimentalist

import (
	"context"
	"fmt"
	"sort"

	"github.com/autosci-lab/discovery-core/pkg/models"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

// DisagreementSampler ranks unobserved conditions by how much the supplied
// models disagree about them: the variance of the per-model predictions for a
// row. Conditions where the current theories diverge most are the most
// informative to run next.
type DisagreementSampler struct{}

// NewDisagreementSampler creates a model-disagreement sampler
func NewDisagreementSampler() *DisagreementSampler {
	return &DisagreementSampler{}
}

// Name returns the strategy name
func (s *DisagreementSampler) Name() string {
	return "disagreement"
}

// Sample scores every unobserved pool row by cross-model prediction variance
// and returns the top req.Count rows. At least two models are required.
func (s *DisagreementSampler) Sample(ctx context.Context, req Request) (models.Table, error) {
	if req.Count <= 0 {
		return models.Table{}, fmt.Errorf("sample count must be positive, got %d", req.Count)
	}
	if len(req.Models) < 2 {
		return models.Table{}, fmt.Errorf("disagreement sampling requires at least two models, got %d", len(req.Models))
	}

	pool := candidates(req)
	if pool.IsEmpty() {
		return pool, nil
	}

	preds := make([][]float64, len(req.Models))
	for i, rec := range req.Models {
		p, err := rec.Model.Predict(pool)
		if err != nil {
			return models.Table{}, fmt.Errorf("predict %s: %w", rec.Family, err)
		}
		if len(p) != pool.Len() {
			return models.Table{}, fmt.Errorf("predict %s: got %d predictions for %d rows", rec.Family, len(p), pool.Len())
		}
		preds[i] = p
	}

	scores := make([]float64, pool.Len())
	perRow := make([]float64, len(req.Models))
	for j := range pool.Rows {
		for i := range req.Models {
			perRow[i] = preds[i][j]
		}
		scores[j] = utils.Variance(perRow)
	}

	order := make([]int, pool.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	out := models.NewTable(pool.Columns...)
	for _, j := range order[:utils.Min(req.Count, pool.Len())] {
		out.Rows = append(out.Rows, pool.Rows[j])
	}
	return out, nil
}
