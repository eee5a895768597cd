package experimentalist

import (
	"context"
	"fmt"
	"math"

	"github.com/autosci-lab/discovery-core/pkg/models"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

// NoveltySampler greedily picks the unobserved conditions farthest from
// everything measured so far, maximizing coverage of the design space.
// Distances are normalized per column by the pool's value range.
type NoveltySampler struct {
	rand *utils.RandSource
}

// NewNoveltySampler creates a max-min distance sampler. The random source is
// used only when no observations exist yet.
func NewNoveltySampler(rs *utils.RandSource) *NoveltySampler {
	return &NoveltySampler{rand: rs}
}

// Name returns the strategy name
func (s *NoveltySampler) Name() string {
	return "novelty"
}

// Sample returns up to req.Count rows chosen by greedy max-min distance to
// the observed combinations plus previously chosen rows
func (s *NoveltySampler) Sample(ctx context.Context, req Request) (models.Table, error) {
	if req.Count <= 0 {
		return models.Table{}, fmt.Errorf("sample count must be positive, got %d", req.Count)
	}

	pool := candidates(req)
	if pool.IsEmpty() {
		return pool, nil
	}
	if req.Existing.IsEmpty() {
		// Nothing to be far from yet; fall back to a uniform draw
		return NewRandomSampler(s.rand).Sample(ctx, req)
	}

	scale := columnScales(req.Pool)
	reference := append([]models.Row(nil), req.Existing.Rows...)

	out := models.NewTable(pool.Columns...)
	remaining := append([]models.Row(nil), pool.Rows...)
	for len(out.Rows) < req.Count && len(remaining) > 0 {
		bestIdx := 0
		bestDist := -1.0
		for i, r := range remaining {
			d := minDistance(r, reference, pool.Columns, scale)
			if d > bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		chosen := remaining[bestIdx]
		out.Rows = append(out.Rows, chosen)
		reference = append(reference, chosen)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return out, nil
}

func columnScales(pool models.Table) map[string]float64 {
	scale := make(map[string]float64, len(pool.Columns))
	for _, col := range pool.Columns {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range pool.Column(col) {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if hi > lo {
			scale[col] = hi - lo
		} else {
			scale[col] = 1
		}
	}
	return scale
}

func minDistance(r models.Row, reference []models.Row, cols []string, scale map[string]float64) float64 {
	best := math.Inf(1)
	for _, ref := range reference {
		sum := 0.0
		for _, col := range cols {
			d := (r[col] - ref[col]) / scale[col]
			sum += d * d
		}
		best = math.Min(best, sum)
	}
	return best
}
