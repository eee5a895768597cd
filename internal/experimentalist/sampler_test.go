package experimentalist

import (
	"context"
	"testing"

	"github.com/autosci-lab/discovery-core/pkg/models"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

func pool() models.Table {
	t := models.NewTable("dots_left", "dots_right")
	t.Rows = []models.Row{
		{"dots_left": 40, "dots_right": 70},
		{"dots_left": 70, "dots_right": 40},
		{"dots_left": 40, "dots_right": 100},
		{"dots_left": 100, "dots_right": 40},
	}
	return t
}

// constModel predicts the same value for every row
type constModel struct {
	family string
	value  float64
}

func (m constModel) Family() string { return m.family }
func (m constModel) Predict(x models.Table) ([]float64, error) {
	out := make([]float64, x.Len())
	for i := range out {
		out[i] = m.value
	}
	return out, nil
}

// spreadModel predicts proportional to dots_left, so disagreement against a
// constant model grows with dots_left
type spreadModel struct{}

func (spreadModel) Family() string { return "spread" }
func (spreadModel) Predict(x models.Table) ([]float64, error) {
	out := make([]float64, x.Len())
	for i, r := range x.Rows {
		out[i] = r["dots_left"] / 100
	}
	return out, nil
}

func record(m models.Model) models.ModelRecord {
	return models.ModelRecord{Family: m.Family(), Cycle: 1, Model: m}
}

func TestRegistry(t *testing.T) {
	rs := utils.NewRandSource(1)
	for _, name := range []string{"random", "disagreement", "novelty"} {
		s, err := New(name, rs)
		if err != nil {
			t.Fatalf("New(%s) failed: %v", name, err)
		}
		if s.Name() != name {
			t.Fatalf("New(%s).Name() = %s", name, s.Name())
		}
	}
	if _, err := New("greedy", rs); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestRandomSamplerCountAndMembership(t *testing.T) {
	s := NewRandomSampler(utils.NewRandSource(5))
	got, err := s.Sample(context.Background(), Request{Pool: pool(), Count: 2})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("got %d rows, want 2", got.Len())
	}
	keys := pool().KeySet(pool().Columns)
	for _, r := range got.Rows {
		if !keys[r.Key(got.Columns)] {
			t.Fatalf("sampled row %v not in pool", r)
		}
	}
}

func TestRandomSamplerExcludesObserved(t *testing.T) {
	p := pool()
	existing := models.NewTable(p.Columns...)
	existing.Rows = p.Rows[:3]

	s := NewRandomSampler(utils.NewRandSource(5))
	got, err := s.Sample(context.Background(), Request{Pool: p, Existing: existing, Count: 4})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	// only one unobserved row remains; under-delivery is allowed
	if got.Len() != 1 {
		t.Fatalf("got %d rows, want 1", got.Len())
	}
	if got.Rows[0].Key(got.Columns) != p.Rows[3].Key(p.Columns) {
		t.Fatalf("sampled an already-observed row: %v", got.Rows[0])
	}
}

func TestRandomSamplerRejectsBadCount(t *testing.T) {
	s := NewRandomSampler(utils.NewRandSource(5))
	if _, err := s.Sample(context.Background(), Request{Pool: pool(), Count: 0}); err == nil {
		t.Fatalf("expected error for non-positive count")
	}
}

func TestDisagreementSamplerRanksByVariance(t *testing.T) {
	s := NewDisagreementSampler()
	req := Request{
		Pool: pool(),
		Models: []models.ModelRecord{
			record(constModel{family: "const", value: 0}),
			record(spreadModel{}),
		},
		Count: 2,
	}
	got, err := s.Sample(context.Background(), req)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("got %d rows, want 2", got.Len())
	}
	// highest disagreement is the largest dots_left
	if got.Rows[0]["dots_left"] != 100 {
		t.Fatalf("top row dots_left = %v, want 100", got.Rows[0]["dots_left"])
	}
	if got.Rows[1]["dots_left"] != 70 {
		t.Fatalf("second row dots_left = %v, want 70", got.Rows[1]["dots_left"])
	}
}

func TestDisagreementSamplerNeedsTwoModels(t *testing.T) {
	s := NewDisagreementSampler()
	req := Request{
		Pool:   pool(),
		Models: []models.ModelRecord{record(constModel{family: "const"})},
		Count:  1,
	}
	if _, err := s.Sample(context.Background(), req); err == nil {
		t.Fatalf("expected error with a single model")
	}
}

func TestDisagreementSamplerEmptyCandidates(t *testing.T) {
	p := pool()
	s := NewDisagreementSampler()
	req := Request{
		Pool:     p,
		Existing: p,
		Models: []models.ModelRecord{
			record(constModel{family: "a"}),
			record(constModel{family: "b", value: 1}),
		},
		Count: 2,
	}
	got, err := s.Sample(context.Background(), req)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if !got.IsEmpty() {
		t.Fatalf("fully observed pool yielded %d rows", got.Len())
	}
}

func TestNoveltySamplerPrefersFarthestRow(t *testing.T) {
	p := pool()
	existing := models.NewTable(p.Columns...)
	existing.Rows = []models.Row{{"dots_left": 40, "dots_right": 70}}

	s := NewNoveltySampler(utils.NewRandSource(5))
	got, err := s.Sample(context.Background(), Request{Pool: p, Existing: existing, Count: 1})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("got %d rows, want 1", got.Len())
	}
	// (100, 40) is farthest from (40, 70) in normalized space
	if got.Rows[0]["dots_left"] != 100 {
		t.Fatalf("chose %v, want dots_left 100", got.Rows[0])
	}
}

func TestNoveltySamplerFallsBackToRandom(t *testing.T) {
	s := NewNoveltySampler(utils.NewRandSource(5))
	got, err := s.Sample(context.Background(), Request{Pool: pool(), Count: 2})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("got %d rows, want 2", got.Len())
	}
}
