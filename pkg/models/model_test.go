package models

import "testing"

type stubModel struct {
	family string
}

func (m stubModel) Family() string { return m.family }

func (m stubModel) Predict(x Table) ([]float64, error) {
	return make([]float64, x.Len()), nil
}

func TestLatestByFamily(t *testing.T) {
	history := []ModelRecord{
		{Family: "linear", Cycle: 1, Model: stubModel{"linear"}},
		{Family: "polynomial", Cycle: 1, Model: stubModel{"polynomial"}},
		{Family: "linear", Cycle: 2, Model: stubModel{"linear"}},
	}

	got := LatestByFamily(history, []string{"linear", "polynomial", "logistic"})
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Family != "linear" || got[0].Cycle != 2 {
		t.Fatalf("linear record = %+v, want cycle 2", got[0])
	}
	if got[1].Family != "polynomial" || got[1].Cycle != 1 {
		t.Fatalf("polynomial record = %+v, want cycle 1", got[1])
	}
}

func TestLatestByFamilyEmptyHistory(t *testing.T) {
	if got := LatestByFamily(nil, []string{"linear"}); len(got) != 0 {
		t.Fatalf("empty history yielded %d records", len(got))
	}
}

func TestLatestByFamilyHonorsRequestedOrder(t *testing.T) {
	history := []ModelRecord{
		{Family: "a", Cycle: 1, Model: stubModel{"a"}},
		{Family: "b", Cycle: 1, Model: stubModel{"b"}},
	}
	got := LatestByFamily(history, []string{"b", "a"})
	if got[0].Family != "b" || got[1].Family != "a" {
		t.Fatalf("order = [%s %s], want [b a]", got[0].Family, got[1].Family)
	}
}
