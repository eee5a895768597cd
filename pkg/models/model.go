package models

// Model is an opaque fitted-model handle. The loop core never inspects a
// model beyond asking it for predictions over independent-variable rows.
type Model interface {
	// Family returns the model family identifier the model was fit under
	Family() string
	// Predict returns one predicted dependent value per row of x.
	// x carries independent-variable columns only.
	Predict(x Table) ([]float64, error)
}

// ModelRecord is one entry of the model history: a fitted handle tagged with
// its family and the cycle it was fit in. Tagging by family keeps selection
// logic free of positional offsets into the history.
type ModelRecord struct {
	Family string
	Cycle  int
	Model  Model
}

// LatestByFamily walks the history from newest to oldest and returns the most
// recent record per requested family, in the requested family order. Families
// with no fitted model yet are skipped.
func LatestByFamily(history []ModelRecord, families []string) []ModelRecord {
	latest := make(map[string]ModelRecord, len(families))
	for i := len(history) - 1; i >= 0; i-- {
		rec := history[i]
		if _, ok := latest[rec.Family]; !ok {
			latest[rec.Family] = rec
		}
	}
	out := make([]ModelRecord, 0, len(families))
	for _, fam := range families {
		if rec, ok := latest[fam]; ok {
			out = append(out, rec)
		}
	}
	return out
}
