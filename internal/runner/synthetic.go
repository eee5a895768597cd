package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/autosci-lab/discovery-core/pkg/utils"
)

// SyntheticEngine simulates a subject pool locally. Responses follow a
// simple psychometric curve: the larger the relative difference between the
// stimulus values, the more likely the simulated subject answers correctly.
// All randomness comes from the study seed, so runs are reproducible.
type SyntheticEngine struct {
	rand      *utils.RandSource
	lapseRate float64 // probability a trial ends without a response
}

// NewSyntheticEngine creates a local simulated subject pool
func NewSyntheticEngine(rs *utils.RandSource) *SyntheticEngine {
	return &SyntheticEngine{
		rand:      rs,
		lapseRate: 0.02,
	}
}

// Execute simulates every submission and returns one result blob each
func (e *SyntheticEngine) Execute(ctx context.Context, subs []Submission) ([][]byte, error) {
	results := make([][]byte, 0, len(subs))
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		blob, err := e.simulate(sub)
		if err != nil {
			return nil, err
		}
		results = append(results, blob)
	}
	return results, nil
}

func (e *SyntheticEngine) simulate(sub Submission) ([]byte, error) {
	var payload Payload
	if err := json.Unmarshal(sub.Payload, &payload); err != nil {
		return nil, fmt.Errorf("submission %s: malformed payload: %w", sub.ID, err)
	}

	doc := ResultDocument{SubmissionID: sub.ID}
	for _, block := range payload.Blocks {
		if block.Kind != "task" {
			doc.Trials = append(doc.Trials, ResultTrial{TrialType: block.Kind})
			continue
		}
		for _, spec := range block.Trials {
			doc.Trials = append(doc.Trials, e.respond(spec))
		}
	}

	blob, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("submission %s: failed to encode result: %w", sub.ID, err)
	}
	return blob, nil
}

func (e *SyntheticEngine) respond(spec TrialSpec) ResultTrial {
	trial := ResultTrial{
		TrialType: TrialTypeStimulus,
		Values:    spec.Values,
	}
	if e.rand.BernoulliBool(e.lapseRate) {
		// Subject never pressed a key
		return trial
	}

	correct := "n"
	if allEqual(spec.Values) {
		correct = "y"
	}
	wrong := "n"
	if correct == "n" {
		wrong = "y"
	}

	if e.rand.BernoulliBool(pCorrect(spec.Values)) {
		trial.KeyPress = correct
	} else {
		trial.KeyPress = wrong
	}
	rt := utils.ClampFloat64(e.rand.NormFloat64(700, 120), 250, float64(spec.StimulusMs))
	trial.RT = &rt
	return trial
}

// pCorrect maps the relative spread of the stimulus values onto a response
// accuracy between chance and near-ceiling
func pCorrect(values map[string]float64) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi <= lo {
		// Equal stimuli: detection is easy, accuracy near ceiling
		return 0.95
	}
	scale := math.Max(math.Abs(hi), 1)
	relDiff := (hi - lo) / scale
	return 0.5 + 0.45*(1-math.Exp(-4*relDiff))
}

func allEqual(values map[string]float64) bool {
	first := math.NaN()
	for _, v := range values {
		if math.IsNaN(first) {
			first = v
			continue
		}
		if v != first {
			return false
		}
	}
	return true
}
