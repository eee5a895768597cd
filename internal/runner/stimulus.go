package runner

import (
	"encoding/json"
	"fmt"

	"github.com/autosci-lab/discovery-core/pkg/models"
)

// Stimulus timing constants, in milliseconds
const (
	fixationMs = 1500
	stimulusMs = 2000
	exitMs     = 3000
)

// Payload is the experiment document uploaded for one condition. Subjects see
// an instruction block, the trial block, and an exit block.
type Payload struct {
	Blocks []Block `json:"blocks"`
}

// Block is one section of the experiment
type Block struct {
	Kind   string      `json:"kind"` // instruction, task, exit
	Texts  []string    `json:"texts,omitempty"`
	Trials []TrialSpec `json:"trials,omitempty"`
}

// TrialSpec describes a single measured trial: a fixation cross followed by
// the stimulus bound to the trial's variable values
type TrialSpec struct {
	FixationMs int                `json:"fixation_ms"`
	StimulusMs int                `json:"stimulus_ms"`
	Values     map[string]float64 `json:"values"`
	Choices    []string           `json:"choices"`
}

var instructionTexts = []string{
	"Welcome to our perception experiment. Press the SPACE key to continue.",
	"Each picture contains two sets of dots, one left and one right. Press the SPACE key to continue.",
	"Indicate whether the two sets contain an equal number of dots: y for yes, n for no. Press the SPACE key to continue.",
	"You have 2 seconds to respond to each picture. Press the SPACE key to BEGIN.",
}

// CompileStimulus renders a trial sequence into the JSON payload sent to the
// execution engine
func CompileStimulus(trials []models.Row, ivNames []string) ([]byte, error) {
	specs := make([]TrialSpec, len(trials))
	for i, t := range trials {
		values := make(map[string]float64, len(ivNames))
		for _, name := range ivNames {
			values[name] = t[name]
		}
		specs[i] = TrialSpec{
			FixationMs: fixationMs,
			StimulusMs: stimulusMs,
			Values:     values,
			Choices:    []string{"y", "n"},
		}
	}

	payload := Payload{
		Blocks: []Block{
			{Kind: "instruction", Texts: instructionTexts},
			{Kind: "task", Trials: specs},
			{Kind: "exit", Texts: []string{"Thank you for participating in the experiment."}},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stimulus payload: %w", err)
	}
	return data, nil
}
