package runner

// TrialTypeStimulus marks the measured stimulus trials inside a result blob.
// Other event types (instructions, fixations, exit screens) are bookkeeping
// and are discarded by the parser.
const TrialTypeStimulus = "rdp"

// ResultDocument is the wire format of one raw result blob returned by an
// execution engine
type ResultDocument struct {
	SubmissionID string        `json:"submission_id"`
	Trials       []ResultTrial `json:"trials"`
}

// ResultTrial is a single recorded event. RT is nil when the subject never
// responded within the stimulus window.
type ResultTrial struct {
	TrialType string             `json:"trial_type"`
	Values    map[string]float64 `json:"values,omitempty"`
	KeyPress  string             `json:"key_press,omitempty"`
	RT        *float64           `json:"rt,omitempty"`
}
