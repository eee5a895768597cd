package runner

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/autosci-lab/discovery-core/pkg/models"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

func dotsVars() *models.VariableSet {
	return &models.VariableSet{
		Independent: []models.Variable{
			{Name: "dots_left", Kind: models.KindIndependent, AllowedValues: []float64{40, 70}},
			{Name: "dots_right", Kind: models.KindIndependent, AllowedValues: []float64{40, 70}},
		},
		Dependent: []models.Variable{
			{Name: "accuracy", Kind: models.KindDependent, Min: 0, Max: 1},
		},
	}
}

func TestTrialSequenceCounterbalanced(t *testing.T) {
	rs := utils.NewRandSource(9)
	cond := models.Row{"dots_left": 40, "dots_right": 70}
	ivNames := []string{"dots_left", "dots_right"}

	trials := TrialSequence(cond, ivNames, 10, rs)
	// two levels crossed over two variables = 4 per repetition, repeated
	// until at least 10 trials
	if len(trials) != 12 {
		t.Fatalf("got %d trials, want 12", len(trials))
	}

	counts := make(map[string]int)
	for _, trial := range trials {
		counts[trial.Key(ivNames)]++
	}
	if len(counts) != 4 {
		t.Fatalf("got %d distinct trial combinations, want 4", len(counts))
	}
	for key, n := range counts {
		if n != 3 {
			t.Fatalf("combination %s occurred %d times, want 3", key, n)
		}
	}
}

func TestTrialSequenceSingleLevel(t *testing.T) {
	rs := utils.NewRandSource(9)
	cond := models.Row{"dots_left": 55, "dots_right": 55}
	trials := TrialSequence(cond, []string{"dots_left", "dots_right"}, 5, rs)
	if len(trials) != 5 {
		t.Fatalf("got %d trials, want 5", len(trials))
	}
	for _, trial := range trials {
		if trial["dots_left"] != 55 || trial["dots_right"] != 55 {
			t.Fatalf("unexpected trial values: %v", trial)
		}
	}
}

func TestCompileStimulusStructure(t *testing.T) {
	trials := []models.Row{
		{"dots_left": 40, "dots_right": 70},
		{"dots_left": 70, "dots_right": 40},
	}
	blob, err := CompileStimulus(trials, []string{"dots_left", "dots_right"})
	if err != nil {
		t.Fatalf("CompileStimulus failed: %v", err)
	}

	var payload Payload
	if err := json.Unmarshal(blob, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if len(payload.Blocks) != 3 {
		t.Fatalf("got %d blocks, want instruction, task, exit", len(payload.Blocks))
	}
	if payload.Blocks[0].Kind != "instruction" || payload.Blocks[2].Kind != "exit" {
		t.Fatalf("block kinds = %s, %s", payload.Blocks[0].Kind, payload.Blocks[2].Kind)
	}
	task := payload.Blocks[1]
	if task.Kind != "task" || len(task.Trials) != 2 {
		t.Fatalf("task block = %+v", task)
	}
	spec := task.Trials[0]
	if spec.FixationMs != 1500 || spec.StimulusMs != 2000 {
		t.Fatalf("trial timing = %d/%d", spec.FixationMs, spec.StimulusMs)
	}
	if spec.Values["dots_left"] != 40 || spec.Values["dots_right"] != 70 {
		t.Fatalf("trial values = %v", spec.Values)
	}
}

func TestParserDerivesAccuracy(t *testing.T) {
	rt := 640.0
	doc := ResultDocument{
		SubmissionID: "sub-1",
		Trials: []ResultTrial{
			{TrialType: "instruction"},
			// unequal stimuli, pressed n: correct
			{TrialType: TrialTypeStimulus, Values: map[string]float64{"dots_left": 40, "dots_right": 70}, KeyPress: "n", RT: &rt},
			// equal stimuli, pressed n: incorrect
			{TrialType: TrialTypeStimulus, Values: map[string]float64{"dots_left": 70, "dots_right": 70}, KeyPress: "n", RT: &rt},
			// no response, discarded
			{TrialType: TrialTypeStimulus, Values: map[string]float64{"dots_left": 40, "dots_right": 70}},
			{TrialType: "exit"},
		},
	}
	blob, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	p := NewParser(dotsVars())
	got, err := p.Parse(blob)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("got %d rows, want 2", got.Len())
	}
	if got.Rows[0]["accuracy"] != 1 {
		t.Fatalf("correct response scored %v, want 1", got.Rows[0]["accuracy"])
	}
	if got.Rows[1]["accuracy"] != 0 {
		t.Fatalf("incorrect response scored %v, want 0", got.Rows[1]["accuracy"])
	}
	if got.Rows[0]["dots_left"] != 40 || got.Rows[0]["dots_right"] != 70 {
		t.Fatalf("independent values not carried: %v", got.Rows[0])
	}
}

func TestParserMissingVariable(t *testing.T) {
	rt := 500.0
	doc := ResultDocument{
		Trials: []ResultTrial{
			{TrialType: TrialTypeStimulus, Values: map[string]float64{"dots_left": 40}, KeyPress: "n", RT: &rt},
		},
	}
	blob, _ := json.Marshal(doc)
	if _, err := NewParser(dotsVars()).Parse(blob); err == nil {
		t.Fatalf("expected error for missing variable")
	}
}

func TestParserMalformedBlob(t *testing.T) {
	if _, err := NewParser(dotsVars()).Parse([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed blob")
	}
}

func TestSyntheticEngineProducesParseableResults(t *testing.T) {
	vars := dotsVars()
	rs := utils.NewRandSource(42)
	ivNames := vars.IndependentNames()

	cond := models.Row{"dots_left": 40, "dots_right": 70}
	trials := TrialSequence(cond, ivNames, 20, rs)
	payload, err := CompileStimulus(trials, ivNames)
	if err != nil {
		t.Fatalf("CompileStimulus failed: %v", err)
	}

	engine := NewSyntheticEngine(rs)
	blobs, err := engine.Execute(context.Background(), []Submission{
		{ID: "sub-1", Condition: cond, Payload: payload},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(blobs) != 1 {
		t.Fatalf("got %d blobs, want 1", len(blobs))
	}

	obs, err := NewParser(vars).Parse(blobs[0])
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if obs.IsEmpty() {
		t.Fatalf("no observations parsed from synthetic result")
	}
	for _, r := range obs.Rows {
		if acc := r["accuracy"]; acc != 0 && acc != 1 {
			t.Fatalf("accuracy %v not binary", acc)
		}
	}
}

func TestSyntheticEngineDeterministicUnderSeed(t *testing.T) {
	vars := dotsVars()
	run := func() []byte {
		rs := utils.NewRandSource(7)
		trials := TrialSequence(models.Row{"dots_left": 40, "dots_right": 70}, vars.IndependentNames(), 10, rs)
		payload, err := CompileStimulus(trials, vars.IndependentNames())
		if err != nil {
			t.Fatalf("CompileStimulus failed: %v", err)
		}
		blobs, err := NewSyntheticEngine(rs).Execute(context.Background(), []Submission{
			{ID: "sub-1", Payload: payload},
		})
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		return blobs[0]
	}
	if string(run()) != string(run()) {
		t.Fatalf("same seed produced different synthetic results")
	}
}

func TestRunnerCollect(t *testing.T) {
	vars := dotsVars()
	rs := utils.NewRandSource(11)
	r := New(vars, NewSyntheticEngine(rs), 10, rs)

	conditions := models.NewTable("dots_left", "dots_right")
	conditions.Rows = []models.Row{
		{"dots_left": 40, "dots_right": 70},
		{"dots_left": 70, "dots_right": 40},
	}

	obs, err := r.Collect(context.Background(), conditions)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if obs.IsEmpty() {
		t.Fatalf("no observations collected")
	}
	wantCols := []string{"dots_left", "dots_right", "accuracy"}
	for i, col := range wantCols {
		if obs.Columns[i] != col {
			t.Fatalf("columns = %v, want %v", obs.Columns, wantCols)
		}
	}
}
