package report

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/autosci-lab/discovery-core/internal/state"
	"github.com/autosci-lab/discovery-core/pkg/models"
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

// meanModel predicts a constant
type meanModel struct {
	family string
	value  float64
}

func (m meanModel) Family() string { return m.family }
func (m meanModel) Predict(x models.Table) ([]float64, error) {
	out := make([]float64, x.Len())
	for i := range out {
		out[i] = m.value
	}
	return out, nil
}

func terminalContainer() state.Container {
	obs := models.NewTable("dots_left", "dots_right", "accuracy")
	obs.Rows = []models.Row{
		{"dots_left": 40, "dots_right": 70, "accuracy": 1},
		{"dots_left": 70, "dots_right": 40, "accuracy": 1},
		{"dots_left": 40, "dots_right": 40, "accuracy": 0},
		{"dots_left": 70, "dots_right": 70, "accuracy": 0},
	}
	return state.New(dotsVars()).
		Merge(state.Delta{}.WithObservations(obs)).
		Merge(state.Delta{}.WithModels(
			models.ModelRecord{Family: "linear", Cycle: 1, Model: meanModel{"linear", 0.5}},
			models.ModelRecord{Family: "linear", Cycle: 2, Model: meanModel{"linear", 1}},
			models.ModelRecord{Family: "polynomial", Cycle: 2, Model: meanModel{"polynomial", 0.5}},
		))
}

func TestSummarizeScoresLatestPerFamily(t *testing.T) {
	summaries := Summarize(terminalContainer())
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	byFamily := make(map[string]ModelSummary)
	for _, s := range summaries {
		byFamily[s.Family] = s
	}
	// linear's latest (cycle 2) predicts 1 everywhere: half the rows are off
	// by 1, MSE = 0.5
	if s := byFamily["linear"]; s.Cycle != 2 || s.MSE != 0.5 {
		t.Fatalf("linear summary = %+v, want cycle 2, mse 0.5", s)
	}
	// constant 0.5 is off by 0.5 everywhere, MSE = 0.25
	if s := byFamily["polynomial"]; s.MSE != 0.25 {
		t.Fatalf("polynomial summary = %+v, want mse 0.25", s)
	}
}

func TestSummarizeEmptyHistory(t *testing.T) {
	if got := Summarize(state.New(dotsVars())); len(got) != 0 {
		t.Fatalf("empty history yielded %d summaries", len(got))
	}
}

func TestGenerateCSV(t *testing.T) {
	dir := t.TempDir()
	r := NewReporter(Options{
		StudyName: "dots",
		RunID:     "run-test",
		OutputDir: dir,
		Formats:   []string{"csv"},
	})
	paths, err := r.Generate(context.Background(), terminalContainer())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d artifacts, want observations.csv and models.csv", len(paths))
	}

	f, err := os.Open(filepath.Join(dir, "run-test", "observations.csv"))
	if err != nil {
		t.Fatalf("open observations.csv: %v", err)
	}
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read observations.csv: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d csv lines, want header + 4 rows", len(records))
	}
	if strings.Join(records[0], ",") != "dots_left,dots_right,accuracy" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][2] != "1" {
		t.Fatalf("first accuracy cell = %q, want 1", records[1][2])
	}
}

func TestGenerateSQLiteRoundtrip(t *testing.T) {
	dir := t.TempDir()
	r := NewReporter(Options{
		StudyName: "dots",
		RunID:     "run-db",
		OutputDir: dir,
		Formats:   []string{"sqlite"},
	})
	paths, err := r.Generate(context.Background(), terminalContainer())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "study.db" {
		t.Fatalf("paths = %v, want one study.db", paths)
	}

	summaries, err := ReadArchiveSummary(paths[0], "run-db")
	if err != nil {
		t.Fatalf("ReadArchiveSummary failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("archive holds %d summaries, want 2", len(summaries))
	}
	if summaries[0].Family != "linear" || summaries[0].MSE != 0.5 {
		t.Fatalf("archived linear summary = %+v", summaries[0])
	}
}

func TestGeneratePlot(t *testing.T) {
	dir := t.TempDir()
	r := NewReporter(Options{
		StudyName: "dots",
		RunID:     "run-plot",
		OutputDir: dir,
		Formats:   []string{"plot"},
	})
	paths, err := r.Generate(context.Background(), terminalContainer())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	info, err := os.Stat(paths[0])
	if err != nil {
		t.Fatalf("stat plot: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("plot file is empty")
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	r := NewReporter(Options{
		RunID:     "run-x",
		OutputDir: t.TempDir(),
		Formats:   []string{"pdf"},
	})
	if _, err := r.Generate(context.Background(), terminalContainer()); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

// fakeS3 records uploads in memory
type fakeS3 struct {
	keys []string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.keys = append(f.keys, *params.Key)
	return &s3.PutObjectOutput{}, nil
}

func TestS3UploaderKeysByRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "observations.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fake := &fakeS3{}
	u := NewS3UploaderWithClient(fake, "bucket")
	key, err := u.UploadFile(context.Background(), "run-9", path)
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if key != "runs/run-9/observations.csv" {
		t.Fatalf("key = %q", key)
	}
	if len(fake.keys) != 1 || fake.keys[0] != key {
		t.Fatalf("client saw keys %v", fake.keys)
	}
}

func TestFormatSummaries(t *testing.T) {
	out := FormatSummaries([]ModelSummary{{Family: "linear", Cycle: 2, MSE: 0.5}})
	if !strings.Contains(out, "linear") || !strings.Contains(out, "0.5") {
		t.Fatalf("formatted output missing fields: %q", out)
	}
}
