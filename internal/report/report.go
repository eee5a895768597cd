// Package report renders the terminal state of a discovery run into
// artifacts: CSV exports, a SQLite archive, a model-comparison plot, and an
// optional S3 upload of everything produced.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/autosci-lab/discovery-core/internal/state"
	"github.com/autosci-lab/discovery-core/pkg/logger"
	"github.com/autosci-lab/discovery-core/pkg/models"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

// Options configures a report run
type Options struct {
	StudyName string
	RunID     string
	OutputDir string
	Formats   []string
	S3Bucket  string
	S3Region  string
}

// ModelSummary is one row of the model comparison: the latest fitted model of
// a family scored against the full observation table.
type ModelSummary struct {
	Family string
	Cycle  int
	MSE    float64
}

// Reporter writes run artifacts for a terminal container
type Reporter struct {
	opts   Options
	logger *slog.Logger
}

// NewReporter creates a reporter
func NewReporter(opts Options) *Reporter {
	return &Reporter{opts: opts, logger: logger.Default}
}

// SetLogger sets the reporter's logger
func (r *Reporter) SetLogger(l *slog.Logger) {
	r.logger = l
}

// Generate writes every configured artifact under OutputDir/RunID and returns
// the paths written. Artifacts are independent: a plot failure does not undo
// the CSV already on disk, it fails the report after the fact.
func (r *Reporter) Generate(ctx context.Context, c state.Container) ([]string, error) {
	dir := filepath.Join(r.opts.OutputDir, r.opts.RunID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	summaries := Summarize(c)
	var paths []string
	for _, format := range r.opts.Formats {
		var (
			written []string
			err     error
		)
		switch format {
		case "csv":
			written, err = r.writeCSV(dir, c, summaries)
		case "sqlite":
			written, err = r.writeSQLite(dir, c, summaries)
		case "plot":
			written, err = r.writePlot(dir, c)
		default:
			err = fmt.Errorf("unknown report format: %s", format)
		}
		if err != nil {
			return paths, fmt.Errorf("%s report: %w", format, err)
		}
		paths = append(paths, written...)
	}

	if r.opts.S3Bucket != "" {
		uploader, err := NewS3Uploader(ctx, r.opts.S3Bucket, r.opts.S3Region)
		if err != nil {
			return paths, fmt.Errorf("s3 uploader: %w", err)
		}
		for _, path := range paths {
			key, err := uploader.UploadFile(ctx, r.opts.RunID, path)
			if err != nil {
				return paths, fmt.Errorf("upload %s: %w", path, err)
			}
			r.logger.Info("uploaded report artifact", "bucket", r.opts.S3Bucket, "key", key)
		}
	}

	r.logger.Info("report generated",
		"run_id", r.opts.RunID,
		"artifacts", len(paths),
		"observations", c.Observations().Len(),
		"models", len(c.Models()))
	return paths, nil
}

// Summarize scores the latest model of each family present in the history
// against the accumulated observations
func Summarize(c state.Container) []ModelSummary {
	families := historyFamilies(c.Models())
	latest := models.LatestByFamily(c.Models(), families)
	if len(latest) == 0 {
		return nil
	}

	obs := c.Observations()
	ivNames := c.Variables().IndependentNames()
	dvName := c.Variables().DependentNames()[0]
	x := obs.Select(ivNames...)
	y := obs.Column(dvName)

	out := make([]ModelSummary, 0, len(latest))
	for _, rec := range latest {
		s := ModelSummary{Family: rec.Family, Cycle: rec.Cycle}
		preds, err := rec.Model.Predict(x)
		if err != nil || len(preds) != len(y) {
			// Unscoreable models surface with a sentinel rather than
			// dropping out of the comparison silently
			s.MSE = -1
		} else {
			s.MSE = meanSquaredError(preds, y)
		}
		out = append(out, s)
	}
	return out
}

// historyFamilies returns the distinct families in first-appearance order
func historyFamilies(history []models.ModelRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range history {
		if !seen[rec.Family] {
			seen[rec.Family] = true
			out = append(out, rec.Family)
		}
	}
	return out
}

func meanSquaredError(preds, y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	diffs := make([]float64, len(y))
	for i := range y {
		d := preds[i] - y[i]
		diffs[i] = d * d
	}
	return utils.Mean(diffs)
}
