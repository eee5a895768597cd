package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/autosci-lab/discovery-core/internal/state"
	"github.com/autosci-lab/discovery-core/pkg/models"
)

// writeCSV exports the observation table and the model comparison as two
// CSV files and returns their paths
func (r *Reporter) writeCSV(dir string, c state.Container, summaries []ModelSummary) ([]string, error) {
	obsPath := filepath.Join(dir, "observations.csv")
	if err := writeTableCSV(obsPath, c.Observations()); err != nil {
		return nil, err
	}
	modelsPath := filepath.Join(dir, "models.csv")
	if err := writeSummariesCSV(modelsPath, summaries); err != nil {
		return nil, err
	}
	return []string{obsPath, modelsPath}, nil
}

func writeTableCSV(path string, t models.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = strconv.FormatFloat(row[col], 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeSummariesCSV(path string, summaries []ModelSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"family", "cycle", "mse"}); err != nil {
		return err
	}
	for _, s := range summaries {
		record := []string{
			s.Family,
			strconv.Itoa(s.Cycle),
			strconv.FormatFloat(s.MSE, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
