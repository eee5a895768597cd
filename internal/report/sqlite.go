package report

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/autosci-lab/discovery-core/internal/state"
	"github.com/autosci-lab/discovery-core/pkg/models"
)

// writeSQLite archives the run into a single SQLite database: one study row,
// the full observation table, and the model comparison. All inserts run in
// one transaction so a crashed archive leaves no half-written database.
func (r *Reporter) writeSQLite(dir string, c state.Container, summaries []ModelSummary) ([]string, error) {
	path := filepath.Join(dir, "study.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS study (
			run_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			observations INTEGER NOT NULL,
			models INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS observations (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			variable TEXT NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (run_id, seq, variable)
		);
		CREATE TABLE IF NOT EXISTS model_summaries (
			run_id TEXT NOT NULL,
			family TEXT NOT NULL,
			cycle INTEGER NOT NULL,
			mse REAL NOT NULL,
			PRIMARY KEY (run_id, family)
		)`); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	obs := c.Observations()
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO study (run_id, name, observations, models) VALUES (?, ?, ?, ?)`,
		r.opts.RunID, r.opts.StudyName, obs.Len(), len(c.Models()),
	); err != nil {
		return nil, fmt.Errorf("insert study: %w", err)
	}

	if err := insertObservations(tx, r.opts.RunID, obs); err != nil {
		return nil, err
	}
	for _, s := range summaries {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO model_summaries (run_id, family, cycle, mse) VALUES (?, ?, ?, ?)`,
			r.opts.RunID, s.Family, s.Cycle, s.MSE,
		); err != nil {
			return nil, fmt.Errorf("insert model summary %s: %w", s.Family, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit archive: %w", err)
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return []string{path}, nil
}

func insertObservations(tx *sql.Tx, runID string, obs models.Table) error {
	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO observations (run_id, seq, variable, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare observation insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for seq, row := range obs.Rows {
		for _, col := range obs.Columns {
			if _, err := stmt.Exec(runID, seq, col, row[col]); err != nil {
				return fmt.Errorf("insert observation %d/%s: %w", seq, col, err)
			}
		}
	}
	return nil
}

// ReadArchiveSummary loads the model comparison back out of an archive,
// mainly for verification and the CLI
func ReadArchiveSummary(path, runID string) ([]ModelSummary, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query(
		`SELECT family, cycle, mse FROM model_summaries WHERE run_id = ? ORDER BY family`, runID)
	if err != nil {
		return nil, fmt.Errorf("select model summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ModelSummary
	for rows.Next() {
		var s ModelSummary
		if err := rows.Scan(&s.Family, &s.Cycle, &s.MSE); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FormatSummaries renders the model comparison as a small fixed table for
// log output and the CLI
func FormatSummaries(summaries []ModelSummary) string {
	var b strings.Builder
	b.WriteString("family\tcycle\tmse")
	for _, s := range summaries {
		b.WriteString("\n" + s.Family + "\t" + strconv.Itoa(s.Cycle) + "\t" +
			strconv.FormatFloat(s.MSE, 'g', 6, 64))
	}
	return b.String()
}
