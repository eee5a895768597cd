package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/autosci-lab/discovery-core/pkg/logger"
	"github.com/autosci-lab/discovery-core/pkg/models"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

// Runner drives one execution pass: it compiles each condition into a
// submission, hands the batch to the engine, and parses the collected blobs
// into observation rows. It is the only loop component expected to block for
// non-trivial wall-clock time.
type Runner struct {
	vars               *models.VariableSet
	engine             Engine
	parser             *Parser
	trialsPerCondition int
	rand               *utils.RandSource
	logger             *slog.Logger
}

// New creates a runner over the given execution engine
func New(vars *models.VariableSet, engine Engine, trialsPerCondition int, rs *utils.RandSource) *Runner {
	return &Runner{
		vars:               vars,
		engine:             engine,
		parser:             NewParser(vars),
		trialsPerCondition: trialsPerCondition,
		rand:               rs,
		logger:             logger.Default,
	}
}

// SetLogger sets the runner's logger
func (r *Runner) SetLogger(l *slog.Logger) {
	r.logger = l
}

// Collect executes all conditions and returns the parsed observations. The
// returned table may hold fewer result batches than conditions when the
// engine under-delivers; that is reflected in the table size and logged, not
// raised.
func (r *Runner) Collect(ctx context.Context, conditions models.Table) (models.Table, error) {
	ivNames := r.vars.IndependentNames()

	subs := make([]Submission, 0, conditions.Len())
	for _, cond := range conditions.Rows {
		trials := TrialSequence(cond, ivNames, r.trialsPerCondition, r.rand)
		payload, err := CompileStimulus(trials, ivNames)
		if err != nil {
			return models.Table{}, fmt.Errorf("compile condition %s: %w", cond.Key(ivNames), err)
		}
		subs = append(subs, Submission{
			ID:        utils.GenerateSubmissionID(),
			Condition: cond,
			Payload:   payload,
		})
		r.logger.Debug("compiled experiment",
			"submission_id", subs[len(subs)-1].ID,
			"trials", len(trials))
	}

	blobs, err := r.engine.Execute(ctx, subs)
	if err != nil {
		return models.Table{}, fmt.Errorf("execution failed: %w", err)
	}
	if len(blobs) < len(subs) {
		r.logger.Warn("execution under-delivered",
			"requested", len(subs),
			"delivered", len(blobs))
	}

	cols := append(append([]string(nil), ivNames...), r.vars.DependentNames()...)
	observations := models.NewTable(cols...)
	for i, blob := range blobs {
		parsed, err := r.parser.Parse(blob)
		if err != nil {
			return models.Table{}, fmt.Errorf("parse result %d: %w", i, err)
		}
		observations = observations.Concat(parsed)
	}

	r.logger.Info("collected observations",
		"conditions", conditions.Len(),
		"results", len(blobs),
		"rows", observations.Len())
	return observations, nil
}
