// Package cycle implements the closed-loop scheduler: a fixed, non-branching
// sequence of execute, fit, and select stages threaded through the shared
// state container and repeated for a configured number of cycles.
package cycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/autosci-lab/discovery-core/internal/experimentalist"
	"github.com/autosci-lab/discovery-core/internal/metrics"
	"github.com/autosci-lab/discovery-core/internal/state"
	"github.com/autosci-lab/discovery-core/internal/theorist"
	"github.com/autosci-lab/discovery-core/pkg/logger"
	"github.com/autosci-lab/discovery-core/pkg/models"
)

// Phase is the scheduler's position in the loop state machine
type Phase string

const (
	PhaseInitial      Phase = "initial"
	PhaseBootstrapped Phase = "bootstrapped"
	PhaseExecuted     Phase = "executed"
	PhaseFitted       Phase = "fitted"
	PhaseSelected     Phase = "selected"
	PhaseTerminal     Phase = "terminal"
)

// Stage names used in logs and metrics
const (
	StageBootstrap = "bootstrap"
	StageExecute   = "execute"
	StageFit       = "fit"
	StageSelect    = "select"
)

// ConditionRunner executes the current condition pool and returns parsed
// observations. It is the loop's single blocking collaborator.
type ConditionRunner interface {
	Collect(ctx context.Context, conditions models.Table) (models.Table, error)
}

// Scheduler drives the loop. It owns cycle bookkeeping: which models belong
// to which cycle, and which history entries feed the next selection.
type Scheduler struct {
	design             models.Table
	fitters            []theorist.Fitter
	families           []string
	bootstrap          experimentalist.Sampler
	sampler            experimentalist.Sampler
	runner             ConditionRunner
	cycles             int
	conditionsPerCycle int

	phase   Phase
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewScheduler assembles a scheduler from its collaborators
func NewScheduler(
	design models.Table,
	fitters []theorist.Fitter,
	bootstrap experimentalist.Sampler,
	sampler experimentalist.Sampler,
	runner ConditionRunner,
	cycles int,
	conditionsPerCycle int,
) *Scheduler {
	families := make([]string, len(fitters))
	for i, f := range fitters {
		families[i] = f.Family()
	}
	return &Scheduler{
		design:             design,
		fitters:            fitters,
		families:           families,
		bootstrap:          bootstrap,
		sampler:            sampler,
		runner:             runner,
		cycles:             cycles,
		conditionsPerCycle: conditionsPerCycle,
		phase:              PhaseInitial,
		logger:             logger.Default,
	}
}

// SetLogger sets the scheduler's logger
func (s *Scheduler) SetLogger(l *slog.Logger) {
	s.logger = l
}

// SetMetrics attaches a metrics recorder
func (s *Scheduler) SetMetrics(m *metrics.Recorder) {
	s.metrics = m
}

// Phase returns the scheduler's current phase
func (s *Scheduler) Phase() Phase {
	return s.phase
}

// Run bootstraps the condition pool once, then repeats execute, fit, select
// for the configured number of cycles and returns the terminal container.
// Any stage failure halts the loop; the returned container is the last
// successfully merged state, intact and inspectable.
func (s *Scheduler) Run(ctx context.Context, c state.Container) (state.Container, error) {
	if err := s.validate(); err != nil {
		return c, err
	}

	c, err := s.step(ctx, c, StageBootstrap, PhaseBootstrapped, s.bootstrapStage(ctx))
	if err != nil {
		return c, err
	}

	for cycle := 1; cycle <= s.cycles; cycle++ {
		log := s.logger.With("cycle", cycle)
		log.Info("cycle started",
			"conditions", c.Conditions().Len(),
			"observations", c.Observations().Len(),
			"models", len(c.Models()))

		c, err = s.step(ctx, c, StageExecute, PhaseExecuted, s.executeStage(ctx))
		if err != nil {
			return c, fmt.Errorf("cycle %d: %w", cycle, err)
		}

		c, err = s.step(ctx, c, StageFit, PhaseFitted, s.fitStage(ctx, cycle))
		if err != nil {
			return c, fmt.Errorf("cycle %d: %w", cycle, err)
		}

		c, err = s.step(ctx, c, StageSelect, PhaseSelected, s.selectStage(ctx))
		if err != nil {
			return c, fmt.Errorf("cycle %d: %w", cycle, err)
		}

		s.metrics.CycleCompleted()
		log.Info("cycle completed",
			"observations", c.Observations().Len(),
			"models", len(c.Models()))
	}

	s.phase = PhaseTerminal
	s.logger.Info("discovery loop finished",
		"cycles", s.cycles,
		"observations", c.Observations().Len(),
		"models", len(c.Models()))
	return c, nil
}

// step applies one stage and advances the phase on success. On failure the
// input container is returned unchanged: merge is all-or-nothing per stage
// and the scheduler does not retry.
func (s *Scheduler) step(ctx context.Context, c state.Container, stage string, next Phase, f state.StageFunc) (state.Container, error) {
	if err := ctx.Err(); err != nil {
		return c, err
	}
	start := time.Now()
	out, err := state.Apply(c, f)
	s.metrics.StageObserved(stage, time.Since(start))
	if err != nil {
		s.metrics.StageFailed(stage)
		return c, fmt.Errorf("%s stage: %w", stage, err)
	}
	s.phase = next
	return out, nil
}

func (s *Scheduler) validate() error {
	if s.design.IsEmpty() {
		return fmt.Errorf("design space is empty")
	}
	if len(s.fitters) == 0 {
		return fmt.Errorf("no theorist families configured")
	}
	if s.bootstrap == nil || s.sampler == nil {
		return fmt.Errorf("bootstrap and selection samplers are required")
	}
	if s.runner == nil {
		return fmt.Errorf("condition runner is required")
	}
	if s.cycles <= 0 {
		return fmt.Errorf("cycle count must be positive, got %d", s.cycles)
	}
	if s.conditionsPerCycle <= 0 {
		return fmt.Errorf("conditions per cycle must be positive, got %d", s.conditionsPerCycle)
	}
	return nil
}
