package cycle

import (
	"context"
	"fmt"

	"github.com/autosci-lab/discovery-core/internal/experimentalist"
	"github.com/autosci-lab/discovery-core/internal/state"
	"github.com/autosci-lab/discovery-core/internal/theorist"
	"github.com/autosci-lab/discovery-core/pkg/models"
)

// bootstrapStage seeds the condition pool from the design space before any
// observation exists. The bootstrap sampler never sees models or prior data.
func (s *Scheduler) bootstrapStage(ctx context.Context) state.StageFunc {
	return func(v state.View) (state.Delta, error) {
		conds, err := s.bootstrap.Sample(ctx, experimentalist.Request{
			Pool:  s.design,
			Count: s.conditionsPerCycle,
		})
		if err != nil {
			return state.Delta{}, fmt.Errorf("bootstrap sampling: %w", err)
		}
		s.reportDelivery(StageBootstrap, conds.Len())
		s.logger.Info("bootstrapped condition pool", "conditions", conds.Len())
		return state.Delta{}.WithConditions(conds), nil
	}
}

// executeStage runs the current condition pool and appends the parsed
// observations. Under-delivery from the runner shrinks the appended table;
// it does not fail the stage.
func (s *Scheduler) executeStage(ctx context.Context) state.StageFunc {
	return func(v state.View) (state.Delta, error) {
		if v.Conditions.IsEmpty() {
			return state.Delta{}, fmt.Errorf("no conditions to execute")
		}
		obs, err := s.runner.Collect(ctx, v.Conditions)
		if err != nil {
			return state.Delta{}, err
		}
		s.metrics.ObservationsAppended(obs.Len())
		return state.Delta{}.WithObservations(obs), nil
	}
}

// fitStage fits every configured family against the accumulated observations
// and appends one tagged record per family. With no observations the stage is
// a no-op so an under-delivering first cycle cannot poison the history.
func (s *Scheduler) fitStage(ctx context.Context, cycle int) state.StageFunc {
	return func(v state.View) (state.Delta, error) {
		if v.Observations.IsEmpty() {
			s.logger.Warn("no observations to fit, skipping", "cycle", cycle)
			return state.Delta{}, nil
		}

		ivNames := v.Variables.IndependentNames()
		dvName := v.Variables.DependentNames()[0]
		x := v.Observations.Select(ivNames...)
		y := v.Observations.Column(dvName)

		fitted, err := theorist.FitAll(ctx, s.fitters, x, y)
		if err != nil {
			return state.Delta{}, err
		}

		records := make([]models.ModelRecord, 0, len(fitted))
		for _, m := range fitted {
			records = append(records, models.ModelRecord{
				Family: m.Family(),
				Cycle:  cycle,
				Model:  m,
			})
			s.metrics.ModelFitted(m.Family())
		}
		s.logger.Info("fitted models",
			"cycle", cycle,
			"families", len(records),
			"rows", v.Observations.Len())
		return state.Delta{}.WithModels(records...), nil
	}
}

// selectStage asks the selection sampler for the next condition pool, feeding
// it the latest model per family and the distinct conditions already observed
// so nothing gets measured twice.
func (s *Scheduler) selectStage(ctx context.Context) state.StageFunc {
	return func(v state.View) (state.Delta, error) {
		ivNames := v.Variables.IndependentNames()
		conds, err := s.sampler.Sample(ctx, experimentalist.Request{
			Pool:     s.design,
			Existing: v.Observations.Distinct(ivNames...),
			Models:   models.LatestByFamily(v.Models, s.families),
			Count:    s.conditionsPerCycle,
		})
		if err != nil {
			return state.Delta{}, fmt.Errorf("%s sampling: %w", s.sampler.Name(), err)
		}
		s.reportDelivery(StageSelect, conds.Len())
		return state.Delta{}.WithConditions(conds), nil
	}
}

func (s *Scheduler) reportDelivery(stage string, delivered int) {
	s.metrics.ConditionsSampled(s.conditionsPerCycle, delivered)
	if delivered < s.conditionsPerCycle {
		s.logger.Warn("sampler under-delivered",
			"stage", stage,
			"requested", s.conditionsPerCycle,
			"delivered", delivered)
	}
}
