// Package theorist provides the model-fitter collaborators: each family fits
// an opaque predictive model of the dependent variable over the independent
// variables. The loop core only sees the Fitter and models.Model contracts.
package theorist

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/autosci-lab/discovery-core/pkg/models"
)

// Fitter fits one model family to observed data. Fit must not retain or
// mutate its inputs; stochastic fitters own their randomness internally.
type Fitter interface {
	// Family returns the family identifier used to tag history entries
	Family() string
	// Fit fits the family to independent-variable rows x and dependent
	// values y (one per row)
	Fit(x models.Table, y []float64) (models.Model, error)
}

// New creates a fitter by family name
func New(name string) (Fitter, error) {
	switch name {
	case "linear":
		return NewLinearFitter(), nil
	case "polynomial":
		return NewPolynomialFitter(), nil
	case "logistic":
		return NewLogisticFitter(), nil
	default:
		return nil, fmt.Errorf("unknown theorist family: %s", name)
	}
}

// NewAll creates fitters for every named family, preserving order
func NewAll(names []string) ([]Fitter, error) {
	fitters := make([]Fitter, 0, len(names))
	for _, name := range names {
		f, err := New(name)
		if err != nil {
			return nil, err
		}
		fitters = append(fitters, f)
	}
	return fitters, nil
}

// FitAll fits every family concurrently and joins the results in the given
// fitter order. Each fit receives read-only inputs and communicates only
// through its returned model; results are merged after all fits complete.
// Any fit failure fails the whole batch.
func FitAll(ctx context.Context, fitters []Fitter, x models.Table, y []float64) ([]models.Model, error) {
	g, _ := errgroup.WithContext(ctx)
	fitted := make([]models.Model, len(fitters))
	for i, f := range fitters {
		i, f := i, f
		g.Go(func() error {
			m, err := f.Fit(x, y)
			if err != nil {
				return fmt.Errorf("fit %s: %w", f.Family(), err)
			}
			fitted[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fitted, nil
}
