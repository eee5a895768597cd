package theorist

import (
	"fmt"
	"math"

	"github.com/autosci-lab/discovery-core/pkg/models"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

// LogisticFitter fits a logistic regression by batch gradient descent on
// standardized features. Predictions are probabilities in (0, 1), which suits
// accuracy-style dependent variables.
type LogisticFitter struct {
	epochs       int
	learningRate float64
}

// NewLogisticFitter creates a logistic regression fitter
func NewLogisticFitter() *LogisticFitter {
	return &LogisticFitter{
		epochs:       500,
		learningRate: 0.1,
	}
}

// Family returns the family identifier
func (f *LogisticFitter) Family() string {
	return "logistic"
}

// Fit runs gradient descent on the cross-entropy loss. Responses are clamped
// into [0, 1]; fractional responses (per-condition accuracy rates) are valid
// targets.
func (f *LogisticFitter) Fit(x models.Table, y []float64) (models.Model, error) {
	n := x.Len()
	if n == 0 {
		return nil, fmt.Errorf("no observations to fit")
	}
	if n != len(y) {
		return nil, fmt.Errorf("observation count mismatch: %d rows, %d responses", n, len(y))
	}

	cols := append([]string(nil), x.Columns...)
	means := make([]float64, len(cols))
	stddevs := make([]float64, len(cols))
	for j, col := range cols {
		vals := x.Column(col)
		means[j] = utils.Mean(vals)
		stddevs[j] = utils.StdDev(vals)
		if stddevs[j] == 0 {
			stddevs[j] = 1
		}
	}

	feats := make([][]float64, n)
	for i, r := range x.Rows {
		row := make([]float64, len(cols))
		for j, col := range cols {
			row[j] = (r[col] - means[j]) / stddevs[j]
		}
		feats[i] = row
	}

	weights := make([]float64, len(cols))
	bias := 0.0
	for epoch := 0; epoch < f.epochs; epoch++ {
		gradW := make([]float64, len(cols))
		gradB := 0.0
		for i, row := range feats {
			z := bias
			for j, v := range row {
				z += weights[j] * v
			}
			err := sigmoid(z) - utils.ClampFloat64(y[i], 0, 1)
			for j, v := range row {
				gradW[j] += err * v
			}
			gradB += err
		}
		scale := f.learningRate / float64(n)
		for j := range weights {
			weights[j] -= scale * gradW[j]
		}
		bias -= scale * gradB
	}

	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("logistic fit diverged")
		}
	}

	return &logisticModel{
		cols:    cols,
		means:   means,
		stddevs: stddevs,
		weights: weights,
		bias:    bias,
	}, nil
}

type logisticModel struct {
	cols    []string
	means   []float64
	stddevs []float64
	weights []float64
	bias    float64
}

func (m *logisticModel) Family() string {
	return "logistic"
}

func (m *logisticModel) Predict(x models.Table) ([]float64, error) {
	preds := make([]float64, x.Len())
	for i, r := range x.Rows {
		z := m.bias
		for j, col := range m.cols {
			z += m.weights[j] * (r[col] - m.means[j]) / m.stddevs[j]
		}
		preds[i] = sigmoid(z)
	}
	return preds, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
