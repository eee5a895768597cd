package theorist

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/autosci-lab/discovery-core/pkg/models"
)

// featureFunc expands one row of independent values into a feature vector.
// The first feature is always the intercept.
type featureFunc func(r models.Row, cols []string) []float64

// LinearFitter fits an ordinary least-squares model over the raw independent
// variables
type LinearFitter struct {
	ridge float64
}

// NewLinearFitter creates a linear least-squares fitter
func NewLinearFitter() *LinearFitter {
	return &LinearFitter{ridge: 1e-9}
}

// Family returns the family identifier
func (f *LinearFitter) Family() string {
	return "linear"
}

// Fit solves the regularized normal equations for the linear feature set
func (f *LinearFitter) Fit(x models.Table, y []float64) (models.Model, error) {
	coef, err := solveLeastSquares(x, y, linearFeatures, f.ridge)
	if err != nil {
		return nil, err
	}
	return &regressionModel{
		family:   f.Family(),
		cols:     append([]string(nil), x.Columns...),
		coef:     coef,
		features: linearFeatures,
	}, nil
}

func linearFeatures(r models.Row, cols []string) []float64 {
	feats := make([]float64, 0, len(cols)+1)
	feats = append(feats, 1)
	for _, col := range cols {
		feats = append(feats, r[col])
	}
	return feats
}

// solveLeastSquares solves (AᵀA + λI)β = Aᵀy for the given feature expansion.
// The small ridge term keeps the system solvable when early cycles supply few
// distinct design points.
func solveLeastSquares(x models.Table, y []float64, expand featureFunc, ridge float64) ([]float64, error) {
	n := x.Len()
	if n == 0 {
		return nil, fmt.Errorf("no observations to fit")
	}
	if n != len(y) {
		return nil, fmt.Errorf("observation count mismatch: %d rows, %d responses", n, len(y))
	}

	p := len(expand(x.Rows[0], x.Columns))
	a := mat.NewDense(n, p, nil)
	for i, r := range x.Rows {
		a.SetRow(i, expand(r, x.Columns))
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var ata mat.Dense
	ata.Mul(a.T(), a)
	for i := 0; i < p; i++ {
		ata.Set(i, i, ata.At(i, i)+ridge)
	}
	var atb mat.VecDense
	atb.MulVec(a.T(), b)

	var beta mat.VecDense
	if err := beta.SolveVec(&ata, &atb); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	coef := make([]float64, p)
	for i := 0; i < p; i++ {
		coef[i] = beta.AtVec(i)
	}
	return coef, nil
}

// regressionModel is the fitted handle shared by the least-squares families
type regressionModel struct {
	family   string
	cols     []string
	coef     []float64
	features featureFunc
}

func (m *regressionModel) Family() string {
	return m.family
}

func (m *regressionModel) Predict(x models.Table) ([]float64, error) {
	preds := make([]float64, x.Len())
	for i, r := range x.Rows {
		feats := m.features(r, m.cols)
		if len(feats) != len(m.coef) {
			return nil, fmt.Errorf("feature count mismatch: %d features, %d coefficients", len(feats), len(m.coef))
		}
		sum := 0.0
		for j, f := range feats {
			sum += f * m.coef[j]
		}
		preds[i] = sum
	}
	return preds, nil
}
