package theorist

import (
	"github.com/autosci-lab/discovery-core/pkg/models"
)

// PolynomialFitter fits a degree-2 least-squares model: raw terms, pairwise
// interactions, and squares of every independent variable
type PolynomialFitter struct {
	ridge float64
}

// NewPolynomialFitter creates a degree-2 polynomial fitter
func NewPolynomialFitter() *PolynomialFitter {
	return &PolynomialFitter{ridge: 1e-7}
}

// Family returns the family identifier
func (f *PolynomialFitter) Family() string {
	return "polynomial"
}

// Fit solves the regularized normal equations for the quadratic feature set
func (f *PolynomialFitter) Fit(x models.Table, y []float64) (models.Model, error) {
	coef, err := solveLeastSquares(x, y, quadraticFeatures, f.ridge)
	if err != nil {
		return nil, err
	}
	return &regressionModel{
		family:   f.Family(),
		cols:     append([]string(nil), x.Columns...),
		coef:     coef,
		features: quadraticFeatures,
	}, nil
}

// quadraticFeatures expands [a, b, ...] into
// [1, a, b, ..., a*b, ..., a², b², ...] in column order
func quadraticFeatures(r models.Row, cols []string) []float64 {
	feats := make([]float64, 0, 1+len(cols)*(len(cols)+3)/2)
	feats = append(feats, 1)
	for _, col := range cols {
		feats = append(feats, r[col])
	}
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			feats = append(feats, r[cols[i]]*r[cols[j]])
		}
	}
	for _, col := range cols {
		feats = append(feats, r[col]*r[col])
	}
	return feats
}
