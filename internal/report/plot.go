package report

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/autosci-lab/discovery-core/internal/state"
	"github.com/autosci-lab/discovery-core/pkg/models"
)

// writePlot renders the model comparison: observed dependent values scattered
// over the first independent variable, with one predicted curve per family.
// Remaining independent variables are pinned to their first allowed value so
// every family is sliced through the same point of the design space.
func (r *Reporter) writePlot(dir string, c state.Container) ([]string, error) {
	vars := c.Variables()
	ivNames := vars.IndependentNames()
	dvName := vars.DependentNames()[0]
	axis := vars.Independent[0]

	p := plot.New()
	p.Title.Text = r.opts.StudyName
	p.X.Label.Text = axis.Name
	p.Y.Label.Text = dvName

	obs := c.Observations()
	pts := make(plotter.XYs, obs.Len())
	for i, row := range obs.Rows {
		pts[i].X = row[axis.Name]
		pts[i].Y = row[dvName]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("observation scatter: %w", err)
	}
	p.Add(scatter)
	p.Legend.Add("observed", scatter)

	grid := predictionSlice(vars, axis)
	xs := grid.Column(axis.Name)
	latest := models.LatestByFamily(c.Models(), historyFamilies(c.Models()))
	for i, rec := range latest {
		preds, err := rec.Model.Predict(grid.Select(ivNames...))
		if err != nil {
			return nil, fmt.Errorf("predict for %s: %w", rec.Family, err)
		}
		curve := make(plotter.XYs, len(xs))
		for j := range xs {
			curve[j].X = xs[j]
			curve[j].Y = preds[j]
		}
		line, err := plotter.NewLine(curve)
		if err != nil {
			return nil, fmt.Errorf("prediction curve for %s: %w", rec.Family, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(rec.Family, line)
	}

	path := filepath.Join(dir, "comparison.png")
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return nil, fmt.Errorf("save plot: %w", err)
	}
	return []string{path}, nil
}

// predictionSlice builds the rows the curves are evaluated on: the axis
// variable sweeps its allowed values, every other independent variable holds
// its first allowed value
func predictionSlice(vars *models.VariableSet, axis models.Variable) models.Table {
	out := models.NewTable(vars.IndependentNames()...)
	for _, v := range axis.AllowedValues {
		row := make(models.Row, len(vars.Independent))
		for _, iv := range vars.Independent {
			if iv.Name == axis.Name {
				row[iv.Name] = v
			} else {
				row[iv.Name] = iv.AllowedValues[0]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
