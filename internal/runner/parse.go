package runner

import (
	"encoding/json"
	"fmt"

	"github.com/autosci-lab/discovery-core/pkg/models"
)

// Parser turns one raw result blob into observation rows. It keeps only
// stimulus trials that carry a recorded response and derives the dependent
// value from the subject's key press: equal stimulus values make "y" the
// correct answer, unequal values make it "n".
type Parser struct {
	ivNames []string
	dvName  string
}

// NewParser creates a result parser for the declared variables. The first
// dependent variable receives the derived accuracy value.
func NewParser(vars *models.VariableSet) *Parser {
	return &Parser{
		ivNames: vars.IndependentNames(),
		dvName:  vars.DependentNames()[0],
	}
}

// Parse decodes a blob and returns a table with one row per usable trial
func (p *Parser) Parse(blob []byte) (models.Table, error) {
	var doc ResultDocument
	if err := json.Unmarshal(blob, &doc); err != nil {
		return models.Table{}, fmt.Errorf("malformed result blob: %w", err)
	}

	cols := append(append([]string(nil), p.ivNames...), p.dvName)
	out := models.NewTable(cols...)
	for _, trial := range doc.Trials {
		if trial.TrialType != TrialTypeStimulus {
			continue
		}
		if trial.RT == nil || trial.KeyPress == "" {
			// No recorded response
			continue
		}

		row := make(models.Row, len(cols))
		for _, name := range p.ivNames {
			v, ok := trial.Values[name]
			if !ok {
				return models.Table{}, fmt.Errorf("result trial is missing variable %s", name)
			}
			row[name] = v
		}

		correct := "n"
		if allEqual(trial.Values) {
			correct = "y"
		}
		if trial.KeyPress == correct {
			row[p.dvName] = 1
		} else {
			row[p.dvName] = 0
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
