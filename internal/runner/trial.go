// Package runner turns condition rows into executable experiments and
// collects the resulting observations. It owns trial-sequence generation,
// stimulus payload compilation, the execution engines, and result parsing.
package runner

import (
	"sort"

	"github.com/autosci-lab/discovery-core/pkg/models"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

// TrialSequence builds a counterbalanced trial list for one condition. The
// condition's distinct values form the level set; the full crossing of
// levels over the stimulus variables is repeated until minTrials is reached
// and the result is shuffled with the study's random source.
func TrialSequence(cond models.Row, ivNames []string, minTrials int, rs *utils.RandSource) []models.Row {
	levels := distinctValues(cond, ivNames)

	crossing := crossLevels(levels, ivNames)
	trials := make([]models.Row, 0, minTrials+len(crossing))
	for len(trials) < minTrials {
		trials = append(trials, crossing...)
	}

	rs.Shuffle(len(trials), func(i, j int) {
		trials[i], trials[j] = trials[j], trials[i]
	})
	return trials
}

func distinctValues(cond models.Row, ivNames []string) []float64 {
	seen := make(map[float64]bool, len(ivNames))
	levels := make([]float64, 0, len(ivNames))
	for _, name := range ivNames {
		v := cond[name]
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	sort.Float64s(levels)
	return levels
}

func crossLevels(levels []float64, ivNames []string) []models.Row {
	idx := make([]int, len(ivNames))
	var out []models.Row
	for {
		row := make(models.Row, len(ivNames))
		for i, name := range ivNames {
			row[name] = levels[idx[i]]
		}
		out = append(out, row)

		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(levels) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return out
		}
	}
}
