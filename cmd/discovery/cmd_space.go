package main

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/autosci-lab/discovery-core/internal/design"
	"github.com/autosci-lab/discovery-core/pkg/config"
)

// printSpace writes the filtered design space to stdout as CSV
func printSpace(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	vars, err := cfg.VariableSet()
	if err != nil {
		return err
	}
	filters, err := design.FromConfig(cfg.Design)
	if err != nil {
		return err
	}
	space, err := design.Build(vars, filters...)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write(space.Columns); err != nil {
		return err
	}
	record := make([]string, len(space.Columns))
	for _, row := range space.Rows {
		for i, col := range space.Columns {
			record[i] = strconv.FormatFloat(row[col], 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
