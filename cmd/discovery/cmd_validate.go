package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autosci-lab/discovery-core/internal/design"
	"github.com/autosci-lab/discovery-core/internal/experimentalist"
	"github.com/autosci-lab/discovery-core/internal/theorist"
	"github.com/autosci-lab/discovery-core/pkg/config"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

// validateConfig loads the configuration and resolves every named
// collaborator, so a bad study file fails here instead of mid-run
func validateConfig(cmd *cobra.Command, args []string) error {
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
	if _, err := theorist.NewAll(cfg.Theorists); err != nil {
		return err
	}
	rs := utils.NewRandSource(cfg.Study.Seed)
	if _, err := experimentalist.New(cfg.Experimentalist.Strategy, rs); err != nil {
		return err
	}

	fmt.Printf("%s: ok (%d design rows, %d theorists, %d cycles)\n",
		configPath, space.Len(), len(cfg.Theorists), cfg.Study.Cycles)
	return nil
}
