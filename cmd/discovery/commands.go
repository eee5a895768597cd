package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags
var version = "dev"

var (
	configPath  string
	cycleCount  int
	seedValue   int64
	metricsAddr string

	rootCmd = &cobra.Command{
		Use:   "discovery",
		Short: "Closed-loop automated discovery runner",
		Long: `discovery runs a closed-loop study: it bootstraps experimental
conditions from a declared design space, executes them, fits competing model
families to the accumulated observations, and selects the next conditions
until the configured number of cycles has run.`,
		SilenceUsage: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the discovery loop and generate the report",
		RunE:  runStudy,
	}

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate the study configuration without running anything",
		RunE:  validateConfig,
	}

	spaceCmd = &cobra.Command{
		Use:   "space",
		Short: "Print the filtered design space",
		RunE:  printSpace,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "study.yaml", "path to the study configuration")
	runCmd.Flags().IntVar(&cycleCount, "cycles", 0, "override the configured number of cycles")
	runCmd.Flags().Int64Var(&seedValue, "seed", 0, "override the configured random seed")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.AddCommand(runCmd, validateCmd, spaceCmd, versionCmd)
}
