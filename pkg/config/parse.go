package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Defaults applied when fields are omitted from the YAML document
const (
	DefaultCycles             = 2
	DefaultConditionsPerCycle = 2
	DefaultTrialsPerCondition = 10
	DefaultEngine             = "synthetic"
	DefaultStrategy           = "disagreement"
	DefaultOutputDir          = "out"
	DefaultLogLevel           = "info"
)

// ParseYAML parses a study configuration document and applies defaults.
// Validation is a separate step; see Validate.
func ParseYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Study.Name == "" {
		cfg.Study.Name = "study"
	}
	if cfg.Study.Cycles == 0 {
		cfg.Study.Cycles = DefaultCycles
	}
	if cfg.Study.ConditionsPerCycle == 0 {
		cfg.Study.ConditionsPerCycle = DefaultConditionsPerCycle
	}
	if cfg.Study.TrialsPerCondition == 0 {
		cfg.Study.TrialsPerCondition = DefaultTrialsPerCondition
	}
	if len(cfg.Theorists) == 0 {
		cfg.Theorists = []string{"linear", "polynomial", "logistic"}
	}
	if cfg.Experimentalist.Strategy == "" {
		cfg.Experimentalist.Strategy = DefaultStrategy
	}
	if cfg.Runner.Engine == "" {
		cfg.Runner.Engine = DefaultEngine
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = DefaultOutputDir
	}
	if len(cfg.Report.Formats) == 0 {
		cfg.Report.Formats = []string{"csv"}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}
