package config

import (
	"fmt"
	"os"
)

// Load reads, parses, and validates a study configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate performs structural validation on the configuration. Collaborator
// names (theorists, sampler strategy) are resolved against their registries
// at wiring time, which also happens before the first cycle.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Study.Cycles <= 0 {
		return fmt.Errorf("study cycles must be positive, got %d", c.Study.Cycles)
	}
	if c.Study.ConditionsPerCycle <= 0 {
		return fmt.Errorf("study conditions_per_cycle must be positive, got %d", c.Study.ConditionsPerCycle)
	}
	if c.Study.TrialsPerCondition <= 0 {
		return fmt.Errorf("study trials_per_condition must be positive, got %d", c.Study.TrialsPerCondition)
	}

	if _, err := c.VariableSet(); err != nil {
		return fmt.Errorf("variables validation failed: %w", err)
	}

	ivNames := make(map[string]bool)
	for _, iv := range c.Variables.Independent {
		ivNames[iv.Name] = true
	}
	for i, f := range c.Design.Filters {
		if f.Type != "not_equal" {
			return fmt.Errorf("design filter %d: unknown type %s", i, f.Type)
		}
		if !ivNames[f.A] {
			return fmt.Errorf("design filter %d: variable %s does not exist", i, f.A)
		}
		if !ivNames[f.B] {
			return fmt.Errorf("design filter %d: variable %s does not exist", i, f.B)
		}
	}

	if len(c.Theorists) == 0 {
		return fmt.Errorf("at least one theorist must be configured")
	}
	seenFamilies := make(map[string]bool)
	for _, fam := range c.Theorists {
		if seenFamilies[fam] {
			return fmt.Errorf("duplicate theorist family: %s", fam)
		}
		seenFamilies[fam] = true
	}

	switch c.Runner.Engine {
	case "synthetic":
	case "http":
		if c.Runner.BaseURL == "" {
			return fmt.Errorf("runner base_url is required for the http engine")
		}
	default:
		return fmt.Errorf("invalid runner engine: %s (must be synthetic or http)", c.Runner.Engine)
	}
	if _, err := c.Runner.GetTimeout(); err != nil {
		return fmt.Errorf("invalid runner timeout %s: %w", c.Runner.Timeout, err)
	}
	if _, err := c.Runner.GetPollInterval(); err != nil {
		return fmt.Errorf("invalid runner poll_interval %s: %w", c.Runner.PollInterval, err)
	}

	validFormats := map[string]bool{
		"csv":    true,
		"sqlite": true,
		"plot":   true,
	}
	for _, f := range c.Report.Formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid report format: %s (must be csv, sqlite, or plot)", f)
		}
	}
	if c.Report.S3Bucket != "" && c.Report.S3Region == "" {
		return fmt.Errorf("report s3_region is required when s3_bucket is set")
	}

	return nil
}
