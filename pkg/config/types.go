package config

import (
	"fmt"
	"time"

	"github.com/autosci-lab/discovery-core/pkg/models"
)

// Config is the root study configuration
type Config struct {
	Study           Study           `yaml:"study"`
	Variables       Variables       `yaml:"variables"`
	Design          Design          `yaml:"design"`
	Theorists       []string        `yaml:"theorists"`
	Experimentalist Experimentalist `yaml:"experimentalist"`
	Runner          Runner          `yaml:"runner"`
	Report          Report          `yaml:"report"`
	LogLevel        string          `yaml:"log_level"`
	MetricsAddr     string          `yaml:"metrics_addr"`
}

// Study holds the loop parameters
type Study struct {
	Name               string `yaml:"name"`
	Seed               int64  `yaml:"seed"`
	Cycles             int    `yaml:"cycles"`
	ConditionsPerCycle int    `yaml:"conditions_per_cycle"`
	TrialsPerCondition int    `yaml:"trials_per_condition"`
}

// Variables declares the study variables
type Variables struct {
	Independent []IndependentVariable `yaml:"independent"`
	Dependent   []DependentVariable   `yaml:"dependent"`
}

// IndependentVariable declares one manipulated variable. Allowed values are
// either listed explicitly or generated from min/max/step.
type IndependentVariable struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
	Min    float64   `yaml:"min"`
	Max    float64   `yaml:"max"`
	Step   float64   `yaml:"step"`
}

// DependentVariable declares one measured variable with its value range
type DependentVariable struct {
	Name string  `yaml:"name"`
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
}

// Design holds design-space construction options
type Design struct {
	Filters []Filter `yaml:"filters"`
}

// Filter declares one design-space validity predicate
type Filter struct {
	Type string `yaml:"type"`
	A    string `yaml:"a"`
	B    string `yaml:"b"`
}

// Experimentalist selects the per-cycle condition sampling strategy
type Experimentalist struct {
	Strategy string `yaml:"strategy"`
}

// Runner configures the execution engine
type Runner struct {
	Engine       string `yaml:"engine"`
	BaseURL      string `yaml:"base_url"`
	Timeout      string `yaml:"timeout"`
	PollInterval string `yaml:"poll_interval"`
}

// GetTimeout parses the runner timeout, defaulting to 5 minutes
func (r *Runner) GetTimeout() (time.Duration, error) {
	if r.Timeout == "" {
		return 5 * time.Minute, nil
	}
	return time.ParseDuration(r.Timeout)
}

// GetPollInterval parses the result poll interval, defaulting to 3 seconds
func (r *Runner) GetPollInterval() (time.Duration, error) {
	if r.PollInterval == "" {
		return 3 * time.Second, nil
	}
	return time.ParseDuration(r.PollInterval)
}

// Report configures the terminal reporting stage
type Report struct {
	OutputDir string   `yaml:"output_dir"`
	Formats   []string `yaml:"formats"`
	S3Bucket  string   `yaml:"s3_bucket"`
	S3Region  string   `yaml:"s3_region"`
}

// VariableSet expands the variable declarations into the shared data model.
// Independent variables listed with min/max/step have their allowed values
// materialized here, once, before the first cycle.
func (c *Config) VariableSet() (*models.VariableSet, error) {
	set := &models.VariableSet{}
	for _, iv := range c.Variables.Independent {
		values := iv.Values
		if len(values) == 0 {
			if iv.Step <= 0 {
				return nil, fmt.Errorf("independent variable %s: step must be positive when values are not listed", iv.Name)
			}
			for v := iv.Min; v <= iv.Max+iv.Step/2; v += iv.Step {
				values = append(values, v)
			}
		}
		set.Independent = append(set.Independent, models.Variable{
			Name:          iv.Name,
			Kind:          models.KindIndependent,
			AllowedValues: values,
			Min:           iv.Min,
			Max:           iv.Max,
		})
	}
	for _, dv := range c.Variables.Dependent {
		set.Dependent = append(set.Dependent, models.Variable{
			Name: dv.Name,
			Kind: models.KindDependent,
			Min:  dv.Min,
			Max:  dv.Max,
		})
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}
