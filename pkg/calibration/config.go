package calibration

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is a singleton validator instance
var validate = validator.New()

// ProjectConfig is the timing-relevant slice of a project file. Loading it
// is the only configuration surface the analysis core owns; everything else
// about the project belongs to the front end.
type ProjectConfig struct {
	ClockMHz        float64 `yaml:"clock_mhz" validate:"required,gt=0"`
	NsPerWeightUnit float64 `yaml:"ns_per_weight_unit" validate:"required,gt=0"`
	TimingPolicy    string  `yaml:"timing_policy" validate:"omitempty,oneof=warn error strict"`
	MarginNs        float64 `yaml:"margin_ns" validate:"omitempty,gte=0"`
	WarningsAsErrs  bool    `yaml:"warnings_as_errors"`
	MaxIterations   int     `yaml:"max_iterations" validate:"omitempty,gt=0"`
}

// LoadProject reads and validates a project YAML file.
func LoadProject(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project config: %w", err)
	}
	return ParseProject(data)
}

// ParseProject parses and validates project YAML.
func ParseProject(data []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse project config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid project config: %w", err)
	}
	if err := cfg.checkCrossFields(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// checkCrossFields collects the rules struct tags cannot express.
func (c *ProjectConfig) checkCrossFields() error {
	cv := NewConfigValidator("project")
	if c.TimingPolicy == "strict" {
		cv.Positive("margin_ns", c.MarginNs)
	}
	if c.TimingPolicy != "strict" && c.MarginNs != 0 {
		cv.Reject("margin_ns", "only meaningful under the strict policy")
	}
	return cv.Err()
}

// ClockPeriodNs derives the clock period from the configured frequency.
func (c *ProjectConfig) ClockPeriodNs() float64 {
	return 1000.0 / c.ClockMHz
}

// Profile builds the calibration profile for this project.
func (c *ProjectConfig) Profile() (*Profile, error) {
	return NewProfile(c.NsPerWeightUnit, c.ClockPeriodNs())
}

// ConfigValidator collects configuration errors rather than failing on the
// first one.
type ConfigValidator struct {
	name   string
	errors []error
}

// NewConfigValidator creates a validator for the named config.
func NewConfigValidator(name string) *ConfigValidator {
	return &ConfigValidator{name: name}
}

// Positive requires a float field to be greater than zero.
func (cv *ConfigValidator) Positive(field string, value float64) *ConfigValidator {
	if value <= 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %g must be positive", cv.name, field, value))
	}
	return cv
}

// Reject marks a field as invalid in its current combination.
func (cv *ConfigValidator) Reject(field, reason string) *ConfigValidator {
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %s", cv.name, field, reason))
	return cv
}

// Err returns the collected errors joined, or nil when the config is valid.
func (cv *ConfigValidator) Err() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return errors.Join(cv.errors...)
}
