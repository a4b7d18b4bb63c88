package performance

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-performance/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInitialCapital   = 100000.0
	DefaultCostRate         = 0.001
	DefaultPeriodsPerYear   = 252
	DefaultDecimalPrecision = 6
)

// Config is passed explicitly to every run. CostRate is a fraction of notional
// charged per unit of turnover: 0.001 means 10 basis points, and a flip from
// long to short (turnover 2) costs 0.002 of equity.
type Config struct {
	InitialCapital   float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Capital the equity curve starts from,exclusiveMinimum=0" validate:"gt=0"`
	CostRate         float64                    `yaml:"cost_rate" json:"cost_rate" jsonschema:"title=Cost Rate,description=Fraction of notional charged per unit of turnover (0.001 = 10 bps),minimum=0" validate:"gte=0"`
	CostModel        CostModelType              `yaml:"cost_model" json:"cost_model" jsonschema:"title=Cost Model,description=How turnover is converted into cost drag" validate:"required,oneof=linear zero"`
	PeriodsPerYear   int                        `yaml:"periods_per_year" json:"periods_per_year" jsonschema:"title=Periods Per Year,description=Number of bars per year used to annualize summary metrics,minimum=1" validate:"gt=0"`
	DecimalPrecision int                        `yaml:"decimal_precision" json:"decimal_precision" jsonschema:"title=Decimal Precision,description=Decimal places kept in the written report,minimum=0" validate:"gte=0"`
	StartTime        optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime          optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
}

// UnmarshalYAML keeps the defaults for keys missing from the document.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig struct {
		InitialCapital   *float64       `yaml:"initial_capital"`
		CostRate         *float64       `yaml:"cost_rate"`
		CostBps          *float64       `yaml:"cost_bps"`
		CostModel        *CostModelType `yaml:"cost_model"`
		PeriodsPerYear   *int           `yaml:"periods_per_year"`
		DecimalPrecision *int           `yaml:"decimal_precision"`
		StartTime        *time.Time     `yaml:"start_time"`
		EndTime          *time.Time     `yaml:"end_time"`
	}

	var raw rawConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*c = DefaultConfig()

	if raw.InitialCapital != nil {
		c.InitialCapital = *raw.InitialCapital
	}

	if raw.CostBps != nil {
		c.CostRate = CostRateFromBps(*raw.CostBps)
	}

	// cost_rate wins over cost_bps when both are given
	if raw.CostRate != nil {
		c.CostRate = *raw.CostRate
	}

	if raw.CostModel != nil {
		c.CostModel = *raw.CostModel
	}

	if raw.PeriodsPerYear != nil {
		c.PeriodsPerYear = *raw.PeriodsPerYear
	}

	if raw.DecimalPrecision != nil {
		c.DecimalPrecision = *raw.DecimalPrecision
	}

	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	}

	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	}

	return nil
}

// Validate checks the configuration and returns an InvalidInputError on failure.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return &errors.InvalidInputError{
			Field: "config",
			Err:   errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err),
		}
	}

	if math.IsInf(c.InitialCapital, 0) {
		return errors.NewInvalidInputError(errors.ErrCodeInvalidConfiguration, "config", "initial_capital must be finite")
	}

	if math.IsInf(c.CostRate, 0) {
		return errors.NewInvalidInputError(errors.ErrCodeInvalidConfiguration, "config", "cost_rate must be finite")
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.NewInvalidInputError(errors.ErrCodeInvalidConfiguration, "config", "end_time is before start_time")
	}

	return nil
}

// ParseConfig parses a YAML document into a validated Config.
func ParseConfig(content string) (Config, error) {
	config := DefaultConfig()

	if strings.TrimSpace(content) != "" {
		if err := yaml.Unmarshal([]byte(content), &config); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
		}
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// MarshalYAML writes the config in the shape UnmarshalYAML reads. Unset times
// are omitted.
func (c Config) MarshalYAML() (any, error) {
	type rawConfig struct {
		InitialCapital   float64       `yaml:"initial_capital"`
		CostRate         float64       `yaml:"cost_rate"`
		CostModel        CostModelType `yaml:"cost_model"`
		PeriodsPerYear   int           `yaml:"periods_per_year"`
		DecimalPrecision int           `yaml:"decimal_precision"`
		StartTime        *time.Time    `yaml:"start_time,omitempty"`
		EndTime          *time.Time    `yaml:"end_time,omitempty"`
	}

	raw := rawConfig{
		InitialCapital:   c.InitialCapital,
		CostRate:         c.CostRate,
		CostModel:        c.CostModel,
		PeriodsPerYear:   c.PeriodsPerYear,
		DecimalPrecision: c.DecimalPrecision,
		StartTime:        nil,
		EndTime:          nil,
	}

	if c.StartTime.IsSome() {
		start := c.StartTime.Unwrap()
		raw.StartTime = &start
	}

	if c.EndTime.IsSome() {
		end := c.EndTime.Unwrap()
		raw.EndTime = &end
	}

	return raw, nil
}

// CostRateFromBps converts basis points into the fractional cost rate.
func CostRateFromBps(bps float64) float64 {
	return bps / 10000
}

// GenerateSchema generates a JSON schema for the Config
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if strings.Contains(t.String(), "performance.CostModelType") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: AllCostModels,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "performance-config"
	schema.Description = "Configuration schema for signal backtest performance runs"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// DefaultConfig returns a Config with the documented defaults
func DefaultConfig() Config {
	return Config{
		InitialCapital:   DefaultInitialCapital,
		CostRate:         DefaultCostRate,
		CostModel:        CostModelLinear,
		PeriodsPerYear:   DefaultPeriodsPerYear,
		DecimalPrecision: DefaultDecimalPrecision,
		StartTime:        optional.None[time.Time](),
		EndTime:          optional.None[time.Time](),
	}
}

// TestConfig returns the small-capital, cost-free setup used across tests.
func TestConfig(initialCapital float64, costRate float64) Config {
	config := DefaultConfig()
	config.InitialCapital = initialCapital
	config.CostRate = costRate

	return config
}
