// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/iwvelando/sales-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for sales-forecast.
type Configuration struct {
	Locale   string        `yaml:"locale,omitempty" json:"locale,omitempty"`
	Timezone string        `yaml:"timezone,omitempty" json:"timezone,omitempty"`
	Range    RangeConfig   `yaml:"range,omitempty" json:"range"`
	Orders   OrdersConfig  `yaml:"orders,omitempty" json:"orders"`
	Scenario Scenario      `yaml:"scenario" json:"scenario"`
	Logging  LoggingConfig `yaml:"logging,omitempty" json:"logging"`
	Output   OutputConfig  `yaml:"output,omitempty" json:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv, xlsx
	File   string `yaml:"file,omitempty" json:"file,omitempty"`     // destination for xlsx
}

// RangeConfig holds the default date range, both bounds inclusive (YYYY-MM-DD).
type RangeConfig struct {
	Start string `yaml:"start,omitempty" json:"start,omitempty"`
	End   string `yaml:"end,omitempty" json:"end,omitempty"`
}

// OrdersConfig selects and configures the historical order source.
type OrdersConfig struct {
	Driver string `yaml:"driver,omitempty" json:"driver,omitempty"` // file, postgres
	Path   string `yaml:"path,omitempty" json:"path,omitempty"`     // file driver
	DSN    string `yaml:"dsn,omitempty" json:"-"`                   // postgres driver
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Unmarshal only sees env keys viper knows about.
	_ = v.BindEnv("orders.dsn")

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.applyDefaults()
	return &configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.Locale == "" {
		c.Locale = constants.DefaultLocale
	}
	if c.Orders.Driver == "" {
		c.Orders.Driver = constants.OrderDriverFile
	}
	if c.Scenario.MonthlyGoals == nil {
		c.Scenario.MonthlyGoals = make(map[string]float64)
	}
}

// Location resolves the configured time zone. An empty time zone means the
// process' local zone.
func (c *Configuration) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DateRange parses the configured range in loc.
func (c *Configuration) DateRange(loc *time.Location) (datetime.Range, error) {
	if c.Range.Start == "" || c.Range.End == "" {
		return datetime.Range{}, fmt.Errorf("range start and end are required")
	}
	return datetime.ParseRange(c.Range.Start, c.Range.End, loc)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings.
// None of the findings stop a forecast; the engine falls back as documented on each field.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if !datetime.SupportedLocale(c.Locale) {
		warnings = append(warnings, fmt.Sprintf("locale %q has no month labels, using %q", c.Locale, constants.DefaultLocale))
	}

	warnings = append(warnings, validation.ValidateRange(c.Range.Start, c.Range.End)...)
	warnings = append(warnings, validation.ValidateOrderSource(c.Orders.Driver, c.Orders.Path, c.Orders.DSN)...)
	warnings = append(warnings, c.Scenario.Validate()...)

	return warnings
}
