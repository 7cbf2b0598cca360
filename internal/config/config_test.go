package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
locale: es
timezone: America/Mexico_City
range:
  start: "2025-01-01"
  end: "2025-03-31"
orders:
  driver: file
  path: orders.yaml
logging:
  level: debug
  format: console
output:
  format: xlsx
  file: out/forecast.xlsx
scenario:
  name: base
  averagePrice: 12.5
  estimatedUnits: 4000
  monthlyGrowthPercent: 5
  monthlySeasonalAdjustment: [0, 0, 2, 3, 0, 0, 0, 0, 0, 0, 10, 15]
  fixedCosts: 20000
  variableCostPerUnit: 4
  capacityUnits: 5000
  operatingDaysPerMonth: 26
  defaultMonthlyGoal: 50000
  monthlyGoals:
    3: 5000
    "2025-3": 9000
  annualGoal: 600000
  unitsGoal: 48000
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Sample config",
			configPath: writeConfig(t, sampleConfig),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			if config == nil {
				t.Fatalf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationFields(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Locale != "es" || conf.Timezone != "America/Mexico_City" {
		t.Errorf("unexpected locale/timezone: %s %s", conf.Locale, conf.Timezone)
	}
	if conf.Range.Start != "2025-01-01" || conf.Range.End != "2025-03-31" {
		t.Errorf("unexpected range: %+v", conf.Range)
	}
	if conf.Output.Format != "xlsx" || conf.Output.File != "out/forecast.xlsx" {
		t.Errorf("unexpected output: %+v", conf.Output)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("unexpected logging: %+v", conf.Logging)
	}

	s := conf.Scenario
	if s.Name != "base" || s.AveragePrice != 12.5 || s.OperatingDaysPerMonth != 26 {
		t.Errorf("unexpected scenario basics: %+v", s)
	}
	if len(s.MonthlySeasonalAdjustment) != 12 || s.MonthlySeasonalAdjustment[11] != 15 {
		t.Errorf("unexpected seasonal adjustments: %v", s.MonthlySeasonalAdjustment)
	}
	if s.MonthlyGoals["3"] != 5000 || s.MonthlyGoals["2025-3"] != 9000 {
		t.Errorf("unexpected monthly goals: %v", s.MonthlyGoals)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestLoadConfigurationFromReaderDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("scenario:\n  averagePrice: 10\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Locale != "es" {
		t.Errorf("expected default locale es, got %s", conf.Locale)
	}
	if conf.Orders.Driver != "file" {
		t.Errorf("expected default driver file, got %s", conf.Orders.Driver)
	}
	if conf.Scenario.MonthlyGoals == nil {
		t.Error("expected monthly goals map to be initialized")
	}

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 2 {
		t.Errorf("expected orders path and operating days warnings, got %v", warnings)
	}
}

func TestLoadConfigurationFromReaderInvalid(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("scenario: [unclosed")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLocation(t *testing.T) {
	conf := Configuration{}
	loc, err := conf.Location()
	if err != nil || loc != time.Local {
		t.Errorf("expected local zone, got %v %v", loc, err)
	}

	conf.Timezone = "Not/AZone"
	if _, err := conf.Location(); err == nil {
		t.Error("expected error for unknown time zone")
	}
}

func TestDateRange(t *testing.T) {
	conf := Configuration{Range: RangeConfig{Start: "2025-01-01", End: "2025-03-01"}}
	r, err := conf.DateRange(time.UTC)
	if err != nil {
		t.Fatalf("DateRange() error = %v", err)
	}
	if r.Days() != 59 {
		t.Errorf("expected 59 days, got %d", r.Days())
	}

	conf.Range.End = ""
	if _, err := conf.DateRange(time.UTC); err == nil {
		t.Error("expected error for missing range end")
	}
}
