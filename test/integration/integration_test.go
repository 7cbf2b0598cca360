package integration

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/iwvelando/sales-forecast/internal/config"
	"github.com/iwvelando/sales-forecast/internal/forecast"
	"github.com/iwvelando/sales-forecast/internal/orders"
	"github.com/iwvelando/sales-forecast/pkg/output"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const testConfig = "../test_config.yaml"

// runForecast loads the test configuration and computes its forecast exactly
// as the CLI does.
func runForecast(t *testing.T) (*config.Configuration, *forecast.Result) {
	t.Helper()
	logger := zap.NewNop()

	conf, err := config.LoadConfiguration(testConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	loc, err := conf.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	rng, err := conf.DateRange(loc)
	if err != nil {
		t.Fatalf("DateRange() error = %v", err)
	}
	source, err := orders.NewSource(logger, conf.Orders, loc)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	runner := forecast.NewRunner(logger, source, forecast.StaticScenario(conf.Scenario), forecast.Options{Location: loc, Locale: conf.Locale})
	result, err := runner.Refresh(context.Background(), rng)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return conf, result
}

func TestMainIntegrationBaseline(t *testing.T) {
	_, result := runForecast(t)

	if result.Status != forecast.StatusOK || result.Mode != forecast.ModeMonthly {
		t.Fatalf("unexpected status/mode %s/%s", result.Status, result.Mode)
	}

	expectedTrend := []output.TrendRow{
		{Label: "Ene 25", ActualRevenue: 200, ProjectedRevenue: 8800},
		{Label: "Feb 25", ActualRevenue: 300, ProjectedRevenue: 9200},
		{Label: "Mar 25", ActualRevenue: 0.3, ProjectedRevenue: 10000},
	}
	trend := output.TrendRows(result)
	if len(trend) != len(expectedTrend) {
		t.Fatalf("expected %d buckets, got %d", len(expectedTrend), len(trend))
	}
	for i, want := range expectedTrend {
		if trend[i] != want {
			t.Errorf("bucket %d = %+v, expected %+v", i, trend[i], want)
		}
	}

	expectedProducts := []output.ProductRow{
		{Name: "Pan", Category: "Panadería", ActualUnits: 25, ProjectedUnits: 28, GrowthPercentLabel: "+12%"},
		{Name: "Café", Category: "Bebidas", ActualUnits: 6, ProjectedUnits: 7, GrowthPercentLabel: "+16.7%"},
		{Name: "Pastel", Category: "Repostería", ActualUnits: 3, ProjectedUnits: 4, GrowthPercentLabel: "+33.3%"},
	}
	products := output.ProductRows(result)
	if len(products) != len(expectedProducts) {
		t.Fatalf("expected %d products, got %+v", len(expectedProducts), products)
	}
	for i, want := range expectedProducts {
		if products[i] != want {
			t.Errorf("product %d = %+v, expected %+v", i, products[i], want)
		}
	}

	s := result.Summary
	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"ActualRevenue", s.ActualRevenue, 500.3},
		{"ProjectedRevenue", s.ProjectedRevenue, 28000},
		{"AnnualGoalProgressPercent", s.AnnualGoalProgressPercent, 5},
		{"ProjectedProfit", s.ProjectedProfit, 26844},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > 0.01 {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}
	if s.BreakEvenUnits == nil || *s.BreakEvenUnits != 167 {
		t.Errorf("expected break-even 167, got %v", s.BreakEvenUnits)
	}
}

func TestCSVOutputFormat(t *testing.T) {
	_, result := runForecast(t)

	csv, err := output.CsvString(result)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 csv lines, got %d:\n%s", len(lines), csv)
	}
	if lines[1] != "Ene 25,200.00,8800.00" {
		t.Errorf("unexpected first trend line %q", lines[1])
	}
	if lines[5] != "Pan,Panadería,25,28,+12%" {
		t.Errorf("unexpected first product line %q", lines[5])
	}
}

func TestPrettyOutputFormat(t *testing.T) {
	_, result := runForecast(t)

	var buf bytes.Buffer
	if err := output.PrettyFormat(&buf, result); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"--- Results for scenario integration (2025-01-01..2025-03-31, monthly) ---",
		"Mar 25 | $0.30 | $10,000.00",
		"Projected revenue: $28,000.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output missing %q:\n%s", want, out)
		}
	}
}

func TestXLSXOutputFormat(t *testing.T) {
	_, result := runForecast(t)

	path := filepath.Join(t.TempDir(), "forecast.xlsx")
	if err := output.SaveXLSX(path, result); err != nil {
		t.Fatalf("SaveXLSX() error = %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(output.ProductSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 4 || rows[3][0] != "Pastel" {
		t.Errorf("unexpected product sheet %v", rows)
	}
}

func TestConfigurationValidation(t *testing.T) {
	conf, err := config.LoadConfiguration(testConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected a clean test configuration, got %v", warnings)
	}

	conf.Scenario.OperatingDaysPerMonth = 0
	conf.Scenario.CapacityUnits = -1
	if warnings := conf.ValidateConfiguration(); len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}
}

func TestDataConsistency(t *testing.T) {
	_, first := runForecast(t)
	_, second := runForecast(t)

	if output.TrendRows(first)[0] != output.TrendRows(second)[0] {
		t.Errorf("repeated runs differ")
	}
	if first.Generation != second.Generation {
		t.Errorf("fresh runners should start at the same generation")
	}
	if first.Token == second.Token {
		t.Errorf("every refresh should carry a new token")
	}
}

func TestDailyRangeFromSameData(t *testing.T) {
	conf, err := config.LoadConfiguration(testConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	loc, _ := conf.Location()
	conf.Range.End = "2025-01-31"
	rng, err := conf.DateRange(loc)
	if err != nil {
		t.Fatalf("DateRange() error = %v", err)
	}
	source, err := orders.NewSource(zap.NewNop(), conf.Orders, loc)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	runner := forecast.NewRunner(nil, source, forecast.StaticScenario(conf.Scenario), forecast.Options{Location: loc, Locale: conf.Locale})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := runner.Refresh(ctx, rng)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if result.Mode != forecast.ModeDaily || len(result.Trend) != 31 {
		t.Fatalf("expected 31 daily buckets, got %s/%d", result.Mode, len(result.Trend))
	}
	// The 23:30 order of Jan 31 belongs to Jan 31 local time.
	if result.Trend[30].ActualRevenue != 49.75 || result.Trend[30].Label != "31/01" {
		t.Errorf("unexpected last bucket %+v", result.Trend[30])
	}
	// 8000 / 26 * 1.1 stays under the 1000 * 10 / 26 ceiling.
	if math.Abs(result.Trend[0].ProjectedRevenue-338.46) > 0.001 {
		t.Errorf("unexpected daily projection %v", result.Trend[0].ProjectedRevenue)
	}
}
