package output

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/sales-forecast/internal/forecast"
	"github.com/xuri/excelize/v2"
)

func sampleResult() *forecast.Result {
	breakEven := int64(84)
	return &forecast.Result{
		Scenario: "Base",
		Status:   forecast.StatusOK,
		Mode:     forecast.ModeMonthly,
		Start:    "2025-03-01",
		End:      "2025-04-30",
		Trend: []forecast.Bucket{
			{Label: "Mar 25", Key: "2025-2", ActualRevenue: 1234.5, ProjectedRevenue: 1500},
			{Label: "Abr 25", Key: "2025-3", ActualRevenue: 0, ProjectedRevenue: 1650.25},
		},
		Products: []forecast.ProductAggregate{
			{Name: "Pan", Category: "Panadería", ActualUnits: 15, ProjectedUnits: 17, GrowthPercentLabel: "+13.3%"},
			{Name: "Té, verde", Category: "Bebidas", ActualUnits: 0, ProjectedUnits: 0, GrowthPercentLabel: "n/a"},
		},
		Summary: forecast.Summary{
			ActualRevenue:    1234.5,
			ProjectedRevenue: 3150.25,
			BreakEvenUnits:   &breakEven,
		},
		Warnings: []string{"operatingDaysPerMonth is 0"},
	}
}

func TestTrendAndProductRows(t *testing.T) {
	result := sampleResult()

	trend := TrendRows(result)
	if len(trend) != 2 || trend[1].Label != "Abr 25" || trend[1].ProjectedRevenue != 1650.25 {
		t.Errorf("unexpected trend rows %+v", trend)
	}
	products := ProductRows(result)
	if len(products) != 2 || products[0].Name != "Pan" || products[1].GrowthPercentLabel != "n/a" {
		t.Errorf("unexpected product rows %+v", products)
	}
	if TrendRows(nil) != nil || ProductRows(nil) != nil {
		t.Errorf("expected nil rows for nil result")
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, sampleResult()); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Results for scenario Base (2025-03-01..2025-04-30, monthly) ---",
		"Mar 25 | $1,234.50 | $1,500.00",
		"Abr 25 | $0.00 | $1,650.25",
		"Pan | Panadería | 15 | 17 | +13.3%",
		"Break-even units: 84",
		"operatingDaysPerMonth is 0",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q:\n%s", want, output)
		}
	}
}

func TestPrettyFormatNoData(t *testing.T) {
	var buf bytes.Buffer
	result := &forecast.Result{Scenario: "Base", Status: forecast.StatusNoData, Message: forecast.NoDataMessage}
	if err := PrettyFormat(&buf, result); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), forecast.NoDataMessage) {
		t.Errorf("expected no-data message, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "Period") {
		t.Errorf("no-data output should not contain a table")
	}

	if err := PrettyFormat(&buf, nil); err == nil {
		t.Errorf("expected error for nil result")
	}
}

func TestCsvFormat(t *testing.T) {
	output, err := CsvString(sampleResult())
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}

	expected := strings.Join([]string{
		"label,actualRevenue,projectedRevenue",
		"Mar 25,1234.50,1500.00",
		"Abr 25,0.00,1650.25",
		"name,category,actualUnits,projectedUnits,growthPercentLabel",
		"Pan,Panadería,15,17,+13.3%",
		`"Té, verde",Bebidas,0,0,n/a`,
	}, "\n") + "\n"
	if output != expected {
		t.Errorf("CsvString() =\n%s\nexpected\n%s", output, expected)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if strings.Join(sheets, ",") != "Tendencia,Productos,Resumen" {
		t.Errorf("unexpected sheets %v", sheets)
	}

	trend, err := f.GetRows(TrendSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(trend) != 3 || trend[1][0] != "Mar 25" || trend[2][0] != "Abr 25" {
		t.Errorf("unexpected trend sheet %v", trend)
	}

	products, err := f.GetRows(ProductSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(products) != 3 || products[1][0] != "Pan" || products[2][4] != "n/a" {
		t.Errorf("unexpected product sheet %v", products)
	}

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if summary[0][1] != "Base" {
		t.Errorf("unexpected summary sheet %v", summary)
	}
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.xlsx")
	if err := SaveXLSX(path, sampleResult()); err != nil {
		t.Fatalf("SaveXLSX() error = %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	_ = f.Close()

	if err := SaveXLSX(path, nil); err == nil {
		t.Errorf("expected error for nil result")
	}
}
