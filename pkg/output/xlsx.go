package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/sales-forecast/internal/forecast"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX export.
const (
	TrendSheet   = "Tendencia"
	ProductSheet = "Productos"
	SummarySheet = "Resumen"
)

// BuildWorkbook lays out result as a workbook with a trend, a product and a
// summary sheet. The caller must Close the returned file.
func BuildWorkbook(result *forecast.Result) (*excelize.File, error) {
	if result == nil {
		return nil, fmt.Errorf("no forecast to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", TrendSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{ProductSheet, SummarySheet} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	trend := [][]interface{}{{"Periodo", "Real", "Proyectado"}}
	for _, row := range TrendRows(result) {
		trend = append(trend, []interface{}{row.Label, row.ActualRevenue, row.ProjectedRevenue})
	}

	products := [][]interface{}{{"Producto", "Categoría", "Unidades", "Proyectadas", "Crecimiento"}}
	for _, row := range ProductRows(result) {
		products = append(products, []interface{}{row.Name, row.Category, row.ActualUnits, row.ProjectedUnits, row.GrowthPercentLabel})
	}

	s := result.Summary
	summary := [][]interface{}{
		{"Escenario", result.Scenario},
		{"Desde", result.Start},
		{"Hasta", result.End},
		{"Estado", string(result.Status)},
		{"Ingresos reales", s.ActualRevenue},
		{"Ingresos proyectados", s.ProjectedRevenue},
		{"Unidades reales", s.ActualUnits},
		{"Unidades proyectadas", s.ProjectedUnits},
		{"Avance meta anual (%)", s.AnnualGoalProgressPercent},
		{"Avance meta unidades (%)", s.UnitsGoalProgressPercent},
		{"Margen de contribución", s.ContributionMargin},
		{"Utilidad proyectada", s.ProjectedProfit},
	}
	if s.BreakEvenUnits != nil {
		summary = append(summary, []interface{}{"Punto de equilibrio (unidades)", *s.BreakEvenUnits})
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{TrendSheet, trend},
		{ProductSheet, products},
		{SummarySheet, summary},
	}
	for _, sheet := range sheets {
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// WriteXLSX writes the workbook of result to w.
func WriteXLSX(w io.Writer, result *forecast.Result) error {
	f, err := BuildWorkbook(result)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX saves the workbook of result to path.
func SaveXLSX(path string, result *forecast.Result) error {
	f, err := BuildWorkbook(result)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
