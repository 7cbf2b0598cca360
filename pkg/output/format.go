// Package output provides utilities for formatting and exporting forecast results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/sales-forecast/internal/forecast"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result *forecast.Result) error {
	if result == nil {
		return fmt.Errorf("no forecast to format")
	}
	p := message.NewPrinter(language.English)

	if _, err := fmt.Fprintf(w, "--- Results for scenario %s (%s..%s, %s) ---\n", result.Scenario, result.Start, result.End, result.Mode); err != nil {
		return err
	}
	if result.Status == forecast.StatusNoData {
		_, err := fmt.Fprintln(w, result.Message)
		return err
	}

	fmt.Fprintf(w, "Period  | Actual        | Projected\n")
	fmt.Fprintf(w, "______  | _____________ | _____________\n")
	for _, row := range TrendRows(result) {
		_, _ = p.Fprintf(w, "%s | $%.2f | $%.2f\n", row.Label, row.ActualRevenue, row.ProjectedRevenue)
	}

	if products := ProductRows(result); len(products) > 0 {
		fmt.Fprintf(w, "\nProduct | Category | Units | Projected | Growth\n")
		fmt.Fprintf(w, "_______ | ________ | _____ | _________ | ______\n")
		for _, row := range products {
			_, _ = p.Fprintf(w, "%s | %s | %d | %d | %s\n", row.Name, row.Category, row.ActualUnits, row.ProjectedUnits, row.GrowthPercentLabel)
		}
	}

	s := result.Summary
	fmt.Fprintf(w, "\n")
	_, _ = p.Fprintf(w, "Actual revenue: $%.2f\n", s.ActualRevenue)
	_, _ = p.Fprintf(w, "Projected revenue: $%.2f\n", s.ProjectedRevenue)
	_, _ = p.Fprintf(w, "Projected profit: $%.2f\n", s.ProjectedProfit)
	if s.BreakEvenUnits != nil {
		_, _ = p.Fprintf(w, "Break-even units: %d\n", *s.BreakEvenUnits)
	}

	if len(result.Warnings) > 0 {
		_, err := fmt.Fprintf(w, "\nWarnings:\n  %s\n", strings.Join(result.Warnings, "\n  "))
		return err
	}
	return nil
}

// CsvFormat writes the trend rows followed by the product rows in
// comma-separated value format.
func CsvFormat(w io.Writer, result *forecast.Result) error {
	if result == nil {
		return fmt.Errorf("no forecast to format")
	}
	cw := csv.NewWriter(w)

	records := [][]string{{"label", "actualRevenue", "projectedRevenue"}}
	for _, row := range TrendRows(result) {
		records = append(records, []string{row.Label, money(row.ActualRevenue), money(row.ProjectedRevenue)})
	}
	records = append(records, []string{"name", "category", "actualUnits", "projectedUnits", "growthPercentLabel"})
	for _, row := range ProductRows(result) {
		records = append(records, []string{
			row.Name,
			row.Category,
			strconv.FormatInt(row.ActualUnits, 10),
			strconv.FormatInt(row.ProjectedUnits, 10),
			row.GrowthPercentLabel,
		})
	}

	for _, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns CsvFormat as a string.
func CsvString(result *forecast.Result) (string, error) {
	var b strings.Builder
	if err := CsvFormat(&b, result); err != nil {
		return "", err
	}
	return b.String(), nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
