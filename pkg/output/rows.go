package output

import (
	"github.com/iwvelando/sales-forecast/internal/forecast"
)

// TrendRow is one flattened row of the trend series.
type TrendRow struct {
	Label            string  `json:"label"`
	ActualRevenue    float64 `json:"actualRevenue"`
	ProjectedRevenue float64 `json:"projectedRevenue"`
}

// ProductRow is one flattened row of the product table.
type ProductRow struct {
	Name               string `json:"name"`
	Category           string `json:"category"`
	ActualUnits        int64  `json:"actualUnits"`
	ProjectedUnits     int64  `json:"projectedUnits"`
	GrowthPercentLabel string `json:"growthPercentLabel"`
}

// TrendRows flattens the trend of result in bucket order.
func TrendRows(result *forecast.Result) []TrendRow {
	if result == nil {
		return nil
	}
	rows := make([]TrendRow, 0, len(result.Trend))
	for _, b := range result.Trend {
		rows = append(rows, TrendRow{
			Label:            b.Label,
			ActualRevenue:    b.ActualRevenue,
			ProjectedRevenue: b.ProjectedRevenue,
		})
	}
	return rows
}

// ProductRows flattens the product rollup of result, keeping its order.
func ProductRows(result *forecast.Result) []ProductRow {
	if result == nil {
		return nil
	}
	rows := make([]ProductRow, 0, len(result.Products))
	for _, p := range result.Products {
		rows = append(rows, ProductRow(p))
	}
	return rows
}
