package forecast

import (
	"math"

	"github.com/iwvelando/sales-forecast/internal/config"
	"github.com/iwvelando/sales-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Summary holds the scenario KPIs shown next to the charts.
type Summary struct {
	ActualRevenue             float64 `json:"actualRevenue"`
	ProjectedRevenue          float64 `json:"projectedRevenue"`
	ActualUnits               int64   `json:"actualUnits"`
	ProjectedUnits            int64   `json:"projectedUnits"`
	AnnualGoalProgressPercent float64 `json:"annualGoalProgressPercent"`
	UnitsGoalProgressPercent  float64 `json:"unitsGoalProgressPercent"`
	EstimatedRevenue          float64 `json:"estimatedRevenue"`
	ContributionMargin        float64 `json:"contributionMargin"`
	BreakEvenUnits            *int64  `json:"breakEvenUnits,omitempty"`
	ProjectedProfit           float64 `json:"projectedProfit"`
}

// Summarize totals the buckets and products and derives the cost KPIs.
func Summarize(buckets []Bucket, products []ProductAggregate, scenario config.Scenario) Summary {
	actual := decimal.Zero
	var projected float64
	for _, b := range buckets {
		actual = actual.Add(b.actual)
		projected += b.projected
	}

	var s Summary
	for _, p := range products {
		s.ActualUnits += p.ActualUnits
		s.ProjectedUnits += p.ProjectedUnits
	}

	actualRevenue := actual.InexactFloat64()
	s.ActualRevenue = mathutil.Round(actualRevenue)
	s.ProjectedRevenue = mathutil.Round(projected)
	s.AnnualGoalProgressPercent = mathutil.Round(mathutil.CalculatePercentage(actualRevenue, scenario.AnnualGoal))
	s.UnitsGoalProgressPercent = mathutil.Round(mathutil.CalculatePercentage(float64(s.ActualUnits), scenario.UnitsGoal))
	s.EstimatedRevenue = mathutil.Round(scenario.AveragePrice * scenario.EstimatedUnits)

	margin := scenario.AveragePrice - scenario.VariableCostPerUnit
	s.ContributionMargin = mathutil.Round(margin)
	if margin > 0 && !mathutil.IsZero(margin) {
		units := int64(math.Ceil(scenario.FixedCosts / margin))
		s.BreakEvenUnits = &units
	}

	variable := scenario.VariableCostPerUnit * float64(s.ProjectedUnits)
	s.ProjectedProfit = mathutil.Round(projected - scenario.FixedCosts - variable)

	return s
}
