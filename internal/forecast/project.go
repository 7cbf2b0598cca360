package forecast

import (
	"fmt"

	"github.com/iwvelando/sales-forecast/internal/config"
	"github.com/iwvelando/sales-forecast/pkg/mathutil"
)

// Project fills ProjectedRevenue for every bucket:
//
//	goal      = scenario.ResolveGoal(year, month)
//	factor    = 1 + (growth + seasonal[month]) / 100
//	projected = min(goal/days * factor, capacity*price/days)   daily
//	projected = min(goal * factor, capacity*price)              monthly
//
// A non-positive operatingDaysPerMonth leaves daily buckets un-normalized and
// uncapped. Negative capacity or price leaves every bucket uncapped; a zero
// capacity or price caps every bucket at 0. The returned warnings describe
// which fallback was taken.
func Project(buckets []Bucket, mode Mode, scenario config.Scenario) []string {
	var warnings []string

	days := float64(scenario.OperatingDaysPerMonth)
	normalize := mode == ModeDaily && scenario.OperatingDaysPerMonth > 0
	if mode == ModeDaily && !normalize {
		warnings = append(warnings, fmt.Sprintf("operatingDaysPerMonth is %d: daily projections show the monthly goal and are not capped",
			scenario.OperatingDaysPerMonth))
	}

	clamp := scenario.CapacityUnits >= 0 && scenario.AveragePrice >= 0
	if scenario.CapacityUnits < 0 || scenario.AveragePrice < 0 {
		warnings = append(warnings, fmt.Sprintf("capacityUnits (%.2f) and averagePrice (%.2f) must not be negative: projections are not capped",
			scenario.CapacityUnits, scenario.AveragePrice))
	}
	if mode == ModeDaily && !normalize {
		clamp = false
	}

	ceiling := scenario.CapacityUnits * scenario.AveragePrice
	if normalize {
		ceiling /= days
	}

	for i := range buckets {
		b := &buckets[i]
		goal := scenario.ResolveGoal(b.Year, b.MonthIndex)
		factor := mathutil.GrowthFactor(scenario.MonthlyGrowthPercent + scenario.SeasonalAdjustment(b.MonthIndex))

		base := goal
		if normalize {
			base /= days
		}
		projected := base * factor
		if clamp {
			projected = mathutil.Min(projected, ceiling)
		}

		b.projected = projected
		b.ProjectedRevenue = mathutil.Round(projected)
	}

	return warnings
}
