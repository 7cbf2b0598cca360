// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/constants"
)

// ScenarioValues carries the scenario fields that can be misconfigured.
type ScenarioValues struct {
	Name                  string
	AveragePrice          float64
	CapacityUnits         float64
	OperatingDaysPerMonth int
	SeasonalEntries       int
	GoalKeys              []string
}

// ParseGoalKey splits a monthly goal key. Generic keys ("3") return year 0.
func ParseGoalKey(key string) (year int, monthIndex int, err error) {
	yearPart, monthPart, specific := strings.Cut(strings.TrimSpace(key), "-")
	if !specific {
		monthPart = yearPart
	} else {
		year, err = strconv.Atoi(yearPart)
		if err != nil || year <= 0 {
			return 0, 0, fmt.Errorf("invalid goal key %q: bad year", key)
		}
	}
	monthIndex, err = strconv.Atoi(monthPart)
	if err != nil || monthIndex < 0 || monthIndex >= constants.MonthsPerYear {
		return 0, 0, fmt.Errorf("invalid goal key %q: month index must be 0-11", key)
	}
	return year, monthIndex, nil
}

// ValidateScenario returns warnings for scenario values the projection falls
// back on rather than rejects.
func ValidateScenario(s ScenarioValues) []string {
	var warnings []string

	label := "scenario"
	if s.Name != "" {
		label = fmt.Sprintf("scenario '%s'", s.Name)
	}

	if s.OperatingDaysPerMonth <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s has operatingDaysPerMonth %d - daily projections show the un-normalized monthly goal and are not capped",
			label, s.OperatingDaysPerMonth))
	}
	if s.CapacityUnits < 0 {
		warnings = append(warnings, fmt.Sprintf("%s has negative capacityUnits (%.2f) - projections are not capped", label, s.CapacityUnits))
	}
	if s.AveragePrice < 0 {
		warnings = append(warnings, fmt.Sprintf("%s has negative averagePrice (%.2f) - projections are not capped", label, s.AveragePrice))
	}
	if s.SeasonalEntries > constants.MonthsPerYear {
		warnings = append(warnings, fmt.Sprintf("%s has %d seasonal adjustments - only the first %d are used",
			label, s.SeasonalEntries, constants.MonthsPerYear))
	}

	keys := append([]string(nil), s.GoalKeys...)
	sort.Strings(keys)
	for _, key := range keys {
		if _, _, err := ParseGoalKey(key); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s monthly goal ignored: %v", label, err))
		}
	}

	return warnings
}

// ValidateRange checks the configured default range bounds.
func ValidateRange(start, end string) []string {
	if start == "" && end == "" {
		return nil
	}
	if start == "" || end == "" {
		return []string{"range needs both start and end - the CLI will require -start and -end"}
	}
	startT, err := time.Parse(constants.DateLayout, start)
	if err != nil {
		return []string{fmt.Sprintf("range start %q is not YYYY-MM-DD", start)}
	}
	endT, err := time.Parse(constants.DateLayout, end)
	if err != nil {
		return []string{fmt.Sprintf("range end %q is not YYYY-MM-DD", end)}
	}
	if endT.Before(startT) {
		return []string{fmt.Sprintf("range ends before it starts (%s < %s)", end, start)}
	}
	return nil
}

// ValidateOrderSource checks that the selected order driver has what it needs.
func ValidateOrderSource(driver, path, dsn string) []string {
	switch driver {
	case constants.OrderDriverFile:
		if path == "" {
			return []string{"orders driver 'file' has no path - fetches will fail"}
		}
	case constants.OrderDriverPostgres:
		if dsn == "" {
			return []string{"orders driver 'postgres' has no dsn - fetches will fail"}
		}
	default:
		return []string{fmt.Sprintf("unknown orders driver %q", driver)}
	}
	return nil
}
