package config

import (
	"fmt"
	"strconv"

	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/validation"
)

// Scenario holds the growth and goal assumptions a projection is computed from.
type Scenario struct {
	Name                      string             `yaml:"name,omitempty" json:"name"`
	AveragePrice              float64            `yaml:"averagePrice" json:"averagePrice"`
	EstimatedUnits            float64            `yaml:"estimatedUnits" json:"estimatedUnits"`
	MonthlyGrowthPercent      float64            `yaml:"monthlyGrowthPercent" json:"monthlyGrowthPercent"`
	MonthlySeasonalAdjustment []float64          `yaml:"monthlySeasonalAdjustment,omitempty" json:"monthlySeasonalAdjustment"` // percent per calendar month, January first
	FixedCosts                float64            `yaml:"fixedCosts" json:"fixedCosts"`
	VariableCostPerUnit       float64            `yaml:"variableCostPerUnit" json:"variableCostPerUnit"`
	CapacityUnits             float64            `yaml:"capacityUnits" json:"capacityUnits"`
	OperatingDaysPerMonth     int                `yaml:"operatingDaysPerMonth" json:"operatingDaysPerMonth"`
	DefaultMonthlyGoal        float64            `yaml:"defaultMonthlyGoal" json:"defaultMonthlyGoal"`
	MonthlyGoals              map[string]float64 `yaml:"monthlyGoals,omitempty" json:"monthlyGoals"` // "3" applies every April, "2025-3" only April 2025
	AnnualGoal                float64            `yaml:"annualGoal" json:"annualGoal"`
	UnitsGoal                 float64            `yaml:"unitsGoal" json:"unitsGoal"`
}

// GoalKey is the generic monthly goal key for a zero-based month.
func GoalKey(monthIndex int) string {
	return strconv.Itoa(monthIndex)
}

// YearGoalKey is the year specific monthly goal key.
func YearGoalKey(year, monthIndex int) string {
	return fmt.Sprintf("%d-%d", year, monthIndex)
}

// ResolveGoal returns the goal for a month: the year specific key wins, then
// the generic month key, then DefaultMonthlyGoal.
func (s Scenario) ResolveGoal(year, monthIndex int) float64 {
	if goal, ok := s.MonthlyGoals[YearGoalKey(year, monthIndex)]; ok {
		return goal
	}
	if goal, ok := s.MonthlyGoals[GoalKey(monthIndex)]; ok {
		return goal
	}
	return s.DefaultMonthlyGoal
}

// SeasonalAdjustment returns the percent offset for a month, 0 when unset.
func (s Scenario) SeasonalAdjustment(monthIndex int) float64 {
	if monthIndex < 0 || monthIndex >= len(s.MonthlySeasonalAdjustment) {
		return 0
	}
	return s.MonthlySeasonalAdjustment[monthIndex]
}

// SetMonthlyGoal sets a goal under a generic ("3") or year specific ("2025-3") key.
func (s *Scenario) SetMonthlyGoal(key string, value float64) error {
	if _, _, err := validation.ParseGoalKey(key); err != nil {
		return err
	}
	if s.MonthlyGoals == nil {
		s.MonthlyGoals = make(map[string]float64)
	}
	s.MonthlyGoals[key] = value
	return nil
}

// ApplyGoalToYear writes value under the twelve year specific keys of year.
// Keys of other years and generic keys are left untouched.
func (s *Scenario) ApplyGoalToYear(year int, value float64) {
	if s.MonthlyGoals == nil {
		s.MonthlyGoals = make(map[string]float64)
	}
	for m := 0; m < constants.MonthsPerYear; m++ {
		s.MonthlyGoals[YearGoalKey(year, m)] = value
	}
}

// Clone returns a copy that shares no maps or slices with s.
func (s Scenario) Clone() Scenario {
	clone := s
	if s.MonthlySeasonalAdjustment != nil {
		clone.MonthlySeasonalAdjustment = append([]float64(nil), s.MonthlySeasonalAdjustment...)
	}
	clone.MonthlyGoals = make(map[string]float64, len(s.MonthlyGoals))
	for k, v := range s.MonthlyGoals {
		clone.MonthlyGoals[k] = v
	}
	return clone
}

// Validate returns warnings for values the projection has to work around.
func (s Scenario) Validate() []string {
	return validation.ValidateScenario(validation.ScenarioValues{
		Name:                  s.Name,
		AveragePrice:          s.AveragePrice,
		CapacityUnits:         s.CapacityUnits,
		OperatingDaysPerMonth: s.OperatingDaysPerMonth,
		SeasonalEntries:       len(s.MonthlySeasonalAdjustment),
		GoalKeys:              goalKeys(s.MonthlyGoals),
	})
}

func goalKeys(goals map[string]float64) []string {
	keys := make([]string, 0, len(goals))
	for k := range goals {
		keys = append(keys, k)
	}
	return keys
}
