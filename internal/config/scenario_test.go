package config

import "testing"

func TestResolveGoal(t *testing.T) {
	s := Scenario{
		DefaultMonthlyGoal: 50000,
		MonthlyGoals: map[string]float64{
			"2025-3": 9000,
			"3":      5000,
		},
	}

	tests := []struct {
		name     string
		year     int
		month    int
		expected float64
	}{
		{"Year specific key wins", 2025, 3, 9000},
		{"Generic key for another year", 2026, 3, 5000},
		{"Scalar fallback", 2025, 7, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ResolveGoal(tt.year, tt.month); got != tt.expected {
				t.Errorf("ResolveGoal(%d, %d) = %v, expected %v", tt.year, tt.month, got, tt.expected)
			}
		})
	}
}

func TestResolveGoalZeroIsExplicit(t *testing.T) {
	s := Scenario{DefaultMonthlyGoal: 50000, MonthlyGoals: map[string]float64{"2025-0": 0}}
	if got := s.ResolveGoal(2025, 0); got != 0 {
		t.Errorf("expected explicit zero goal, got %v", got)
	}
}

func TestSeasonalAdjustment(t *testing.T) {
	s := Scenario{MonthlySeasonalAdjustment: []float64{1, 2, 3}}
	if s.SeasonalAdjustment(2) != 3 {
		t.Errorf("expected 3, got %v", s.SeasonalAdjustment(2))
	}
	if s.SeasonalAdjustment(7) != 0 || s.SeasonalAdjustment(-1) != 0 {
		t.Error("expected 0 for unset months")
	}
}

func TestSetMonthlyGoal(t *testing.T) {
	var s Scenario
	if err := s.SetMonthlyGoal("2025-4", 1200); err != nil {
		t.Fatalf("SetMonthlyGoal() error = %v", err)
	}
	if err := s.SetMonthlyGoal("4", 800); err != nil {
		t.Fatalf("SetMonthlyGoal() error = %v", err)
	}
	if err := s.SetMonthlyGoal("2025-12", 1); err == nil {
		t.Error("expected error for out of range month")
	}
	if len(s.MonthlyGoals) != 2 || s.MonthlyGoals["2025-4"] != 1200 || s.MonthlyGoals["4"] != 800 {
		t.Errorf("unexpected goals: %v", s.MonthlyGoals)
	}
}

func TestApplyGoalToYear(t *testing.T) {
	s := Scenario{
		MonthlyGoals: map[string]float64{
			"2024-5": 111,
			"2026-0": 222,
			"5":      333,
			"2025-5": 1,
		},
	}

	s.ApplyGoalToYear(2025, 7000)

	for m := 0; m < 12; m++ {
		if got := s.MonthlyGoals[YearGoalKey(2025, m)]; got != 7000 {
			t.Errorf("month %d: expected 7000, got %v", m, got)
		}
	}
	if s.MonthlyGoals["2024-5"] != 111 || s.MonthlyGoals["2026-0"] != 222 || s.MonthlyGoals["5"] != 333 {
		t.Errorf("other keys were modified: %v", s.MonthlyGoals)
	}
	if len(s.MonthlyGoals) != 15 {
		t.Errorf("expected 15 keys, got %d", len(s.MonthlyGoals))
	}
}

func TestClone(t *testing.T) {
	s := Scenario{
		MonthlySeasonalAdjustment: []float64{1, 2},
		MonthlyGoals:              map[string]float64{"1": 10},
	}
	c := s.Clone()
	c.MonthlySeasonalAdjustment[0] = 99
	c.MonthlyGoals["1"] = 99

	if s.MonthlySeasonalAdjustment[0] != 1 || s.MonthlyGoals["1"] != 10 {
		t.Error("clone shares state with original")
	}
}
