package server

import (
	"sync"

	"github.com/iwvelando/sales-forecast/internal/config"
)

// Store holds the scenario being edited. It is safe for concurrent use and
// serves as the runner's scenario provider, so every refresh sees the latest
// edit.
type Store struct {
	mu       sync.RWMutex
	scenario config.Scenario
}

// NewStore creates a Store seeded with scenario.
func NewStore(scenario config.Scenario) *Store {
	return &Store{scenario: scenario.Clone()}
}

// Scenario returns a copy of the current scenario.
func (s *Store) Scenario() config.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenario.Clone()
}

// Replace swaps the whole scenario and returns its validation warnings.
func (s *Store) Replace(scenario config.Scenario) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenario = scenario.Clone()
	return s.scenario.Validate()
}

// SetGoal sets one monthly goal.
func (s *Store) SetGoal(key string, value float64) (config.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.scenario.SetMonthlyGoal(key, value); err != nil {
		return config.Scenario{}, err
	}
	return s.scenario.Clone(), nil
}

// ApplyGoalToYear sets the same goal for every month of year.
func (s *Store) ApplyGoalToYear(year int, value float64) config.Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenario.ApplyGoalToYear(year, value)
	return s.scenario.Clone()
}
