package stats

import "github.com/relloyd/starpipe/logger"

// MockStatsManager hands out StepWatchers without keeping them.
type MockStatsManager struct {
	log logger.Logger
}

func (s *MockStatsManager) StartDumping() {}

func (s *MockStatsManager) StopDumping() {}

func (s *MockStatsManager) GetStats() []Stats {
	return nil
}

func (s *MockStatsManager) AddStepWatcher(stage string, stepName string) *StepWatcher {
	return NewStepWatcher(s.log, stage, stepName)
}

func NewMockStatsManager(log logger.Logger) *MockStatsManager {
	return &MockStatsManager{log: log}
}
