package types

import "fmt"

// ScenarioStatus represents the lifecycle state of a scenario simulation
type ScenarioStatus string

const (
	ScenarioStatusPending    ScenarioStatus = "PENDING"
	ScenarioStatusInProgress ScenarioStatus = "IN_PROGRESS"
	ScenarioStatusCompleted  ScenarioStatus = "COMPLETED"
	ScenarioStatusFailed     ScenarioStatus = "FAILED"
)

// AllScenarioStatuses returns all valid scenario statuses
func AllScenarioStatuses() []ScenarioStatus {
	return []ScenarioStatus{
		ScenarioStatusPending,
		ScenarioStatusInProgress,
		ScenarioStatusCompleted,
		ScenarioStatusFailed,
	}
}

// IsValid checks if the scenario status is valid
func (s ScenarioStatus) IsValid() bool {
	switch s {
	case ScenarioStatusPending,
		ScenarioStatusInProgress,
		ScenarioStatusCompleted,
		ScenarioStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is a terminal state.
// Terminal statuses are immutable once set.
func (s ScenarioStatus) IsTerminal() bool {
	return s == ScenarioStatusCompleted || s == ScenarioStatusFailed
}

// String returns the string representation of the scenario status
func (s ScenarioStatus) String() string {
	return string(s)
}

// ParseScenarioStatus parses a string into a ScenarioStatus
func ParseScenarioStatus(s string) (ScenarioStatus, error) {
	status := ScenarioStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid scenario status: %s", s)
	}
	return status, nil
}
