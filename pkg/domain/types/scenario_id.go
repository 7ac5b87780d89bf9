package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ScenarioID represents a unique identifier for a scenario
type ScenarioID string

// NewScenarioID generates a new time-ordered scenario ID
func NewScenarioID() ScenarioID {
	return ScenarioID(uuid.Must(uuid.NewV7()).String())
}

// Validate checks if the ScenarioID is valid
func (s ScenarioID) Validate() error {
	if s == "" {
		return goerr.New("scenario ID cannot be empty")
	}
	if _, err := uuid.Parse(string(s)); err != nil {
		return goerr.Wrap(err, "scenario ID must be a UUID", goerr.V("id", s))
	}
	return nil
}

// String returns the string representation of ScenarioID
func (s ScenarioID) String() string {
	return string(s)
}

// EntityID represents a unique identifier for a portfolio entity
type EntityID string

// Validate checks if the EntityID is valid
func (e EntityID) Validate() error {
	if e == "" {
		return goerr.New("entity ID cannot be empty")
	}
	return nil
}

// String returns the string representation of EntityID
func (e EntityID) String() string {
	return string(e)
}
