package memory

import (
	"github.com/finport-lab/riskcast/pkg/domain/interfaces"
)

// Memory is an in-memory implementation of interfaces.Repository.
// It is used for local development and as the storage double in tests.
type Memory struct {
	scenario *scenarioRepository
}

var _ interfaces.Repository = &Memory{}

// New creates a new in-memory repository
func New() *Memory {
	return &Memory{
		scenario: newScenarioRepository(),
	}
}

func (m *Memory) Scenario() interfaces.ScenarioRepository {
	return m.scenario
}

func (m *Memory) Close() error {
	return nil
}
