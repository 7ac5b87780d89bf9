// Package router provides the tools the request-routing agent can
// invoke: starting a what-if simulation, profiling one entity, and
// summarizing the portfolio.
package router

import (
	"context"

	"github.com/finport-lab/riskcast/pkg/domain/interfaces"
	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/m-mizutani/gollem"
)

// ScenarioStarter creates a new scenario and schedules its background
// processing. Implemented by the scenario use case.
type ScenarioStarter interface {
	Create(ctx context.Context, description string, scenarioType types.ScenarioType, params model.ScenarioParams) (*model.Scenario, error)
}

// PortfolioReader exposes the read-only portfolio views the agent
// tools need.
type PortfolioReader interface {
	interfaces.EntityProvider
	Entities() []*model.Entity
}

// Tools holds the router tool set and captures side effects of a
// single agent execution. It is not safe for reuse across executions.
type Tools struct {
	starter   ScenarioStarter
	portfolio PortfolioReader

	// createdScenario is set when the agent started a simulation
	// during this execution.
	createdScenario *model.Scenario

	// profiledEntity is set when the agent looked up a single entity.
	profiledEntity bool
}

// New builds the tool set for one routing agent execution
func New(starter ScenarioStarter, portfolio PortfolioReader) *Tools {
	return &Tools{
		starter:   starter,
		portfolio: portfolio,
	}
}

// All returns the gollem tools for the routing agent
func (t *Tools) All() []gollem.Tool {
	return []gollem.Tool{
		&startSimulationTool{tools: t},
		&entityProfileTool{tools: t},
		&portfolioOverviewTool{portfolio: t.portfolio},
	}
}

// CreatedScenario returns the scenario started during the execution,
// or nil if the request did not start one
func (t *Tools) CreatedScenario() *model.Scenario {
	return t.createdScenario
}

// Intent reports which capability the execution resolved to, based on
// the tools the agent actually invoked.
func (t *Tools) Intent() types.Intent {
	switch {
	case t.createdScenario != nil:
		return types.IntentScenario
	case t.profiledEntity:
		return types.IntentEntityDeepDive
	default:
		return types.IntentInformational
	}
}
