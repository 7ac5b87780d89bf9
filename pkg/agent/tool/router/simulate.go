package router

import (
	"context"
	"fmt"

	"github.com/finport-lab/riskcast/pkg/agent/tool"
	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// startSimulationTool creates a scenario and schedules its background
// processing. The created scenario is recorded on the shared Tools so
// the caller can return its handle.
type startSimulationTool struct {
	tools *Tools
}

func (t *startSimulationTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "router__start_simulation",
		Description: "Start a portfolio-wide what-if risk simulation. Returns immediately with the scenario handle; results are computed in the background.",
		Parameters: map[string]*gollem.Parameter{
			"description": {
				Type:        gollem.TypeString,
				Description: "Plain-language description of the what-if scenario",
				Required:    true,
			},
			"scenario_type": {
				Type:        gollem.TypeString,
				Description: "Kind of event the scenario models",
				Required:    true,
				Enum: []string{
					types.ScenarioTypeInterestRate.String(),
					types.ScenarioTypeRegulation.String(),
					types.ScenarioTypeSectorShock.String(),
					types.ScenarioTypeEconomic.String(),
					types.ScenarioTypeGeographic.String(),
					types.ScenarioTypeGeneric.String(),
				},
			},
			"magnitude": {
				Type:        gollem.TypeNumber,
				Description: "Size of the modeled change, e.g. 1.0 for a +1% rate move (default 1.0)",
				Required:    false,
			},
			"sector": {
				Type:        gollem.TypeString,
				Description: "Sector to narrow sector_shock or regulation scenarios",
				Required:    false,
			},
			"region": {
				Type:        gollem.TypeString,
				Description: "Region to narrow geographic scenarios",
				Required:    false,
			},
		},
	}
}

func (t *startSimulationTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	description, _ := args["description"].(string)
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}

	rawType, _ := args["scenario_type"].(string)
	scenarioType := types.ParseScenarioType(rawType)

	params := model.ScenarioParams{}
	if v, ok := args["magnitude"].(float64); ok {
		params.Magnitude = v
	}
	if v, ok := args["sector"].(string); ok {
		params.Sector = v
	}
	if v, ok := args["region"].(string); ok {
		params.Region = v
	}

	tool.Update(ctx, fmt.Sprintf("Starting simulation: %s", description))
	scenario, err := t.tools.starter.Create(ctx, description, scenarioType, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to start simulation",
			goerr.V("description", description),
			goerr.V("type", scenarioType),
		)
	}

	t.tools.createdScenario = scenario

	return map[string]any{
		"scenario_id": scenario.ID.String(),
		"status":      scenario.Status.String(),
		"type":        scenario.Type.String(),
		"created_at":  scenario.CreatedAt.String(),
	}, nil
}
