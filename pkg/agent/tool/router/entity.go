package router

import (
	"context"
	"fmt"

	"github.com/finport-lab/riskcast/pkg/agent/tool"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// entityProfileTool retrieves a detailed profile of one tracked entity
type entityProfileTool struct {
	tools *Tools
}

func (t *entityProfileTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "router__entity_profile",
		Description: "Get the full risk profile of a single tracked entity by its ID",
		Parameters: map[string]*gollem.Parameter{
			"entity_id": {
				Type:        gollem.TypeString,
				Description: "The ID of the entity to profile",
				Required:    true,
			},
		},
	}
}

func (t *entityProfileTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	rawID, _ := args["entity_id"].(string)
	if rawID == "" {
		return nil, fmt.Errorf("entity_id is required")
	}

	tool.Update(ctx, fmt.Sprintf("Looking up entity %s...", rawID))
	entity, err := t.tools.portfolio.GetEntity(ctx, types.EntityID(rawID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get entity", goerr.V("entityID", rawID))
	}

	t.tools.profiledEntity = true

	return map[string]any{
		"id":         entity.ID.String(),
		"name":       entity.Name,
		"sector":     entity.Sector,
		"geography":  entity.Geography,
		"risk_score": entity.RiskScore,
		"risk_tier":  entity.Tier().String(),
		"exposure":   entity.Exposure,
	}, nil
}

// portfolioOverviewTool summarizes the tracked portfolio
type portfolioOverviewTool struct {
	portfolio PortfolioReader
}

func (t *portfolioOverviewTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "router__portfolio_overview",
		Description: "Summarize the tracked portfolio: entity count, sector mix, and how many entities are in the critical tier",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *portfolioOverviewTool) Run(ctx context.Context, _ map[string]any) (map[string]any, error) {
	tool.Update(ctx, "Summarizing portfolio...")

	entities := t.portfolio.Entities()
	sectors := make(map[string]int)
	for _, e := range entities {
		sectors[e.Sector]++
	}

	return map[string]any{
		"entities":       len(entities),
		"critical_count": t.portfolio.CriticalCount(),
		"sectors":        sectors,
	}, nil
}
