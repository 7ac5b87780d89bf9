package interfaces

import (
	"context"

	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
)

// EntityProvider supplies entity attributes and filtered entity-id
// lists from an external registry. Implementations must be safe for
// concurrent use.
type EntityProvider interface {
	// GetEntity retrieves one entity by ID. A missing entity is an
	// error wrapping the provider's not-found sentinel.
	GetEntity(ctx context.Context, id types.EntityID) (*model.Entity, error)

	// FilterEntities returns the IDs of entities affected by a
	// scenario. The result is finite, deduplicated, and ordered by
	// entity ID. Unknown scenario types return a generic selection,
	// never an error.
	FilterEntities(ctx context.Context, scenarioType types.ScenarioType, params model.ScenarioParams) ([]types.EntityID, error)

	// CriticalCount returns how many entities across the whole
	// portfolio are currently in the critical tier.
	CriticalCount() int
}

// RiskPredictor computes an entity's updated risk score under scenario
// conditions. Implementations must be safe for concurrent use.
type RiskPredictor interface {
	// Predict returns the post-scenario score for an entity. The score
	// is not guaranteed to be within [0, 100]; callers clamp it.
	// A failed prediction is a per-entity recoverable error.
	Predict(ctx context.Context, entity *model.Entity, scenarioType types.ScenarioType, params model.ScenarioParams) (int, error)
}
