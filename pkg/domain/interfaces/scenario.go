package interfaces

import (
	"context"

	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
)

type ScenarioRepository interface {
	// Create inserts a fully-formed scenario record. The record is
	// never observable half-constructed.
	Create(ctx context.Context, scenario *model.Scenario) (*model.Scenario, error)

	// Get retrieves a scenario by ID
	Get(ctx context.Context, id types.ScenarioID) (*model.Scenario, error)

	// List retrieves all scenarios in reverse chronological order of
	// creation
	List(ctx context.Context) ([]*model.Scenario, error)

	// Update replaces an existing record atomically. It returns an
	// error wrapping the repository's not-found sentinel if the record
	// has been deleted in the meantime.
	Update(ctx context.Context, scenario *model.Scenario) (*model.Scenario, error)

	// Delete removes a scenario by ID. Deleting a missing ID reports
	// not-found, never panics.
	Delete(ctx context.Context, id types.ScenarioID) error
}
