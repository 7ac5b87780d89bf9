package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type scenarioRepository struct {
	mu        sync.RWMutex
	scenarios map[types.ScenarioID]*model.Scenario
}

func newScenarioRepository() *scenarioRepository {
	return &scenarioRepository{
		scenarios: make(map[types.ScenarioID]*model.Scenario),
	}
}

func (r *scenarioRepository) Create(ctx context.Context, scenario *model.Scenario) (*model.Scenario, error) {
	if err := scenario.ID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid scenario ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scenarios[scenario.ID]; exists {
		return nil, goerr.New("scenario already exists", goerr.V("id", scenario.ID))
	}

	created := scenario.Clone()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.scenarios[created.ID] = created
	return created.Clone(), nil
}

func (r *scenarioRepository) Get(ctx context.Context, id types.ScenarioID) (*model.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scenario, exists := r.scenarios[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "scenario not found", goerr.V("id", id))
	}

	return scenario.Clone(), nil
}

func (r *scenarioRepository) List(ctx context.Context) ([]*model.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Scenario, 0, len(r.scenarios))
	for _, s := range r.scenarios {
		result = append(result, s.Clone())
	}

	// Reverse chronological order. Scenario IDs are time-ordered
	// UUIDs, so they break ties between equal timestamps.
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

func (r *scenarioRepository) Update(ctx context.Context, scenario *model.Scenario) (*model.Scenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.scenarios[scenario.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "scenario not found", goerr.V("id", scenario.ID))
	}

	// Whole-record replace: readers either see the previous record or
	// the new one, never a mix.
	updated := scenario.Clone()
	updated.CreatedAt = existing.CreatedAt

	r.scenarios[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *scenarioRepository) Delete(ctx context.Context, id types.ScenarioID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scenarios[id]; !exists {
		return goerr.Wrap(ErrNotFound, "scenario not found", goerr.V("id", id))
	}

	delete(r.scenarios, id)
	return nil
}
