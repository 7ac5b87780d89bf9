package portfolio

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/finport-lab/riskcast/pkg/domain/interfaces"
	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = goerr.New("entity not found")

// rateSensitiveSectors lists sectors whose members typically carry
// variable-rate debt and react to interest rate moves.
var rateSensitiveSectors = map[string]bool{
	"Construction":  true,
	"Retail":        true,
	"Manufacturing": true,
	"Logistics":     true,
}

// consumerSectors lists sectors most exposed to product regulation.
var consumerSectors = map[string]bool{
	"Retail":             true,
	"Food & Hospitality": true,
}

// Service is an in-process EntityProvider over a fixed portfolio of
// tracked entities. The portfolio is immutable after construction, so
// all reads are safe for concurrent use.
type Service struct {
	mu       sync.RWMutex
	entities map[types.EntityID]*model.Entity
	ordered  []types.EntityID
}

var _ interfaces.EntityProvider = &Service{}

// New creates a portfolio service over the given entities. Duplicate
// IDs are rejected.
func New(entities []*model.Entity) (*Service, error) {
	s := &Service{
		entities: make(map[types.EntityID]*model.Entity, len(entities)),
	}

	for _, e := range entities {
		if err := e.ID.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid entity ID")
		}
		if _, exists := s.entities[e.ID]; exists {
			return nil, goerr.New("duplicate entity ID", goerr.V("id", e.ID))
		}
		copied := *e
		s.entities[e.ID] = &copied
		s.ordered = append(s.ordered, e.ID)
	}

	sort.Slice(s.ordered, func(i, j int) bool {
		return s.ordered[i] < s.ordered[j]
	})

	return s, nil
}

// GetEntity retrieves one entity by ID
func (s *Service) GetEntity(ctx context.Context, id types.EntityID) (*model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entities[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "no such entity", goerr.V("id", id))
	}

	copied := *e
	return &copied, nil
}

// FilterEntities selects the entities affected by a scenario. The
// result is ordered by entity ID and deduplicated by construction.
// Unknown scenario types select the whole portfolio rather than
// failing.
func (s *Service) FilterEntities(ctx context.Context, scenarioType types.ScenarioType, params model.ScenarioParams) ([]types.EntityID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match := s.matcher(scenarioType, params)

	var result []types.EntityID
	for _, id := range s.ordered {
		if match(s.entities[id]) {
			result = append(result, id)
		}
	}
	return result, nil
}

func (s *Service) matcher(scenarioType types.ScenarioType, params model.ScenarioParams) func(*model.Entity) bool {
	switch scenarioType {
	case types.ScenarioTypeInterestRate:
		return func(e *model.Entity) bool {
			return rateSensitiveSectors[e.Sector]
		}

	case types.ScenarioTypeSectorShock:
		if params.Sector == "" {
			break
		}
		return func(e *model.Entity) bool {
			return strings.EqualFold(e.Sector, params.Sector)
		}

	case types.ScenarioTypeRegulation:
		if params.Sector != "" {
			return func(e *model.Entity) bool {
				return strings.EqualFold(e.Sector, params.Sector)
			}
		}
		return func(e *model.Entity) bool {
			return consumerSectors[e.Sector]
		}

	case types.ScenarioTypeGeographic:
		if params.Region == "" {
			break
		}
		return func(e *model.Entity) bool {
			return strings.EqualFold(e.Geography, params.Region)
		}
	}

	// economic, generic, and under-specified scenarios touch the
	// whole portfolio
	return func(*model.Entity) bool { return true }
}

// Entities returns all tracked entities ordered by ID
func (s *Service) Entities() []*model.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Entity, 0, len(s.ordered))
	for _, id := range s.ordered {
		copied := *s.entities[id]
		result = append(result, &copied)
	}
	return result
}

// CriticalCount returns how many tracked entities currently sit in the
// critical tier
func (s *Service) CriticalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.entities {
		if e.Tier() == types.RiskTierCritical {
			count++
		}
	}
	return count
}

// Size returns the number of tracked entities
func (s *Service) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}
