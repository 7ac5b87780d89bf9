package predictor

import (
	"context"
	"math"

	"github.com/finport-lab/riskcast/pkg/domain/interfaces"
	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
)

// baseDelta is the typical score movement per scenario type at
// magnitude 1.
var baseDelta = map[types.ScenarioType]float64{
	types.ScenarioTypeInterestRate: 6,
	types.ScenarioTypeRegulation:   9,
	types.ScenarioTypeSectorShock:  11,
	types.ScenarioTypeEconomic:     5,
	types.ScenarioTypeGeographic:   6,
	types.ScenarioTypeGeneric:      4,
}

// sectorSensitivity scales the delta by how exposed a sector is to
// macro shocks. Sectors not listed use 1.0.
var sectorSensitivity = map[string]float64{
	"Construction":        1.4,
	"Retail":              1.2,
	"Food & Hospitality":  1.2,
	"Manufacturing":       1.0,
	"Logistics":           1.0,
	"Agriculture":         0.9,
	"Software/Technology": 0.6,
}

// highExposureThreshold marks entities whose outstanding lending makes
// score moves sharper.
const highExposureThreshold = 1_000_000.0

// Heuristic is a deterministic in-process RiskPredictor. It stands in
// for the remote scoring model: same entity, same scenario, same
// parameters always yield the same score.
type Heuristic struct{}

var _ interfaces.RiskPredictor = &Heuristic{}

// New creates a new heuristic predictor
func New() *Heuristic {
	return &Heuristic{}
}

// Predict returns the post-scenario risk score for an entity. The
// returned score may exceed the [0, 100] range; callers clamp it.
func (p *Heuristic) Predict(ctx context.Context, entity *model.Entity, scenarioType types.ScenarioType, params model.ScenarioParams) (int, error) {
	base, ok := baseDelta[scenarioType]
	if !ok {
		base = baseDelta[types.ScenarioTypeGeneric]
	}

	sensitivity, ok := sectorSensitivity[entity.Sector]
	if !ok {
		sensitivity = 1.0
	}

	magnitude := params.Magnitude
	if magnitude <= 0 {
		magnitude = 1.0
	}

	delta := base * sensitivity * magnitude
	if entity.Exposure >= highExposureThreshold {
		delta += 2
	}

	return entity.RiskScore + int(math.Round(delta)), nil
}
