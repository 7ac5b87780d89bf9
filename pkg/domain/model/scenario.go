package model

import (
	"time"

	"github.com/finport-lab/riskcast/pkg/domain/types"
)

// ScenarioParams carries the parsed parameters of a what-if scenario.
// Which fields are meaningful depends on the scenario type.
type ScenarioParams struct {
	// Magnitude is the size of the modeled change, e.g. 1.0 for a +1%
	// interest rate move or a 2% GDP drop.
	Magnitude float64

	// Sector narrows sector_shock and regulation scenarios.
	Sector string

	// Region narrows geographic scenarios.
	Region string
}

// Scenario is one what-if simulation run. A scenario is owned by the
// scenario engine: it is created in PENDING, moves to IN_PROGRESS when
// background processing starts, and ends in exactly one terminal state.
type Scenario struct {
	ID          types.ScenarioID
	Description string
	Type        types.ScenarioType
	Params      ScenarioParams

	Status types.ScenarioStatus

	// Progress is a 0-100 percentage, monotonically non-decreasing.
	Progress int

	CreatedAt   time.Time
	CompletedAt *time.Time
	Duration    *time.Duration

	// Results is set only when Status is COMPLETED.
	Results *ScenarioResults

	// FailureCause records why a FAILED scenario failed.
	FailureCause string
}

// Clone returns a deep copy of the scenario. Repositories hand out
// clones so that readers never observe in-flight mutations.
func (s *Scenario) Clone() *Scenario {
	copied := *s
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		copied.CompletedAt = &t
	}
	if s.Duration != nil {
		d := *s.Duration
		copied.Duration = &d
	}
	if s.Results != nil {
		copied.Results = s.Results.Clone()
	}
	return &copied
}

// Impact is the before/after score comparison for one entity within a
// single scenario run
type Impact struct {
	EntityID   types.EntityID `json:"entity_id"`
	EntityName string         `json:"entity_name"`
	Sector     string         `json:"sector"`

	ScoreBefore int            `json:"score_before"`
	ScoreAfter  int            `json:"score_after"`
	TierBefore  types.RiskTier `json:"tier_before"`
	TierAfter   types.RiskTier `json:"tier_after"`

	// Change is ScoreAfter - ScoreBefore. Positive means risk increased.
	Change int `json:"change"`
}

// PortfolioImpact summarizes a scenario's effect across the whole
// portfolio
type PortfolioImpact struct {
	CriticalBefore int `json:"critical_before"`
	CriticalAfter  int `json:"critical_after"`

	// AvgScoreChange is the mean score change over the impacted set,
	// 0 when no entity was impacted.
	AvgScoreChange float64 `json:"avg_score_change"`

	TotalAffected int `json:"total_affected"`

	// Skipped counts entities that could not be scored and were
	// excluded from the run.
	Skipped int `json:"skipped"`
}

// SectorImpact summarizes a scenario's effect on one sector
type SectorImpact struct {
	Sector    string  `json:"sector"`
	Entities  int     `json:"entities"`
	AvgChange float64 `json:"avg_change"`
}

// ScenarioResults is the aggregated outcome of a completed scenario
type ScenarioResults struct {
	Portfolio   PortfolioImpact `json:"portfolio"`
	Sectors     []SectorImpact  `json:"sectors"`
	TopImpacted []Impact        `json:"top_impacted"`
}

// Clone returns a deep copy of the results
func (r *ScenarioResults) Clone() *ScenarioResults {
	copied := &ScenarioResults{Portfolio: r.Portfolio}
	if r.Sectors != nil {
		copied.Sectors = make([]SectorImpact, len(r.Sectors))
		copy(copied.Sectors, r.Sectors)
	}
	if r.TopImpacted != nil {
		copied.TopImpacted = make([]Impact, len(r.TopImpacted))
		copy(copied.TopImpacted, r.TopImpacted)
	}
	return copied
}
