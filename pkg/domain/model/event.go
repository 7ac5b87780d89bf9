package model

import "github.com/finport-lab/riskcast/pkg/domain/types"

// ProgressEvent is a lifecycle notification published while a scenario
// is being processed. Delivery is best-effort: subscribers joining
// mid-scenario only see events emitted after they joined.
type ProgressEvent struct {
	ScenarioID types.ScenarioID     `json:"scenario_id"`
	Status     types.ScenarioStatus `json:"status"`
	Progress   int                  `json:"progress"`

	// Results is set only on the terminal COMPLETED event.
	Results *ScenarioResults `json:"results,omitempty"`
}
