package model

import "github.com/finport-lab/riskcast/pkg/domain/types"

// Entity is a single tracked portfolio member (an SME). Entities are
// supplied by an EntityProvider on demand and never persisted by this
// service.
type Entity struct {
	ID        types.EntityID
	Name      string
	Sector    string
	Geography string

	// RiskScore is the baseline credit risk score on the 0-100 scale,
	// where higher means riskier.
	RiskScore int

	// Exposure is the outstanding lending exposure in GBP.
	Exposure float64
}

// Tier returns the risk tier of the entity's baseline score
func (e *Entity) Tier() types.RiskTier {
	return types.TierOf(e.RiskScore)
}
