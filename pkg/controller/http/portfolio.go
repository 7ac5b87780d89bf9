package http

import (
	"context"
	"net/http"

	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/go-chi/chi/v5"
)

// PortfolioReader is the read-only portfolio view the API exposes
type PortfolioReader interface {
	GetEntity(ctx context.Context, id types.EntityID) (*model.Entity, error)
	Entities() []*model.Entity
	CriticalCount() int
}

type entityResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	Geography string  `json:"geography"`
	RiskScore int     `json:"risk_score"`
	RiskTier  string  `json:"risk_tier"`
	Exposure  float64 `json:"exposure"`
}

func toEntityResponse(e *model.Entity) *entityResponse {
	return &entityResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Sector:    e.Sector,
		Geography: e.Geography,
		RiskScore: e.RiskScore,
		RiskTier:  e.Tier().String(),
		Exposure:  e.Exposure,
	}
}

func portfolioHandler(portfolio PortfolioReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entities := portfolio.Entities()

		resp := struct {
			Entities      []*entityResponse `json:"entities"`
			CriticalCount int               `json:"critical_count"`
		}{
			Entities:      make([]*entityResponse, len(entities)),
			CriticalCount: portfolio.CriticalCount(),
		}
		for i, e := range entities {
			resp.Entities[i] = toEntityResponse(e)
		}
		respondJSON(w, r, http.StatusOK, resp)
	}
}

func entityHandler(portfolio PortfolioReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.EntityID(chi.URLParam(r, "entityID"))

		entity, err := portfolio.GetEntity(r.Context(), id)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusOK, toEntityResponse(entity))
	}
}
