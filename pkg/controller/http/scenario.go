package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/finport-lab/riskcast/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

type scenarioParamsBody struct {
	Magnitude float64 `json:"magnitude,omitempty"`
	Sector    string  `json:"sector,omitempty"`
	Region    string  `json:"region,omitempty"`
}

type createScenarioRequest struct {
	Description string             `json:"description"`
	Type        string             `json:"type"`
	Params      scenarioParamsBody `json:"params"`
}

type scenarioResponse struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	Type        string             `json:"type"`
	Params      scenarioParamsBody `json:"params"`
	Status      string             `json:"status"`
	Progress    int                `json:"progress"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMS  *int64     `json:"duration_ms,omitempty"`

	Results      *model.ScenarioResults `json:"results,omitempty"`
	FailureCause string                 `json:"failure_cause,omitempty"`
}

func toScenarioResponse(s *model.Scenario) *scenarioResponse {
	resp := &scenarioResponse{
		ID:          s.ID.String(),
		Description: s.Description,
		Type:        s.Type.String(),
		Params: scenarioParamsBody{
			Magnitude: s.Params.Magnitude,
			Sector:    s.Params.Sector,
			Region:    s.Params.Region,
		},
		Status:       s.Status.String(),
		Progress:     s.Progress,
		CreatedAt:    s.CreatedAt,
		CompletedAt:  s.CompletedAt,
		Results:      s.Results,
		FailureCause: s.FailureCause,
	}
	if s.Duration != nil {
		ms := s.Duration.Milliseconds()
		resp.DurationMS = &ms
	}
	return resp
}

func createScenarioHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createScenarioRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondBadRequest(w, r, goerr.Wrap(err, "invalid request body"))
			return
		}
		if strings.TrimSpace(req.Description) == "" {
			respondBadRequest(w, r, goerr.New("description is required"))
			return
		}

		scenario, err := uc.Scenario.Create(r.Context(), req.Description, types.ParseScenarioType(req.Type), model.ScenarioParams{
			Magnitude: req.Params.Magnitude,
			Sector:    req.Params.Sector,
			Region:    req.Params.Region,
		})
		if err != nil {
			respondError(w, r, err)
			return
		}

		respondJSON(w, r, http.StatusCreated, toScenarioResponse(scenario))
	}
}

func listScenariosHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scenarios, err := uc.Scenario.List(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}

		resp := struct {
			Scenarios []*scenarioResponse `json:"scenarios"`
		}{
			Scenarios: make([]*scenarioResponse, len(scenarios)),
		}
		for i, s := range scenarios {
			resp.Scenarios[i] = toScenarioResponse(s)
		}
		respondJSON(w, r, http.StatusOK, resp)
	}
}

func getScenarioHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.ScenarioID(chi.URLParam(r, "scenarioID"))
		if err := id.Validate(); err != nil {
			respondBadRequest(w, r, err)
			return
		}

		scenario, err := uc.Scenario.Get(r.Context(), id)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusOK, toScenarioResponse(scenario))
	}
}

func deleteScenarioHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.ScenarioID(chi.URLParam(r, "scenarioID"))
		if err := id.Validate(); err != nil {
			respondBadRequest(w, r, err)
			return
		}

		if err := uc.Scenario.Delete(r.Context(), id); err != nil {
			respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
