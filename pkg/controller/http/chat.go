package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/finport-lab/riskcast/pkg/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string            `json:"session_id"`
	Reply     string            `json:"reply"`
	Intent    string            `json:"intent"`
	Scenario  *scenarioResponse `json:"scenario,omitempty"`
}

type chatTurnResponse struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type chatHistoryResponse struct {
	SessionID string             `json:"session_id"`
	Turns     []chatTurnResponse `json:"turns"`
}

func chatHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondBadRequest(w, r, goerr.Wrap(err, "invalid request body"))
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			respondBadRequest(w, r, goerr.New("message is required"))
			return
		}

		reply, err := uc.Chat.Chat(r.Context(), types.SessionID(req.SessionID), req.Message)
		if err != nil {
			respondError(w, r, err)
			return
		}

		resp := chatResponse{
			SessionID: reply.SessionID.String(),
			Reply:     reply.Text,
			Intent:    reply.Intent.String(),
		}
		if reply.Scenario != nil {
			resp.Scenario = toScenarioResponse(reply.Scenario)
		}
		respondJSON(w, r, http.StatusOK, resp)
	}
}

func chatHistoryHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		if sessionID == "" {
			respondBadRequest(w, r, goerr.New("session ID is required"))
			return
		}

		turns := uc.Chat.History(types.SessionID(sessionID))
		resp := chatHistoryResponse{
			SessionID: sessionID,
			Turns:     make([]chatTurnResponse, 0, len(turns)),
		}
		for _, turn := range turns {
			resp.Turns = append(resp.Turns, chatTurnResponse{Role: turn.Role.String(), Text: turn.Text})
		}
		respondJSON(w, r, http.StatusOK, resp)
	}
}
