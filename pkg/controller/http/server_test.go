package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	controller "github.com/finport-lab/riskcast/pkg/controller/http"
	"github.com/finport-lab/riskcast/pkg/repository/memory"
	"github.com/finport-lab/riskcast/pkg/service/broadcast"
	"github.com/finport-lab/riskcast/pkg/service/portfolio"
	"github.com/finport-lab/riskcast/pkg/service/predictor"
	"github.com/finport-lab/riskcast/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func newTestServer(t *testing.T) *controller.Server {
	t.Helper()

	pf, err := portfolio.Default()
	gt.NoError(t, err).Required()

	hub := broadcast.New()
	t.Cleanup(hub.Close)

	uc := usecase.New(memory.New(), pf, predictor.New(), hub)
	return controller.New(uc, hub, pf)
}

func postJSON(t *testing.T, srv http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	gt.NoError(t, err).Required()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, srv http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), into)).Required()
}

type scenarioBody struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Progress     int             `json:"progress"`
	Results      json.RawMessage `json:"results"`
	FailureCause string          `json:"failure_cause"`
}

func waitForTerminalHTTP(t *testing.T, srv http.Handler, id string) scenarioBody {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := get(t, srv, "/api/scenarios/"+id)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var body scenarioBody
		decodeJSON(t, rec, &body)
		if body.Status == "COMPLETED" || body.Status == "FAILED" {
			return body
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("scenario did not reach a terminal state")
	return scenarioBody{}
}

func TestServer_ScenarioLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv, "/api/scenarios", map[string]any{
		"description": "interest rates rise by 2%",
		"type":        "interest_rate",
		"params":      map[string]any{"magnitude": 2.0},
	})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	var created scenarioBody
	decodeJSON(t, rec, &created)
	gt.Value(t, created.Status).Equal("PENDING")
	gt.Value(t, created.Type).Equal("interest_rate")
	gt.Value(t, created.ID != "").Equal(true)

	done := waitForTerminalHTTP(t, srv, created.ID)
	gt.Value(t, done.Status).Equal("COMPLETED")
	gt.Value(t, done.Progress).Equal(100)
	gt.Value(t, len(done.Results) > 0).Equal(true)

	var results struct {
		Portfolio struct {
			TotalAffected int `json:"total_affected"`
		} `json:"portfolio"`
		TopImpacted []json.RawMessage `json:"top_impacted"`
	}
	gt.NoError(t, json.Unmarshal(done.Results, &results)).Required()
	gt.Value(t, results.Portfolio.TotalAffected > 0).Equal(true)
	gt.Value(t, len(results.TopImpacted) > 0).Equal(true)
}

func TestServer_CreateValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv, "/api/scenarios", map[string]any{
		"description": "",
		"type":        "economic",
	})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	req := httptest.NewRequest(http.MethodPost, "/api/scenarios", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	gt.Value(t, rr.Code).Equal(http.StatusBadRequest)
}

func TestServer_ListScenarios(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 3; i++ {
		rec := postJSON(t, srv, "/api/scenarios", map[string]any{
			"description": fmt.Sprintf("run %d", i),
			"type":        "economic",
		})
		gt.Value(t, rec.Code).Equal(http.StatusCreated)
	}

	rec := get(t, srv, "/api/scenarios")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var body struct {
		Scenarios []scenarioBody `json:"scenarios"`
	}
	decodeJSON(t, rec, &body)
	gt.Array(t, body.Scenarios).Length(3)
	// Most recent first.
	gt.Value(t, body.Scenarios[0].Description).Equal("run 2")
	gt.Value(t, body.Scenarios[2].Description).Equal("run 0")
}

func TestServer_GetScenarioErrors(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/scenarios/not-a-uuid")
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	rec = get(t, srv, "/api/scenarios/0198c1a0-0000-7000-8000-000000000000")
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestServer_DeleteScenario(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv, "/api/scenarios", map[string]any{
		"description": "short lived",
		"type":        "economic",
	})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	var created scenarioBody
	decodeJSON(t, rec, &created)

	req := httptest.NewRequest(http.MethodDelete, "/api/scenarios/"+created.ID, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	gt.Value(t, rr.Code).Equal(http.StatusNoContent)

	rec = get(t, srv, "/api/scenarios/"+created.ID)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	req = httptest.NewRequest(http.MethodDelete, "/api/scenarios/"+created.ID, nil)
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	gt.Value(t, rr.Code).Equal(http.StatusNotFound)
}

func TestServer_Portfolio(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/portfolio")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var body struct {
		Entities []struct {
			ID       string `json:"id"`
			RiskTier string `json:"risk_tier"`
		} `json:"entities"`
		CriticalCount int `json:"critical_count"`
	}
	decodeJSON(t, rec, &body)
	gt.Value(t, len(body.Entities) > 0).Equal(true)

	rec = get(t, srv, "/api/portfolio/entities/"+body.Entities[0].ID)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = get(t, srv, "/api/portfolio/entities/no-such-entity")
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestServer_Chat(t *testing.T) {
	srv := newTestServer(t)

	// No LLM configured: the chat endpoint still answers.
	rec := postJSON(t, srv, "/api/chat", map[string]any{"message": "what can you do?"})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var body struct {
		SessionID string `json:"session_id"`
		Reply     string `json:"reply"`
	}
	decodeJSON(t, rec, &body)
	gt.Value(t, body.Reply != "").Equal(true)
	gt.Value(t, body.SessionID != "").Equal(true)

	// The exchange is recorded under the returned session ID.
	rec = get(t, srv, "/api/chat/"+body.SessionID)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var history struct {
		SessionID string `json:"session_id"`
		Turns     []struct {
			Role string `json:"role"`
			Text string `json:"text"`
		} `json:"turns"`
	}
	decodeJSON(t, rec, &history)
	gt.Value(t, history.SessionID).Equal(body.SessionID)
	gt.Array(t, history.Turns).Length(2)
	gt.Value(t, history.Turns[0].Role).Equal("user")
	gt.Value(t, history.Turns[0].Text).Equal("what can you do?")
	gt.Value(t, history.Turns[1].Role).Equal("assistant")

	rec = postJSON(t, srv, "/api/chat", map[string]any{"message": "  "})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestServer_EventStream(t *testing.T) {
	pf, err := portfolio.Default()
	gt.NoError(t, err).Required()

	hub := broadcast.New()
	t.Cleanup(hub.Close)
	uc := usecase.New(memory.New(), pf, predictor.New(), hub)
	srv := controller.New(uc, hub, pf)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	gt.NoError(t, err).Required()
	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	defer resp.Body.Close()
	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
	gt.Value(t, resp.Header.Get("Content-Type")).Equal("text/event-stream")

	// Wait for the subscription to register before creating work.
	deadline := time.Now().Add(time.Second)
	for hub.SubscriberCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	rec := postJSON(t, srv, "/api/scenarios", map[string]any{
		"description": "watched via SSE",
		"type":        "economic",
	})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	buf := make([]byte, 4096)
	var received bytes.Buffer
	for {
		n, err := resp.Body.Read(buf)
		received.Write(buf[:n])
		if bytes.Contains(received.Bytes(), []byte("COMPLETED")) {
			break
		}
		if err != nil {
			t.Fatalf("stream ended before terminal event: %v (got %q)", err, received.String())
		}
	}
	gt.Bool(t, bytes.Contains(received.Bytes(), []byte("event: progress"))).True()
	gt.Bool(t, bytes.Contains(received.Bytes(), []byte("\"scenario_id\""))).True()
}
