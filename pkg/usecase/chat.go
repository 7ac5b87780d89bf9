package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"text/template"

	"github.com/finport-lab/riskcast/pkg/agent/tool"
	"github.com/finport-lab/riskcast/pkg/agent/tool/router"
	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/finport-lab/riskcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/router_system.md
var routerSystemPromptRaw string

var routerSystemPrompt = template.Must(template.New("router_system").Parse(routerSystemPromptRaw))

// maxRouteIterations bounds one routing agent execution. A request
// that is still calling tools after this many turns gets cut off and
// falls back to the clarifying reply.
const maxRouteIterations = 10

// maxSessionTurns caps the per-session transcript. Older turns are
// dropped so long-lived sessions do not grow without bound.
const maxSessionTurns = 20

const clarifyingReply = "I can run what-if simulations on your portfolio, profile a tracked entity, or answer questions about portfolio risk. Could you rephrase what you'd like to do?"

// ChatUseCase routes a free-text request to the right capability: it
// answers informational questions directly, starts a simulation, or
// pulls up an entity profile. Conversation state is keyed by the
// caller-supplied session ID so follow-up messages keep their context.
type ChatUseCase struct {
	scenario  *ScenarioUseCase
	portfolio router.PortfolioReader
	llmClient gollem.LLMClient

	mu       sync.Mutex
	sessions map[types.SessionID][]model.ChatTurn
}

// NewChatUseCase creates a chat use case. llmClient may be nil, in
// which case every request gets the static clarifying reply.
func NewChatUseCase(scenario *ScenarioUseCase, portfolio router.PortfolioReader, llmClient gollem.LLMClient) *ChatUseCase {
	return &ChatUseCase{
		scenario:  scenario,
		portfolio: portfolio,
		llmClient: llmClient,
		sessions:  make(map[types.SessionID][]model.ChatTurn),
	}
}

// Chat handles one user message within a session and returns the
// reply. An empty session ID starts a fresh session; the reply carries
// the ID to use for follow-ups. When the agent started a simulation,
// the reply also carries the created scenario so the caller can
// surface its handle.
func (uc *ChatUseCase) Chat(ctx context.Context, sessionID types.SessionID, message string) (*model.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, goerr.New("message is required")
	}
	if sessionID == "" {
		sessionID = types.NewSessionID()
	}
	if uc.llmClient == nil {
		return uc.conclude(sessionID, message, &model.ChatReply{Text: clarifyingReply, Intent: types.IntentInformational}), nil
	}

	systemPrompt, err := uc.buildSystemPrompt(uc.History(sessionID))
	if err != nil {
		return nil, err
	}

	ctx = tool.WithUpdate(ctx, func(ctx context.Context, progress string) {
		logging.From(ctx).Info("router tool progress",
			slog.Any("sessionID", sessionID),
			slog.String("message", progress),
		)
	})

	tools := router.New(uc.scenario, uc.portfolio)
	agent := gollem.New(uc.llmClient,
		gollem.WithSystemPrompt(systemPrompt),
		gollem.WithTools(tools.All()...),
		gollem.WithLoopLimit(maxRouteIterations),
	)

	resp, err := agent.Execute(ctx, gollem.Text(message))
	if err != nil {
		logging.From(ctx).Warn("routing agent failed, falling back",
			slog.Any("sessionID", sessionID),
			slog.Any("error", err),
		)
		return uc.conclude(sessionID, message, uc.fallbackReply(tools)), nil
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	}
	if text == "" {
		return uc.conclude(sessionID, message, uc.fallbackReply(tools)), nil
	}

	return uc.conclude(sessionID, message, &model.ChatReply{
		Text:     text,
		Intent:   tools.Intent(),
		Scenario: tools.CreatedScenario(),
	}), nil
}

// History returns the recorded transcript of one chat session, oldest
// first. Unknown sessions yield an empty transcript.
func (uc *ChatUseCase) History(sessionID types.SessionID) []model.ChatTurn {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	turns := make([]model.ChatTurn, len(uc.sessions[sessionID]))
	copy(turns, uc.sessions[sessionID])
	return turns
}

// conclude stamps the session on the reply and records the exchange in
// the session transcript.
func (uc *ChatUseCase) conclude(sessionID types.SessionID, message string, reply *model.ChatReply) *model.ChatReply {
	reply.SessionID = sessionID

	uc.mu.Lock()
	defer uc.mu.Unlock()
	turns := append(uc.sessions[sessionID],
		model.ChatTurn{Role: model.ChatRoleUser, Text: message},
		model.ChatTurn{Role: model.ChatRoleAssistant, Text: reply.Text},
	)
	if len(turns) > maxSessionTurns {
		turns = turns[len(turns)-maxSessionTurns:]
	}
	uc.sessions[sessionID] = turns
	return reply
}

// fallbackReply degrades gracefully. If a simulation was already
// started during the failed execution, the reply acknowledges it
// instead of pretending nothing happened.
func (uc *ChatUseCase) fallbackReply(tools *router.Tools) *model.ChatReply {
	if scenario := tools.CreatedScenario(); scenario != nil {
		return &model.ChatReply{
			Text:     fmt.Sprintf("Started simulation %s. Results will be available shortly.", scenario.ID),
			Intent:   types.IntentScenario,
			Scenario: scenario,
		}
	}
	return &model.ChatReply{Text: clarifyingReply, Intent: types.IntentInformational}
}

// buildSystemPrompt renders the router prompt with current portfolio
// numbers and the session transcript so far.
func (uc *ChatUseCase) buildSystemPrompt(turns []model.ChatTurn) (string, error) {
	data := struct {
		EntityCount   int
		CriticalCount int
		Turns         []model.ChatTurn
	}{
		EntityCount:   len(uc.portfolio.Entities()),
		CriticalCount: uc.portfolio.CriticalCount(),
		Turns:         turns,
	}

	var buf bytes.Buffer
	if err := routerSystemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to build system prompt")
	}
	return buf.String(), nil
}
