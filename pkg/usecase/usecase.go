package usecase

import (
	"time"

	"github.com/finport-lab/riskcast/pkg/agent/tool/router"
	"github.com/finport-lab/riskcast/pkg/domain/interfaces"
	"github.com/m-mizutani/gollem"
)

type UseCases struct {
	repo interfaces.Repository

	Scenario *ScenarioUseCase
	Chat     *ChatUseCase
}

type Option func(*UseCases)

// WithLLM sets the LLM client used by the chat router. Without it,
// chat requests get a static clarifying reply.
func WithLLM(client gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.Chat.llmClient = client
	}
}

// WithWorkerCap bounds the per-scenario fan-out when scoring entities
func WithWorkerCap(n int) Option {
	return func(uc *UseCases) {
		if n > 0 {
			uc.Scenario.workerCap = n
		}
	}
}

// WithProcessTimeout sets the wall-clock ceiling for one scenario run
func WithProcessTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		if d > 0 {
			uc.Scenario.processTimeout = d
		}
	}
}

// WithStrictPrediction makes any per-entity prediction failure fail
// the whole scenario instead of skipping the entity.
func WithStrictPrediction() Option {
	return func(uc *UseCases) {
		uc.Scenario.strict = true
	}
}

// WithPacing adds a fixed delay after each scored entity. Demo mode
// only; keep it zero in production.
func WithPacing(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.Scenario.pacing = d
	}
}

// New creates the use case set
func New(repo interfaces.Repository, portfolio router.PortfolioReader, predictor interfaces.RiskPredictor, publisher interfaces.ProgressPublisher, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		Scenario: NewScenarioUseCase(repo, portfolio, predictor, publisher),
	}
	uc.Chat = NewChatUseCase(uc.Scenario, portfolio, nil)

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
