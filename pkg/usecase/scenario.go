package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/finport-lab/riskcast/pkg/domain/interfaces"
	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/finport-lab/riskcast/pkg/utils/async"
	"github.com/finport-lab/riskcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkerCap      = 8
	defaultProcessTimeout = 2 * time.Minute

	// Progress checkpoints. 0-10 covers entity identification, 10-90
	// covers per-entity scoring, and 100 means the terminal write landed.
	identifyProgress = 10
	scoringProgress  = 90
)

// ScenarioUseCase owns the scenario lifecycle: it creates records,
// runs the background simulation pipeline, and publishes progress.
type ScenarioUseCase struct {
	repo      interfaces.Repository
	entities  interfaces.EntityProvider
	predictor interfaces.RiskPredictor
	publisher interfaces.ProgressPublisher

	workerCap      int
	processTimeout time.Duration
	strict         bool
	pacing         time.Duration

	mu      sync.Mutex
	running map[types.ScenarioID]context.CancelFunc
}

// NewScenarioUseCase creates a scenario use case
func NewScenarioUseCase(repo interfaces.Repository, entities interfaces.EntityProvider, predictor interfaces.RiskPredictor, publisher interfaces.ProgressPublisher) *ScenarioUseCase {
	return &ScenarioUseCase{
		repo:           repo,
		entities:       entities,
		predictor:      predictor,
		publisher:      publisher,
		workerCap:      defaultWorkerCap,
		processTimeout: defaultProcessTimeout,
		running:        make(map[types.ScenarioID]context.CancelFunc),
	}
}

// Create registers a new scenario in PENDING state and schedules its
// background processing. It returns as soon as the record is durable;
// callers watch progress through Get or the progress events.
func (uc *ScenarioUseCase) Create(ctx context.Context, description string, scenarioType types.ScenarioType, params model.ScenarioParams) (*model.Scenario, error) {
	if strings.TrimSpace(description) == "" {
		return nil, goerr.New("scenario description is required")
	}
	if !scenarioType.IsValid() {
		scenarioType = types.ScenarioTypeGeneric
	}

	scenario := &model.Scenario{
		ID:          types.NewScenarioID(),
		Description: description,
		Type:        scenarioType,
		Params:      params,
		Status:      types.ScenarioStatusPending,
	}

	created, err := uc.repo.Scenario().Create(ctx, scenario)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create scenario")
	}

	logging.From(ctx).Info("scenario created",
		slog.Any("scenarioID", created.ID),
		slog.Any("type", created.Type),
	)

	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.process(ctx, created.ID)
	})

	return created, nil
}

// Get returns one scenario by ID
func (uc *ScenarioUseCase) Get(ctx context.Context, id types.ScenarioID) (*model.Scenario, error) {
	return uc.repo.Scenario().Get(ctx, id)
}

// List returns all scenarios, most recent first
func (uc *ScenarioUseCase) List(ctx context.Context) ([]*model.Scenario, error) {
	return uc.repo.Scenario().List(ctx)
}

// Delete removes a scenario. If the scenario is still being processed,
// the run is cancelled; no further progress events are published for
// the deleted ID once Delete returns.
func (uc *ScenarioUseCase) Delete(ctx context.Context, id types.ScenarioID) error {
	if err := uc.repo.Scenario().Delete(ctx, id); err != nil {
		return err
	}

	uc.mu.Lock()
	if cancel, ok := uc.running[id]; ok {
		cancel()
	}
	uc.mu.Unlock()

	logging.From(ctx).Info("scenario deleted", slog.Any("scenarioID", id))
	return nil
}

func (uc *ScenarioUseCase) track(id types.ScenarioID, cancel context.CancelFunc) {
	uc.mu.Lock()
	uc.running[id] = cancel
	uc.mu.Unlock()
}

func (uc *ScenarioUseCase) untrack(id types.ScenarioID) {
	uc.mu.Lock()
	delete(uc.running, id)
	uc.mu.Unlock()
}

// process drives one scenario from PENDING to a terminal state. It
// runs in a background goroutine; errors are terminal-state writes,
// not return values, except for infrastructure failures.
func (uc *ScenarioUseCase) process(ctx context.Context, id types.ScenarioID) error {
	runCtx, cancel := context.WithTimeout(ctx, uc.processTimeout)
	defer cancel()
	uc.track(id, cancel)
	defer uc.untrack(id)

	start := time.Now()

	scenario, err := uc.repo.Scenario().Get(runCtx, id)
	if err != nil {
		if IsNotFound(err) {
			// Deleted before processing started
			return nil
		}
		return goerr.Wrap(err, "failed to load scenario", goerr.V("scenarioID", id))
	}

	scenario.Status = types.ScenarioStatusInProgress
	if err := uc.writeAndPublish(runCtx, scenario); err != nil {
		if errors.Is(err, errRunCancelled) {
			return nil
		}
		return err
	}

	impacts, skipped, err := uc.scoreEntities(runCtx, scenario)
	if err != nil {
		if errors.Is(err, errRunCancelled) {
			return nil
		}
		return uc.fail(runCtx, scenario, start, err)
	}
	if len(impacts) == 0 && skipped > 0 {
		return uc.fail(runCtx, scenario, start,
			goerr.New("no affected entity could be scored", goerr.V("skipped", skipped)))
	}

	results := Aggregate(impacts, uc.baselineCritical(impacts), skipped)

	now := time.Now().UTC()
	elapsed := time.Since(start)
	scenario.Status = types.ScenarioStatusCompleted
	scenario.Progress = 100
	scenario.CompletedAt = &now
	scenario.Duration = &elapsed
	scenario.Results = results

	if err := uc.writeAndPublish(runCtx, scenario); err != nil {
		if errors.Is(err, errRunCancelled) {
			return nil
		}
		return err
	}

	logging.From(runCtx).Info("scenario completed",
		slog.Any("scenarioID", scenario.ID),
		slog.Int("affected", results.Portfolio.TotalAffected),
		slog.Int("skipped", skipped),
		slog.Duration("duration", elapsed),
	)
	return nil
}

// baselineCritical counts the critical entities outside the impacted
// set, so that aggregation reports portfolio-wide critical counts
// without counting any impacted entity twice.
func (uc *ScenarioUseCase) baselineCritical(impacts []model.Impact) int {
	baseline := uc.entities.CriticalCount()
	for _, imp := range impacts {
		if imp.TierBefore == types.RiskTierCritical {
			baseline--
		}
	}
	if baseline < 0 {
		baseline = 0
	}
	return baseline
}

// scoreEntities fans out per-entity predictions under the worker cap
// and reports progress as entities finish.
func (uc *ScenarioUseCase) scoreEntities(ctx context.Context, scenario *model.Scenario) ([]model.Impact, int, error) {
	ids, err := uc.entities.FilterEntities(ctx, scenario.Type, scenario.Params)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to identify affected entities")
	}

	var mu sync.Mutex
	if err := uc.checkpoint(ctx, &mu, scenario, identifyProgress); err != nil {
		return nil, 0, err
	}

	total := len(ids)
	if total == 0 {
		return nil, 0, nil
	}

	var (
		impacts   []model.Impact
		skipped   int
		processed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workerCap)

	for _, entityID := range ids {
		g.Go(func() error {
			impact, err := uc.scoreOne(gctx, entityID, scenario.Type, scenario.Params)

			if uc.pacing > 0 {
				time.Sleep(uc.pacing)
			}

			mu.Lock()
			processed++
			if err != nil {
				if uc.strict {
					mu.Unlock()
					return err
				}
				skipped++
				logging.From(gctx).Warn("skipping entity, prediction failed",
					slog.Any("scenarioID", scenario.ID),
					slog.Any("entityID", entityID),
					slog.Any("error", err),
				)
			} else {
				impacts = append(impacts, *impact)
			}
			progress := identifyProgress + processed*(scoringProgress-identifyProgress)/total
			mu.Unlock()

			return uc.checkpoint(gctx, &mu, scenario, progress)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return impacts, skipped, nil
}

func (uc *ScenarioUseCase) scoreOne(ctx context.Context, id types.EntityID, scenarioType types.ScenarioType, params model.ScenarioParams) (*model.Impact, error) {
	entity, err := uc.entities.GetEntity(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get entity", goerr.V("entityID", id))
	}

	raw, err := uc.predictor.Predict(ctx, entity, scenarioType, params)
	if err != nil {
		return nil, goerr.Wrap(err, "prediction failed", goerr.V("entityID", id))
	}

	after := types.ClampScore(raw)
	return &model.Impact{
		EntityID:    entity.ID,
		EntityName:  entity.Name,
		Sector:      entity.Sector,
		ScoreBefore: entity.RiskScore,
		ScoreAfter:  after,
		TierBefore:  types.TierOf(entity.RiskScore),
		TierAfter:   types.TierOf(after),
		Change:      after - entity.RiskScore,
	}, nil
}

// checkpoint advances the persisted progress and publishes it.
// Progress never moves backwards; stale checkpoints are dropped.
func (uc *ScenarioUseCase) checkpoint(ctx context.Context, mu *sync.Mutex, scenario *model.Scenario, progress int) error {
	mu.Lock()
	defer mu.Unlock()

	if progress <= scenario.Progress {
		return nil
	}
	scenario.Progress = progress

	if _, err := uc.repo.Scenario().Update(ctx, scenario); err != nil {
		if IsNotFound(err) {
			return errRunCancelled
		}
		return goerr.Wrap(err, "failed to persist progress", goerr.V("scenarioID", scenario.ID))
	}

	uc.publisher.Publish(&model.ProgressEvent{
		ScenarioID: scenario.ID,
		Status:     scenario.Status,
		Progress:   scenario.Progress,
	})
	return nil
}

// writeAndPublish persists the scenario as-is and publishes the
// matching event. Used for status transitions.
func (uc *ScenarioUseCase) writeAndPublish(ctx context.Context, scenario *model.Scenario) error {
	if _, err := uc.repo.Scenario().Update(ctx, scenario); err != nil {
		if IsNotFound(err) {
			return errRunCancelled
		}
		return goerr.Wrap(err, "failed to persist scenario", goerr.V("scenarioID", scenario.ID))
	}

	event := &model.ProgressEvent{
		ScenarioID: scenario.ID,
		Status:     scenario.Status,
		Progress:   scenario.Progress,
	}
	if scenario.Status == types.ScenarioStatusCompleted {
		event.Results = scenario.Results
	}
	uc.publisher.Publish(event)
	return nil
}

// fail writes the FAILED terminal state. It uses a detached context so
// the write survives a run timeout, but a deleted scenario stays gone.
func (uc *ScenarioUseCase) fail(ctx context.Context, scenario *model.Scenario, start time.Time, cause error) error {
	logging.From(ctx).Error("scenario failed",
		slog.Any("scenarioID", scenario.ID),
		slog.Any("error", cause),
	)

	now := time.Now().UTC()
	elapsed := time.Since(start)
	scenario.Status = types.ScenarioStatusFailed
	scenario.CompletedAt = &now
	scenario.Duration = &elapsed
	scenario.FailureCause = cause.Error()

	writeCtx := context.WithoutCancel(ctx)
	if _, err := uc.repo.Scenario().Update(writeCtx, scenario); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return goerr.Wrap(err, "failed to persist failure", goerr.V("scenarioID", scenario.ID))
	}

	uc.publisher.Publish(&model.ProgressEvent{
		ScenarioID: scenario.ID,
		Status:     scenario.Status,
		Progress:   scenario.Progress,
	})
	return nil
}
