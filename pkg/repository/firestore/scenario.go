package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type impactDocument struct {
	EntityID    string `firestore:"entity_id"`
	EntityName  string `firestore:"entity_name"`
	Sector      string `firestore:"sector"`
	ScoreBefore int    `firestore:"score_before"`
	ScoreAfter  int    `firestore:"score_after"`
	TierBefore  string `firestore:"tier_before"`
	TierAfter   string `firestore:"tier_after"`
	Change      int    `firestore:"change"`
}

type sectorImpactDocument struct {
	Sector    string  `firestore:"sector"`
	Entities  int     `firestore:"entities"`
	AvgChange float64 `firestore:"avg_change"`
}

type resultsDocument struct {
	CriticalBefore int                    `firestore:"critical_before"`
	CriticalAfter  int                    `firestore:"critical_after"`
	AvgScoreChange float64                `firestore:"avg_score_change"`
	TotalAffected  int                    `firestore:"total_affected"`
	Skipped        int                    `firestore:"skipped"`
	Sectors        []sectorImpactDocument `firestore:"sectors"`
	TopImpacted    []impactDocument       `firestore:"top_impacted"`
}

type scenarioDocument struct {
	ID           string           `firestore:"id"`
	Description  string           `firestore:"description"`
	Type         string           `firestore:"type"`
	Magnitude    float64          `firestore:"magnitude"`
	Sector       string           `firestore:"sector"`
	Region       string           `firestore:"region"`
	Status       string           `firestore:"status"`
	Progress     int              `firestore:"progress"`
	CreatedAt    time.Time        `firestore:"created_at"`
	CompletedAt  *time.Time       `firestore:"completed_at"`
	DurationMS   *int64           `firestore:"duration_ms"`
	Results      *resultsDocument `firestore:"results"`
	FailureCause string           `firestore:"failure_cause"`
}

type scenarioRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newScenarioRepository(client *firestore.Client) *scenarioRepository {
	return &scenarioRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *scenarioRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_scenarios"
	}
	return "scenarios"
}

func toDocument(s *model.Scenario) *scenarioDocument {
	doc := &scenarioDocument{
		ID:           s.ID.String(),
		Description:  s.Description,
		Type:         s.Type.String(),
		Magnitude:    s.Params.Magnitude,
		Sector:       s.Params.Sector,
		Region:       s.Params.Region,
		Status:       s.Status.String(),
		Progress:     s.Progress,
		CreatedAt:    s.CreatedAt,
		CompletedAt:  s.CompletedAt,
		FailureCause: s.FailureCause,
	}
	if s.Duration != nil {
		ms := s.Duration.Milliseconds()
		doc.DurationMS = &ms
	}
	if s.Results != nil {
		doc.Results = toResultsDocument(s.Results)
	}
	return doc
}

func toResultsDocument(r *model.ScenarioResults) *resultsDocument {
	doc := &resultsDocument{
		CriticalBefore: r.Portfolio.CriticalBefore,
		CriticalAfter:  r.Portfolio.CriticalAfter,
		AvgScoreChange: r.Portfolio.AvgScoreChange,
		TotalAffected:  r.Portfolio.TotalAffected,
		Skipped:        r.Portfolio.Skipped,
	}
	for _, sec := range r.Sectors {
		doc.Sectors = append(doc.Sectors, sectorImpactDocument{
			Sector:    sec.Sector,
			Entities:  sec.Entities,
			AvgChange: sec.AvgChange,
		})
	}
	for _, imp := range r.TopImpacted {
		doc.TopImpacted = append(doc.TopImpacted, impactDocument{
			EntityID:    imp.EntityID.String(),
			EntityName:  imp.EntityName,
			Sector:      imp.Sector,
			ScoreBefore: imp.ScoreBefore,
			ScoreAfter:  imp.ScoreAfter,
			TierBefore:  imp.TierBefore.String(),
			TierAfter:   imp.TierAfter.String(),
			Change:      imp.Change,
		})
	}
	return doc
}

func fromDocument(doc *scenarioDocument) (*model.Scenario, error) {
	scenarioStatus, err := types.ParseScenarioStatus(doc.Status)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid status in scenario document", goerr.V("id", doc.ID))
	}

	s := &model.Scenario{
		ID:          types.ScenarioID(doc.ID),
		Description: doc.Description,
		Type:        types.ParseScenarioType(doc.Type),
		Params: model.ScenarioParams{
			Magnitude: doc.Magnitude,
			Sector:    doc.Sector,
			Region:    doc.Region,
		},
		Status:       scenarioStatus,
		Progress:     doc.Progress,
		CreatedAt:    doc.CreatedAt,
		CompletedAt:  doc.CompletedAt,
		FailureCause: doc.FailureCause,
	}
	if doc.DurationMS != nil {
		d := time.Duration(*doc.DurationMS) * time.Millisecond
		s.Duration = &d
	}
	if doc.Results != nil {
		s.Results = fromResultsDocument(doc.Results)
	}
	return s, nil
}

func fromResultsDocument(doc *resultsDocument) *model.ScenarioResults {
	results := &model.ScenarioResults{
		Portfolio: model.PortfolioImpact{
			CriticalBefore: doc.CriticalBefore,
			CriticalAfter:  doc.CriticalAfter,
			AvgScoreChange: doc.AvgScoreChange,
			TotalAffected:  doc.TotalAffected,
			Skipped:        doc.Skipped,
		},
	}
	for _, sec := range doc.Sectors {
		results.Sectors = append(results.Sectors, model.SectorImpact{
			Sector:    sec.Sector,
			Entities:  sec.Entities,
			AvgChange: sec.AvgChange,
		})
	}
	for _, imp := range doc.TopImpacted {
		results.TopImpacted = append(results.TopImpacted, model.Impact{
			EntityID:    types.EntityID(imp.EntityID),
			EntityName:  imp.EntityName,
			Sector:      imp.Sector,
			ScoreBefore: imp.ScoreBefore,
			ScoreAfter:  imp.ScoreAfter,
			TierBefore:  types.RiskTier(imp.TierBefore),
			TierAfter:   types.RiskTier(imp.TierAfter),
			Change:      imp.Change,
		})
	}
	return results
}

func (r *scenarioRepository) Create(ctx context.Context, scenario *model.Scenario) (*model.Scenario, error) {
	if err := scenario.ID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid scenario ID")
	}

	created := scenario.Clone()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.collection()).Doc(created.ID.String())
	if _, err := docRef.Create(ctx, toDocument(created)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.New("scenario already exists", goerr.V("id", created.ID))
		}
		return nil, goerr.Wrap(err, "failed to create scenario", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *scenarioRepository) Get(ctx context.Context, id types.ScenarioID) (*model.Scenario, error) {
	docRef := r.client.Collection(r.collection()).Doc(id.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "scenario not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get scenario", goerr.V("id", id))
	}

	var sd scenarioDocument
	if err := doc.DataTo(&sd); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal scenario", goerr.V("id", id))
	}

	return fromDocument(&sd)
}

func (r *scenarioRepository) List(ctx context.Context) ([]*model.Scenario, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Scenario
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate scenarios")
		}

		var sd scenarioDocument
		if err := doc.DataTo(&sd); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal scenario", goerr.V("doc", doc.Ref.ID))
		}

		scenario, err := fromDocument(&sd)
		if err != nil {
			return nil, err
		}
		result = append(result, scenario)
	}

	return result, nil
}

func (r *scenarioRepository) Update(ctx context.Context, scenario *model.Scenario) (*model.Scenario, error) {
	docRef := r.client.Collection(r.collection()).Doc(scenario.ID.String())

	updated := scenario.Clone()

	// Whole-document replace inside a transaction so that a record is
	// never observable with, e.g., a terminal status but no results.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "scenario not found", goerr.V("id", scenario.ID))
			}
			return goerr.Wrap(err, "failed to get scenario for update", goerr.V("id", scenario.ID))
		}

		var existing scenarioDocument
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal scenario", goerr.V("id", scenario.ID))
		}

		updated.CreatedAt = existing.CreatedAt
		return tx.Set(docRef, toDocument(updated))
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *scenarioRepository) Delete(ctx context.Context, id types.ScenarioID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	// Existence check first: Firestore deletes are idempotent but the
	// repository contract reports not-found.
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "scenario not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get scenario for delete", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete scenario", goerr.V("id", id))
	}

	return nil
}
