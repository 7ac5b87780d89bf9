package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/finport-lab/riskcast/pkg/domain/interfaces"
	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/finport-lab/riskcast/pkg/repository/firestore"
	"github.com/finport-lab/riskcast/pkg/repository/memory"
)

func newScenario(description string) *model.Scenario {
	return &model.Scenario{
		ID:          types.NewScenarioID(),
		Description: description,
		Type:        types.ScenarioTypeGeneric,
		Status:      types.ScenarioStatusPending,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

func runRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create inserts pending scenario", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Scenario().Create(ctx, newScenario("What if interest rates go up 1%?"))
		if err != nil {
			t.Fatalf("failed to create scenario: %v", err)
		}

		if created.Status != types.ScenarioStatusPending {
			t.Errorf("expected status=PENDING, got %s", created.Status)
		}
		if created.Progress != 0 {
			t.Errorf("expected progress=0, got %d", created.Progress)
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
		if created.CompletedAt != nil {
			t.Error("expected nil CompletedAt on creation")
		}
		if created.Results != nil {
			t.Error("expected nil Results on creation")
		}
	})

	t.Run("Create rejects duplicate ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		s := newScenario("duplicate test")
		if _, err := repo.Scenario().Create(ctx, s); err != nil {
			t.Fatalf("failed to create scenario: %v", err)
		}
		if _, err := repo.Scenario().Create(ctx, s); err == nil {
			t.Error("expected error for duplicate scenario ID")
		}
	})

	t.Run("Get retrieves existing scenario", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Scenario().Create(ctx, newScenario("hemp products ban"))
		if err != nil {
			t.Fatalf("failed to create scenario: %v", err)
		}

		retrieved, err := repo.Scenario().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get scenario: %v", err)
		}
		if retrieved.ID != created.ID {
			t.Errorf("expected ID=%s, got %s", created.ID, retrieved.ID)
		}
		if retrieved.Description != created.Description {
			t.Errorf("expected description=%s, got %s", created.Description, retrieved.Description)
		}
	})

	t.Run("Get returns not-found for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Scenario().Get(ctx, types.NewScenarioID())
		if err == nil {
			t.Fatal("expected error for unknown scenario")
		}
		if !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Update replaces the whole record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Scenario().Create(ctx, newScenario("update test"))
		if err != nil {
			t.Fatalf("failed to create scenario: %v", err)
		}

		now := time.Now().UTC()
		duration := 3 * time.Second
		created.Status = types.ScenarioStatusCompleted
		created.Progress = 100
		created.CompletedAt = &now
		created.Duration = &duration
		created.Results = &model.ScenarioResults{
			Portfolio: model.PortfolioImpact{TotalAffected: 5},
		}

		updated, err := repo.Scenario().Update(ctx, created)
		if err != nil {
			t.Fatalf("failed to update scenario: %v", err)
		}
		if updated.Status != types.ScenarioStatusCompleted {
			t.Errorf("expected status=COMPLETED, got %s", updated.Status)
		}

		retrieved, err := repo.Scenario().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get scenario: %v", err)
		}
		if retrieved.Status != types.ScenarioStatusCompleted {
			t.Errorf("expected status=COMPLETED, got %s", retrieved.Status)
		}
		if retrieved.Results == nil {
			t.Fatal("expected non-nil results after terminal update")
		}
		if retrieved.Results.Portfolio.TotalAffected != 5 {
			t.Errorf("expected TotalAffected=5, got %d", retrieved.Results.Portfolio.TotalAffected)
		}
		if retrieved.CompletedAt == nil || retrieved.Duration == nil {
			t.Error("expected completion timestamp and duration after terminal update")
		}
	})

	t.Run("Update returns not-found after delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Scenario().Create(ctx, newScenario("deleted mid-flight"))
		if err != nil {
			t.Fatalf("failed to create scenario: %v", err)
		}
		if err := repo.Scenario().Delete(ctx, created.ID); err != nil {
			t.Fatalf("failed to delete scenario: %v", err)
		}

		created.Progress = 50
		_, err = repo.Scenario().Update(ctx, created)
		if err == nil {
			t.Fatal("expected error updating deleted scenario")
		}
		if !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete removes scenario and is not-found afterwards", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Scenario().Create(ctx, newScenario("delete test"))
		if err != nil {
			t.Fatalf("failed to create scenario: %v", err)
		}

		if err := repo.Scenario().Delete(ctx, created.ID); err != nil {
			t.Fatalf("failed to delete scenario: %v", err)
		}

		if _, err := repo.Scenario().Get(ctx, created.ID); !isNotFound(err) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		// Deleting again reports not-found, never panics
		if err := repo.Scenario().Delete(ctx, created.ID); !isNotFound(err) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("List returns scenarios in reverse creation order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var ids []types.ScenarioID
		for i := 0; i < 3; i++ {
			created, err := repo.Scenario().Create(ctx, newScenario(fmt.Sprintf("scenario %d", i)))
			if err != nil {
				t.Fatalf("failed to create scenario %d: %v", i, err)
			}
			ids = append(ids, created.ID)
			time.Sleep(5 * time.Millisecond)
		}

		listed, err := repo.Scenario().List(ctx)
		if err != nil {
			t.Fatalf("failed to list scenarios: %v", err)
		}
		if len(listed) != 3 {
			t.Fatalf("expected 3 scenarios, got %d", len(listed))
		}
		for i, s := range listed {
			want := ids[len(ids)-1-i]
			if s.ID != want {
				t.Errorf("position %d: expected %s, got %s", i, want, s.ID)
			}
		}
	})

	t.Run("Concurrent creates yield distinct records", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const n = 10
		var wg sync.WaitGroup
		errCh := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Scenario().Create(ctx, newScenario(fmt.Sprintf("concurrent %d", i)))
				errCh <- err
			}(i)
		}
		wg.Wait()
		close(errCh)
		for err := range errCh {
			if err != nil {
				t.Errorf("concurrent create failed: %v", err)
			}
		}

		listed, err := repo.Scenario().List(ctx)
		if err != nil {
			t.Fatalf("failed to list scenarios: %v", err)
		}
		if len(listed) != n {
			t.Errorf("expected %d scenarios, got %d", n, len(listed))
		}
		seen := make(map[types.ScenarioID]bool)
		for _, s := range listed {
			if seen[s.ID] {
				t.Errorf("duplicate scenario ID in list: %s", s.ID)
			}
			seen[s.ID] = true
		}
	})

	t.Run("Readers never observe in-flight mutations", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Scenario().Create(ctx, newScenario("isolation test"))
		if err != nil {
			t.Fatalf("failed to create scenario: %v", err)
		}

		retrieved, err := repo.Scenario().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get scenario: %v", err)
		}

		// Mutating the returned record must not affect the store.
		retrieved.Status = types.ScenarioStatusFailed
		retrieved.Progress = 99

		again, err := repo.Scenario().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get scenario: %v", err)
		}
		if again.Status != types.ScenarioStatusPending {
			t.Errorf("expected status=PENDING, got %s", again.Status)
		}
		if again.Progress != 0 {
			t.Errorf("expected progress=0, got %d", again.Progress)
		}
	})
}

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Logf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryScenarioRepository(t *testing.T) {
	runRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreScenarioRepository(t *testing.T) {
	runRepositoryTest(t, newFirestoreRepository)
}
