package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"catering_admin/internal/domain/entities"
	"catering_admin/internal/usecase/interfaces"
)

func newTestBudgetRepo() (*BudgetDynamoRepository, *fakeDynamo) {
	ddb := newFakeDynamo()
	repo := newBudgetRepository(ddb, "budgets")
	fixed := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	return repo, ddb
}

func sampleBudget() entities.Budget {
	return entities.Budget{
		ID:         "b-1",
		ClientInfo: entities.ClientInfo{Name: "Martin", GuestCount: 80, Extra: entities.Extra{"notes": json.RawMessage(`"sans porc"`)}},
		Menu:       entities.MenuSection{PricePerPerson: 25, TotalPersons: 80, TVAPct: 10},
		Service:    &entities.ServiceSection{Mozos: 2, Hours: 5},
		Status:     entities.BudgetStatusDraft,
	}
}

func TestBudgetRepository_CreateAndGet(t *testing.T) {
	repo, _ := newTestBudgetRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleBudget())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Version != 1 || created.CreatedAt.IsZero() {
		t.Fatalf("expected version 1 and timestamps, got %+v", created)
	}
	if created.Totals.TotalTTC != 2680 {
		t.Fatalf("expected recomputed totals, got %v", created.Totals.TotalTTC)
	}

	got, err := repo.GetByID(ctx, "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "b-1" || got.Service == nil || got.Service.PricePerHour != 40 {
		t.Fatalf("unexpected budget: %+v", got)
	}
	if string(got.ClientInfo.Extra["notes"]) != `"sans porc"` {
		t.Fatalf("expected unknown client field to survive, got %v", got.ClientInfo.Extra)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected created_at to round trip")
	}
}

func TestBudgetRepository_CreateDuplicate(t *testing.T) {
	repo, _ := newTestBudgetRepo()
	ctx := context.Background()

	if _, err := repo.Create(ctx, sampleBudget()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := repo.Create(ctx, sampleBudget())
	if !errors.Is(err, interfaces.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestBudgetRepository_GetMissing(t *testing.T) {
	repo, _ := newTestBudgetRepo()

	got, err := repo.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "" {
		t.Fatalf("expected zero budget, got %+v", got)
	}
}

func TestBudgetRepository_SaveVersioning(t *testing.T) {
	repo, _ := newTestBudgetRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleBudget())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created.Menu.TotalPersons = 100
	saved, err := repo.Save(ctx, created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Version != 2 {
		t.Fatalf("expected version 2, got %d", saved.Version)
	}

	// created still carries version 1: a stale writer.
	_, err = repo.Save(ctx, created)
	if !errors.Is(err, interfaces.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	got, _ := repo.GetByID(ctx, "b-1")
	if got.Menu.TotalPersons != 100 || got.Version != 2 {
		t.Fatalf("unexpected stored budget: %+v", got)
	}
}

func TestBudgetRepository_SaveMissing(t *testing.T) {
	repo, _ := newTestBudgetRepo()

	_, err := repo.Save(context.Background(), sampleBudget())
	if !errors.Is(err, interfaces.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict for a missing item, got %v", err)
	}
}

func TestBudgetRepository_List(t *testing.T) {
	repo, _ := newTestBudgetRepo()
	ctx := context.Background()

	for _, id := range []string{"b-1", "b-2"} {
		b := sampleBudget()
		b.ID = id
		if _, err := repo.Create(ctx, b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 budgets, got %d", len(list))
	}
}

func TestBudgetRepository_BackendError(t *testing.T) {
	repo, ddb := newTestBudgetRepo()
	ddb.err = errors.New("throttled")

	if _, err := repo.GetByID(context.Background(), "b-1"); err == nil || err.Error() != "throttled" {
		t.Fatalf("expected backend error, got %v", err)
	}
	if _, err := repo.Save(context.Background(), sampleBudget()); err == nil || err.Error() != "throttled" {
		t.Fatalf("expected backend error, got %v", err)
	}
}
