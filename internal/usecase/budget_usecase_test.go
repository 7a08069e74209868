package usecase

import (
	"context"
	"errors"
	"testing"

	"catering_admin/internal/domain/budget"
	"catering_admin/internal/domain/entities"
	"catering_admin/internal/usecase/interfaces"
	mock_interfaces "catering_admin/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func newBudgetUseCase(t *testing.T) (*BudgetUseCase, *mock_interfaces.MockIBudgetRepository, *mock_interfaces.MockIBudgetExporter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockIBudgetRepository(ctrl)
	exporter := mock_interfaces.NewMockIBudgetExporter(ctrl)
	return NewBudgetUseCase(repo, exporter, quietLogger()), repo, exporter
}

// storedDraft is a menu-only draft as the repository returns it.
func storedDraft(status entities.BudgetStatus) entities.Budget {
	return budget.Recompute(entities.Budget{
		ID:      "bud-1",
		Status:  status,
		Version: 4,
		Menu:    entities.MenuSection{PricePerPerson: 25, TotalPersons: 80, TVAPct: 10},
	})
}

// saveEcho makes Save behave like the repository: bump the version.
func saveEcho(_ context.Context, b entities.Budget) (entities.Budget, error) {
	b.Version++
	return b, nil
}

func TestBudgetUseCase_CreateBudget(t *testing.T) {
	t.Run("creates a recomputed draft", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b entities.Budget) (entities.Budget, error) {
				if b.ID == "" {
					t.Fatalf("expected generated id")
				}
				if b.Status != entities.BudgetStatusDraft {
					t.Fatalf("expected draft, got %s", b.Status)
				}
				if b.Totals.TotalTTC != 2200 {
					t.Fatalf("expected totalTTC 2200, got %v", b.Totals.TotalTTC)
				}
				b.Version = 1
				return b, nil
			},
		)

		res, err := uc.CreateBudget(context.Background(),
			entities.ClientInfo{Name: "Durand", GuestCount: 80},
			entities.MenuSection{PricePerPerson: 25, TotalPersons: 80, TVAPct: 10},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Version != 1 || res.Service != nil || res.Material != nil || res.Deplacement != nil {
			t.Fatalf("unexpected budget: %+v", res)
		}
	})

	t.Run("rejects invalid menu", func(t *testing.T) {
		uc, _, _ := newBudgetUseCase(t)
		_, err := uc.CreateBudget(context.Background(), entities.ClientInfo{}, entities.MenuSection{PricePerPerson: -1})
		var ve *budget.ValidationError
		if !errors.As(err, &ve) || ve.Field != "menu.pricePerPerson" {
			t.Fatalf("expected validation error on menu.pricePerPerson, got %v", err)
		}
	})

	t.Run("id already taken", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Budget{}, interfaces.ErrAlreadyExists)

		_, err := uc.CreateBudget(context.Background(), entities.ClientInfo{}, entities.MenuSection{})
		if !errors.Is(err, ErrBudgetAlreadyExists) {
			t.Fatalf("expected ErrBudgetAlreadyExists, got %v", err)
		}
	})

	t.Run("repository error", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Budget{}, errors.New("db"))

		_, err := uc.CreateBudget(context.Background(), entities.ClientInfo{}, entities.MenuSection{})
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestBudgetUseCase_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc, _, _ := newBudgetUseCase(t)
		if _, err := uc.GetByID(context.Background(), "  "); !errors.Is(err, ErrInvalidBudgetID) {
			t.Fatalf("expected ErrInvalidBudgetID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(entities.Budget{}, nil)
		if _, err := uc.GetByID(context.Background(), "bud-1"); !errors.Is(err, ErrBudgetNotFound) {
			t.Fatalf("expected ErrBudgetNotFound, got %v", err)
		}
	})

	t.Run("trims id", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)
		res, err := uc.GetByID(context.Background(), " bud-1 ")
		if err != nil || res.ID != "bud-1" {
			t.Fatalf("unexpected result err=%v res=%+v", err, res)
		}
	})

	t.Run("list", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().List(gomock.Any()).Return([]entities.Budget{storedDraft(entities.BudgetStatusDraft)}, nil)
		res, err := uc.List(context.Background())
		if err != nil || len(res) != 1 {
			t.Fatalf("unexpected result err=%v res=%+v", err, res)
		}
	})
}

func TestBudgetUseCase_Edits(t *testing.T) {
	t.Run("add service recomputes totals", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b entities.Budget) (entities.Budget, error) {
				if b.Version != 4 {
					t.Fatalf("save must carry the version that was read, got %d", b.Version)
				}
				return saveEcho(context.Background(), b)
			},
		)

		res, err := uc.AddSection(context.Background(), "bud-1", 0, "service", map[string]any{"mozos": 2.0, "hours": 5.0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Service == nil || res.Service.TotalTTC != 480 || res.Totals.TotalTTC != 2680 {
			t.Fatalf("unexpected totals: %+v", res.Totals)
		}
		if res.Version != 5 {
			t.Fatalf("expected version 5, got %d", res.Version)
		}
	})

	t.Run("update field", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(saveEcho)

		res, err := uc.UpdateField(context.Background(), "bud-1", 4, " menu.totalPersons ", 100.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Menu.TotalHT != 2500 || res.Totals.TotalTTC != 2750 {
			t.Fatalf("unexpected menu: %+v", res.Menu)
		}
	})

	t.Run("material item lifecycle", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		withMaterial := storedDraft(entities.BudgetStatusDraft)
		withMaterial.Material = &entities.MaterialSection{TVAPct: 20, Items: []entities.MaterialItem{
			{Name: "Serveurs", Quantity: 2, PricePerUnit: 100},
			{Name: "Chaises", Quantity: 50, PricePerUnit: 1.5},
		}}
		withMaterial = budget.Recompute(withMaterial)

		gomock.InOrder(
			repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(withMaterial, nil),
			repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(saveEcho),
		)
		qty := 60.0
		res, err := uc.UpdateMaterialItem(context.Background(), "bud-1", 0, 0, budget.MaterialItemPatch{Quantity: &qty})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Material.Items[1].Quantity != 60 || res.Material.Items[0].Quantity != 2 {
			t.Fatalf("index 0 must target the first visible item: %+v", res.Material.Items)
		}

		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(withMaterial, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(saveEcho)
		res, err = uc.RemoveMaterialItem(context.Background(), "bud-1", 0, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Material != nil || res.Totals.TotalTTC != 2200 {
			t.Fatalf("removing the last visible item must drop material: %+v", res.Material)
		}

		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(saveEcho)
		res, err = uc.AddMaterialItem(context.Background(), "bud-1", 0, entities.MaterialItem{Name: "Nappes", Quantity: 10, PricePerUnit: 5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Material == nil || res.Material.TotalHT != 50 {
			t.Fatalf("unexpected material: %+v", res.Material)
		}
	})

	t.Run("remove section", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		b := storedDraft(entities.BudgetStatusDraft)
		b.Deplacement = &entities.DeplacementSection{Distance: 40, PricePerKm: 0.5, TVAPct: 20}
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(budget.Recompute(b), nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(saveEcho)

		res, err := uc.RemoveSection(context.Background(), "bud-1", 0, "deplacement")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Deplacement != nil || res.Totals.TotalTTC != 2200 {
			t.Fatalf("unexpected budget: %+v", res)
		}
	})

	t.Run("update client info keeps unknown fields", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		b := storedDraft(entities.BudgetStatusDraft)
		b.ClientInfo = entities.ClientInfo{Name: "Old", Extra: entities.Extra{"allergies": []byte(`"gluten"`)}}
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(b, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(saveEcho)

		res, err := uc.UpdateClientInfo(context.Background(), "bud-1", 0, entities.ClientInfo{Name: "New", GuestCount: 90, MenuType: entities.MenuTypeStandard})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ClientInfo.Name != "New" || string(res.ClientInfo.Extra["allergies"]) != `"gluten"` {
			t.Fatalf("unexpected client info: %+v", res.ClientInfo)
		}
	})

	t.Run("update client info rejects invalid menu type", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)

		_, err := uc.UpdateClientInfo(context.Background(), "bud-1", 0, entities.ClientInfo{MenuType: "vegan"})
		if !errors.Is(err, budget.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("editing a rejected budget moves it back to draft", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusRejected), nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(saveEcho)

		res, err := uc.UpdateField(context.Background(), "bud-1", 0, "menu.pricePerPerson", 30)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.BudgetStatusDraft {
			t.Fatalf("expected draft, got %s", res.Status)
		}
	})
}

func TestBudgetUseCase_EditErrors(t *testing.T) {
	t.Run("engine validation error is returned untouched", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)

		_, err := uc.UpdateField(context.Background(), "bud-1", 0, "menu.pricePerPerson", -5)
		var ve *budget.ValidationError
		if !errors.As(err, &ve) || ve.Field != "menu.pricePerPerson" {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("missing item", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)

		_, err := uc.RemoveMaterialItem(context.Background(), "bud-1", 0, 3)
		if !errors.Is(err, budget.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		uc, _, _ := newBudgetUseCase(t)
		_, err := uc.AddSection(context.Background(), "bud-1", 0, "dessert", nil)
		if !errors.Is(err, budget.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		_, err = uc.RemoveSection(context.Background(), "bud-1", 0, "dessert")
		if !errors.Is(err, budget.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	for _, status := range []entities.BudgetStatus{entities.BudgetStatusPendingReview, entities.BudgetStatusApproved, entities.BudgetStatusSent} {
		t.Run("locked when "+string(status), func(t *testing.T) {
			uc, repo, _ := newBudgetUseCase(t)
			repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(status), nil)

			_, err := uc.UpdateField(context.Background(), "bud-1", 0, "menu.totalPersons", 10)
			if !errors.Is(err, ErrBudgetLocked) {
				t.Fatalf("expected ErrBudgetLocked, got %v", err)
			}
		})
	}

	t.Run("stale expected version", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)

		_, err := uc.UpdateField(context.Background(), "bud-1", 3, "menu.totalPersons", 10)
		if !errors.Is(err, ErrBudgetVersionConflict) {
			t.Fatalf("expected ErrBudgetVersionConflict, got %v", err)
		}
	})

	t.Run("conflict on save", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(entities.Budget{}, interfaces.ErrVersionConflict)

		_, err := uc.UpdateField(context.Background(), "bud-1", 0, "menu.totalPersons", 10)
		if !errors.Is(err, ErrBudgetVersionConflict) {
			t.Fatalf("expected ErrBudgetVersionConflict, got %v", err)
		}
	})

	t.Run("save error", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(entities.Budget{}, errors.New("db"))

		_, err := uc.UpdateField(context.Background(), "bud-1", 0, "menu.totalPersons", 10)
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(entities.Budget{}, nil)

		_, err := uc.AddMaterialItem(context.Background(), "bud-1", 0, entities.MaterialItem{Name: "x"})
		if !errors.Is(err, ErrBudgetNotFound) {
			t.Fatalf("expected ErrBudgetNotFound, got %v", err)
		}
	})
}

func TestBudgetUseCase_StatusWorkflow(t *testing.T) {
	cases := []struct {
		name string
		from entities.BudgetStatus
		to   entities.BudgetStatus
		run  func(*BudgetUseCase) (entities.Budget, error)
	}{
		{"submit", entities.BudgetStatusDraft, entities.BudgetStatusPendingReview, func(u *BudgetUseCase) (entities.Budget, error) {
			return u.SubmitForReview(context.Background(), "bud-1")
		}},
		{"approve", entities.BudgetStatusPendingReview, entities.BudgetStatusApproved, func(u *BudgetUseCase) (entities.Budget, error) {
			return u.Approve(context.Background(), "bud-1")
		}},
		{"reject", entities.BudgetStatusPendingReview, entities.BudgetStatusRejected, func(u *BudgetUseCase) (entities.Budget, error) {
			return u.Reject(context.Background(), "bud-1")
		}},
		{"send", entities.BudgetStatusApproved, entities.BudgetStatusSent, func(u *BudgetUseCase) (entities.Budget, error) {
			return u.MarkSent(context.Background(), "bud-1", "")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, repo, _ := newBudgetUseCase(t)
			repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(tc.from), nil)
			repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(saveEcho)

			res, err := tc.run(uc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != tc.to {
				t.Fatalf("expected %s, got %s", tc.to, res.Status)
			}
		})

		t.Run(tc.name+" from wrong status", func(t *testing.T) {
			uc, repo, _ := newBudgetUseCase(t)
			repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusSent), nil)

			if _, err := tc.run(uc); !errors.Is(err, ErrInvalidStatusTransition) {
				t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
			}
		})
	}

	t.Run("send records pdf url", func(t *testing.T) {
		uc, repo, _ := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusApproved), nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(saveEcho)

		res, err := uc.MarkSent(context.Background(), "bud-1", " https://files.example.com/bud-1.pdf ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.PDFURL != "https://files.example.com/bud-1.pdf" {
			t.Fatalf("unexpected pdf url %q", res.PDFURL)
		}
	})
}

func TestBudgetUseCase_Export(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc, repo, exporter := newBudgetUseCase(t)
		b := storedDraft(entities.BudgetStatusApproved)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(b, nil)
		exporter.EXPECT().Export(b).Return([]byte("xlsx"), nil)
		exporter.EXPECT().FileExtension().Return("xlsx")
		exporter.EXPECT().ContentType().Return("application/test")

		res, err := uc.Export(context.Background(), "bud-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.FileName != "budget-bud-1.xlsx" || res.ContentType != "application/test" || string(res.Content) != "xlsx" {
			t.Fatalf("unexpected export: %+v", res)
		}
	})

	t.Run("exporter error", func(t *testing.T) {
		uc, repo, exporter := newBudgetUseCase(t)
		repo.EXPECT().GetByID(gomock.Any(), "bud-1").Return(storedDraft(entities.BudgetStatusDraft), nil)
		exporter.EXPECT().Export(gomock.Any()).Return(nil, errors.New("render"))

		if _, err := uc.Export(context.Background(), "bud-1"); err == nil || err.Error() != "render" {
			t.Fatalf("expected render error, got %v", err)
		}
	})

	t.Run("no exporter", func(t *testing.T) {
		uc := NewBudgetUseCase(nil, nil, quietLogger())
		if _, err := uc.Export(context.Background(), "bud-1"); !errors.Is(err, ErrExporterNotConfigured) {
			t.Fatalf("expected ErrExporterNotConfigured, got %v", err)
		}
	})
}
