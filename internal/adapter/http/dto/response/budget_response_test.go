package response

import (
	"encoding/json"
	"strings"
	"testing"

	"catering_admin/internal/domain/entities"
)

func TestFromBudget_HidesStaffLines(t *testing.T) {
	b := entities.Budget{
		ID:     "bud-1",
		Status: entities.BudgetStatusDraft,
		Material: &entities.MaterialSection{Items: []entities.MaterialItem{
			{Name: "Serveurs", Quantity: 2, PricePerUnit: 100, Total: 200},
			{Name: "Chaises", Quantity: 50, PricePerUnit: 1.5, Total: 75},
		}},
	}

	res := FromBudget(b)
	if len(res.VisibleMaterialItems) != 1 {
		t.Fatalf("expected one visible item, got %+v", res.VisibleMaterialItems)
	}
	if got := res.VisibleMaterialItems[0]; got.Index != 0 || got.Name != "Chaises" || got.Total != 75 {
		t.Fatalf("unexpected item: %+v", got)
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"budget":{`) || !strings.Contains(string(data), `"visibleMaterialItems":[`) {
		t.Fatalf("unexpected body: %s", data)
	}
}

func TestFromBudget_NoMaterial(t *testing.T) {
	res := FromBudget(entities.Budget{ID: "bud-1"})
	if res.VisibleMaterialItems == nil || len(res.VisibleMaterialItems) != 0 {
		t.Fatalf("expected empty, non-nil list")
	}
}

func TestFromBudgetList(t *testing.T) {
	res := FromBudgetList([]entities.Budget{{
		ID:         "bud-1",
		ClientInfo: entities.ClientInfo{Name: "Durand", EventDate: "2026-06-20"},
		Status:     entities.BudgetStatusSent,
		Totals:     entities.BudgetTotals{TotalTTC: 2290},
		Version:    3,
	}})
	if len(res) != 1 {
		t.Fatalf("expected one summary")
	}
	if got := res[0]; got.ClientName != "Durand" || got.Status != "sent" || got.TotalTTC != 2290 || got.Version != 3 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}
