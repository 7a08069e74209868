package response

import (
	"time"

	"catering_admin/internal/domain/budget"
	"catering_admin/internal/domain/entities"
)

// MaterialItemResponse is a material line as the editor shows it. Index is the
// position to use on the item routes.
type MaterialItemResponse struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Total        float64 `json:"total"`
}

// BudgetResponse carries the recomputed document plus the material lines the
// editor may address. Staff lines never show up in VisibleMaterialItems.
type BudgetResponse struct {
	Budget               entities.Budget        `json:"budget"`
	VisibleMaterialItems []MaterialItemResponse `json:"visibleMaterialItems"`
}

func FromBudget(b entities.Budget) BudgetResponse {
	visible := budget.VisibleMaterialItems(b)
	items := make([]MaterialItemResponse, 0, len(visible))
	for i, it := range visible {
		items = append(items, MaterialItemResponse{
			Index:        i,
			Name:         it.Name,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
			Total:        it.Total,
		})
	}
	return BudgetResponse{Budget: b, VisibleMaterialItems: items}
}

type BudgetSummaryResponse struct {
	ID         string    `json:"id"`
	ClientName string    `json:"clientName"`
	EventDate  string    `json:"eventDate,omitempty"`
	Status     string    `json:"status"`
	TotalTTC   float64   `json:"totalTTC"`
	Version    int       `json:"version"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func FromBudgetList(budgets []entities.Budget) []BudgetSummaryResponse {
	out := make([]BudgetSummaryResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, BudgetSummaryResponse{
			ID:         b.ID,
			ClientName: b.ClientInfo.Name,
			EventDate:  b.ClientInfo.EventDate,
			Status:     string(b.Status),
			TotalTTC:   b.Totals.TotalTTC,
			Version:    b.Version,
			UpdatedAt:  b.UpdatedAt,
		})
	}
	return out
}
