package request

import (
	"strings"

	"catering_admin/internal/domain/budget"
	"catering_admin/internal/domain/entities"
)

type ClientInfoRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
	EventDate  string `json:"eventDate"`
	EventType  string `json:"eventType"`
	GuestCount int    `json:"guestCount" binding:"gte=0"`
	Address    string `json:"address"`
	MenuType   string `json:"menuType" binding:"omitempty,oneof=standard premium"`
}

func (r ClientInfoRequest) ToEntity() entities.ClientInfo {
	return entities.ClientInfo{
		Name:       strings.TrimSpace(r.Name),
		Email:      strings.TrimSpace(r.Email),
		Phone:      strings.TrimSpace(r.Phone),
		EventDate:  strings.TrimSpace(r.EventDate),
		EventType:  strings.TrimSpace(r.EventType),
		GuestCount: r.GuestCount,
		Address:    strings.TrimSpace(r.Address),
		MenuType:   entities.MenuType(r.MenuType),
	}
}

type MenuRequest struct {
	PricePerPerson float64 `json:"pricePerPerson" binding:"gte=0"`
	TotalPersons   int     `json:"totalPersons" binding:"gte=0"`
	TVAPct         float64 `json:"tvaPct" binding:"gte=0,lte=100"`
}

func (r MenuRequest) ToEntity() entities.MenuSection {
	return entities.MenuSection{PricePerPerson: r.PricePerPerson, TotalPersons: r.TotalPersons, TVAPct: r.TVAPct}
}

// CreateBudgetRequest opens a draft budget. Optional sections are added later.
type CreateBudgetRequest struct {
	ClientInfo ClientInfoRequest `json:"clientInfo"`
	Menu       MenuRequest       `json:"menu"`
}

// UpdateClientRequest replaces the client block of a budget.
type UpdateClientRequest struct {
	ClientInfo ClientInfoRequest `json:"clientInfo"`
	Version    int               `json:"version" binding:"gte=0"`
}

// UpdateFieldRequest sets one leaf, addressed by a dotted path such as
// "menu.pricePerPerson" or "totals.discount.reason".
type UpdateFieldRequest struct {
	Path    string `json:"path" binding:"required"`
	Value   any    `json:"value"`
	Version int    `json:"version" binding:"gte=0"`
}

// AddSectionRequest is optional: an empty body adds the section with its
// canonical defaults.
type AddSectionRequest struct {
	Defaults map[string]any `json:"defaults"`
	Version  int            `json:"version" binding:"gte=0"`
}

type MaterialItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"gte=0"`
	PricePerUnit float64 `json:"pricePerUnit" binding:"gte=0"`
	Version      int     `json:"version" binding:"gte=0"`
}

func (r MaterialItemRequest) ToEntity() entities.MaterialItem {
	return entities.MaterialItem{Name: strings.TrimSpace(r.Name), Quantity: r.Quantity, PricePerUnit: r.PricePerUnit}
}

// MaterialItemPatchRequest changes only the fields that are sent.
type MaterialItemPatchRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1"`
	Quantity     *float64 `json:"quantity" binding:"omitempty,gte=0"`
	PricePerUnit *float64 `json:"pricePerUnit" binding:"omitempty,gte=0"`
	Version      int      `json:"version" binding:"gte=0"`
}

func (r MaterialItemPatchRequest) ToPatch() budget.MaterialItemPatch {
	return budget.MaterialItemPatch{Name: r.Name, Quantity: r.Quantity, PricePerUnit: r.PricePerUnit}
}

type SendBudgetRequest struct {
	PDFURL string `json:"pdfUrl" binding:"omitempty,url"`
}
