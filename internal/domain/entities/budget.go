package entities

import (
	"encoding/json"
	"time"
)

// BudgetStatus represents the lifecycle of a catering budget (devis).
//
// Transitions are driven by the approval workflow:
//
//	draft -> pending_review -> approved -> sent
//	                        \-> rejected -> draft
type BudgetStatus string

const (
	BudgetStatusDraft         BudgetStatus = "draft"
	BudgetStatusPendingReview BudgetStatus = "pending_review"
	BudgetStatusApproved      BudgetStatus = "approved"
	BudgetStatusSent          BudgetStatus = "sent"
	BudgetStatusRejected      BudgetStatus = "rejected"
)

func (s BudgetStatus) Valid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusPendingReview, BudgetStatusApproved, BudgetStatusSent, BudgetStatusRejected:
		return true
	}
	return false
}

type MenuType string

const (
	MenuTypeStandard MenuType = "standard"
	MenuTypePremium  MenuType = "premium"
)

func (m MenuType) Valid() bool {
	return m == "" || m == MenuTypeStandard || m == MenuTypePremium
}

// Extra holds document keys this service does not model. They are written
// back untouched on save.
type Extra map[string]json.RawMessage

func (e Extra) clone() Extra {
	if e == nil {
		return nil
	}
	out := make(Extra, len(e))
	for k, v := range e {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

type ClientInfo struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	EventDate  string   `json:"eventDate"`
	EventType  string   `json:"eventType"`
	GuestCount int      `json:"guestCount"`
	Address    string   `json:"address"`
	MenuType   MenuType `json:"menuType"`

	Extra Extra `json:"-"`
}

type MenuSection struct {
	PricePerPerson float64 `json:"pricePerPerson"`
	TotalPersons   int     `json:"totalPersons"`
	TVAPct         float64 `json:"tvaPct"`
	TotalHT        float64 `json:"totalHT"`
	TVA            float64 `json:"tva"`
	TotalTTC       float64 `json:"totalTTC"`

	Extra Extra `json:"-"`
}

type ServiceSection struct {
	Mozos        int     `json:"mozos"`
	Hours        int     `json:"hours"`
	PricePerHour float64 `json:"pricePerHour"`
	TVAPct       float64 `json:"tvaPct"`
	TotalHT      float64 `json:"totalHT"`
	TVA          float64 `json:"tva"`
	TotalTTC     float64 `json:"totalTTC"`

	Extra Extra `json:"-"`
}

type MaterialItem struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Total        float64 `json:"total"`

	Extra Extra `json:"-"`
}

type MaterialSection struct {
	Items    []MaterialItem `json:"items"`
	TVAPct   float64        `json:"tvaPct"`
	TotalHT  float64        `json:"totalHT"`
	TVA      float64        `json:"tva"`
	TotalTTC float64        `json:"totalTTC"`

	Extra Extra `json:"-"`
}

type DeplacementSection struct {
	Distance   float64 `json:"distance"`
	PricePerKm float64 `json:"pricePerKm"`
	TVAPct     float64 `json:"tvaPct"`
	TotalHT    float64 `json:"totalHT"`
	TVA        float64 `json:"tva"`
	TotalTTC   float64 `json:"totalTTC"`

	Extra Extra `json:"-"`
}

// Discount is informational: it is stored and displayed but never subtracted
// from the totals.
type Discount struct {
	Reason     string  `json:"reason"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`

	Extra Extra `json:"-"`
}

type BudgetTotals struct {
	TotalHT  float64   `json:"totalHT"`
	TotalTVA float64   `json:"totalTVA"`
	TotalTTC float64   `json:"totalTTC"`
	Discount *Discount `json:"discount,omitempty"`

	Extra Extra `json:"-"`
}

// Budget is the catering budget document persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - version is owned by the repository (optimistic concurrency)
//
// Optional sections are nil when absent. Menu is always present.
type Budget struct {
	ID          string              `json:"id,omitempty"`
	ClientInfo  ClientInfo          `json:"clientInfo"`
	Menu        MenuSection         `json:"menu"`
	Service     *ServiceSection     `json:"service,omitempty"`
	Material    *MaterialSection    `json:"material,omitempty"`
	Deplacement *DeplacementSection `json:"deplacement,omitempty"`
	Totals      BudgetTotals        `json:"totals"`
	Status      BudgetStatus        `json:"status"`
	Version     int                 `json:"version"`
	PDFURL      string              `json:"pdfUrl,omitempty"`
	CreatedAt   time.Time           `json:"createdAt,omitempty"`
	UpdatedAt   time.Time           `json:"updatedAt,omitempty"`

	Extra Extra `json:"-"`
}

// Clone returns a deep copy; mutations on the copy never reach b.
func (b Budget) Clone() Budget {
	out := b
	out.Extra = b.Extra.clone()
	out.ClientInfo.Extra = b.ClientInfo.Extra.clone()
	out.Menu.Extra = b.Menu.Extra.clone()
	if b.Service != nil {
		s := *b.Service
		s.Extra = b.Service.Extra.clone()
		out.Service = &s
	}
	if b.Material != nil {
		m := *b.Material
		m.Extra = b.Material.Extra.clone()
		if b.Material.Items != nil {
			m.Items = make([]MaterialItem, len(b.Material.Items))
			for i, it := range b.Material.Items {
				it.Extra = it.Extra.clone()
				m.Items[i] = it
			}
		}
		out.Material = &m
	}
	if b.Deplacement != nil {
		d := *b.Deplacement
		d.Extra = b.Deplacement.Extra.clone()
		out.Deplacement = &d
	}
	out.Totals.Extra = b.Totals.Extra.clone()
	if b.Totals.Discount != nil {
		d := *b.Totals.Discount
		d.Extra = b.Totals.Discount.Extra.clone()
		out.Totals.Discount = &d
	}
	return out
}
