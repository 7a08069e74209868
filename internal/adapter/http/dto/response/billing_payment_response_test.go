package response

import (
	"encoding/json"
	"testing"
	"time"

	"catering_admin/internal/domain/entities"
)

func TestFromBillingPayment(t *testing.T) {
	now := time.Now().UTC()
	payload := map[string]any{"a": "b"}
	raw := json.RawMessage(`{"id":123}`)

	p := entities.BillingPayment{
		ID:                 "pay-1",
		BudgetID:           "bud-1",
		Amount:             2290,
		Date:               now,
		Status:             entities.PaymentStatusApproved,
		ProviderPayloadRaw: raw,
		ProviderPayload:    payload,
	}

	res := FromBillingPayment(p)
	if res.PaymentID != "pay-1" || res.BudgetID != "bud-1" || res.Amount != 2290 {
		t.Fatalf("unexpected fields: %+v", res)
	}
	if res.Status != "approved" {
		t.Fatalf("unexpected status: %s", res.Status)
	}
	if !res.PaymentDate.Equal(now) {
		t.Fatalf("unexpected date: %+v", res)
	}
	if res.ProviderPayloadRaw != string(raw) {
		t.Fatalf("unexpected raw payload: %s", res.ProviderPayloadRaw)
	}
	if res.ProviderPayload["a"] != "b" {
		t.Fatalf("unexpected parsed payload: %+v", res.ProviderPayload)
	}
}
