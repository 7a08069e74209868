package request

import "encoding/json"

// BillingPaymentCreateRequest is the payload for the "record a payment" route.
//
// `provider_payload` is forwarded as-is (raw JSON) to support varying Mercado Pago schemas.
type BillingPaymentCreateRequest struct {
	ProviderPayload json.RawMessage `json:"provider_payload"`
}
