package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"catering_admin/internal/domain/entities"
	"catering_admin/internal/usecase/interfaces"

	"github.com/sirupsen/logrus"
)

var (
	ErrBillingPaymentNotFound         = errors.New("billing payment not found")
	ErrPaymentAlreadyRecorded         = errors.New("payment already recorded")
	ErrInvalidPaymentID               = errors.New("invalid payment id")
	ErrInvalidPaymentBudgetID         = errors.New("invalid budget_id")
	ErrInvalidProviderPayload         = errors.New("invalid payment provider payload")
	ErrBudgetNotPayable               = errors.New("budget is not approved")
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// IBillingPaymentUseCase records client payments against approved budgets.
type IBillingPaymentUseCase interface {
	CreateAndApprove(ctx context.Context, budgetID string, payload json.RawMessage) (entities.BillingPayment, error)
	GetByID(ctx context.Context, id string) (entities.BillingPayment, error)
	ListByBudgetID(ctx context.Context, budgetID string) ([]entities.BillingPayment, error)
}

// PaymentSettings tunes how provider payloads are checked and enriched.
//
// In mock mode the payload is not required to carry a payment method or
// payer. The sandbox fields only apply with a TEST- access token.
type PaymentSettings struct {
	MockMode           bool
	AccessToken        string
	SandboxPayerEmail  string
	SandboxPayerUserID string
}

func (s PaymentSettings) sandbox() bool {
	return strings.HasPrefix(s.AccessToken, "TEST-")
}

type BillingPaymentUseCase struct {
	repo       interfaces.IBillingPaymentRepository
	budgetRepo interfaces.IBudgetRepository
	gateway    interfaces.IPaymentGateway
	settings   PaymentSettings
	logger     *logrus.Logger
	now        func() time.Time
}

var _ IBillingPaymentUseCase = (*BillingPaymentUseCase)(nil)

func NewBillingPaymentUseCase(repo interfaces.IBillingPaymentRepository, budgetRepo interfaces.IBudgetRepository, gateway interfaces.IPaymentGateway, settings PaymentSettings, logger *logrus.Logger) *BillingPaymentUseCase {
	if logger == nil {
		logger = logrus.New()
	}
	return &BillingPaymentUseCase{
		repo:       repo,
		budgetRepo: budgetRepo,
		gateway:    gateway,
		settings:   settings,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (u *BillingPaymentUseCase) CreateAndApprove(ctx context.Context, budgetID string, payload json.RawMessage) (entities.BillingPayment, error) {
	budgetID = strings.TrimSpace(budgetID)
	log := u.logger.WithFields(logrus.Fields{"module": "payment.usecase", "budget_id": budgetID, "payload_len": len(payload)})
	log.Info("[payment][usecase] create-and-approve start")

	if budgetID == "" {
		return entities.BillingPayment{}, ErrInvalidPaymentBudgetID
	}
	if len(payload) == 0 || !json.Valid(payload) {
		if !u.settings.MockMode {
			log.Warn("[payment][usecase] invalid payload")
			return entities.BillingPayment{}, ErrInvalidProviderPayload
		}
		payload = json.RawMessage("{}")
	}
	if u.gateway == nil {
		return entities.BillingPayment{}, ErrPaymentGatewayNotConfigured
	}

	b, err := u.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		log.WithError(err).Error("[payment][usecase] failed loading budget")
		return entities.BillingPayment{}, err
	}
	if b.ID == "" {
		return entities.BillingPayment{}, ErrBudgetNotFound
	}
	if b.Status != entities.BudgetStatusApproved && b.Status != entities.BudgetStatusSent {
		log.WithField("status", b.Status).Info("[payment][usecase] budget not payable")
		return entities.BillingPayment{}, ErrBudgetNotPayable
	}
	amount := b.Totals.TotalTTC

	var req map[string]any
	if err := json.Unmarshal(payload, &req); err != nil || req == nil {
		log.Warn("[payment][usecase] payload is not an object")
		return entities.BillingPayment{}, ErrInvalidProviderPayload
	}
	if !u.settings.MockMode {
		if !hasNonEmptyString(req, "payment_method_id") {
			log.Warn("[payment][usecase] missing payment_method_id")
			return entities.BillingPayment{}, ErrInvalidProviderPayload
		}
		u.normalizeSandboxPayer(req)
		u.ensurePayerDefaults(req)
		if !hasPayer(req) {
			log.Warn("[payment][usecase] missing or invalid payer")
			return entities.BillingPayment{}, ErrInvalidProviderPayload
		}
	}

	if _, ok := req["external_reference"]; !ok {
		req["external_reference"] = budgetID
	}
	if _, ok := req["description"]; !ok {
		req["description"] = fmt.Sprintf("Budget %s", budgetID)
	}
	// The stored budget is the only source for the amount.
	req["transaction_amount"] = amount
	enriched, err := json.Marshal(req)
	if err != nil {
		return entities.BillingPayment{}, err
	}

	providerID, providerStatus, providerResp, err := u.gateway.CreatePayment(ctx, enriched)
	if err != nil {
		log.WithError(err).Error("[payment][usecase] payment gateway failed")
		return entities.BillingPayment{}, mapGatewayError(err)
	}
	log = log.WithFields(logrus.Fields{"provider_payment_id": providerID, "provider_status": providerStatus})

	var parsed map[string]any
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.WithError(err).Warn("[payment][usecase] provider response unmarshal failed")
	}

	created, err := u.repo.Create(ctx, entities.BillingPayment{
		ID:                 providerID,
		BudgetID:           budgetID,
		Amount:             amount,
		Date:               u.now(),
		Status:             paymentStatusFromProvider(providerStatus),
		ProviderPayloadRaw: providerResp,
		ProviderPayload:    parsed,
	})
	if err != nil {
		log.WithError(err).Error("[payment][usecase] payment repository create failed")
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			return entities.BillingPayment{}, ErrPaymentAlreadyRecorded
		}
		return entities.BillingPayment{}, err
	}
	log.WithField("status", created.Status).Info("[payment][usecase] create-and-approve success")
	return created, nil
}

func (u *BillingPaymentUseCase) GetByID(ctx context.Context, id string) (entities.BillingPayment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.BillingPayment{}, ErrInvalidPaymentID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	if p.ID == "" {
		return entities.BillingPayment{}, ErrBillingPaymentNotFound
	}
	return p, nil
}

func (u *BillingPaymentUseCase) ListByBudgetID(ctx context.Context, budgetID string) ([]entities.BillingPayment, error) {
	budgetID = strings.TrimSpace(budgetID)
	if budgetID == "" {
		return nil, ErrInvalidPaymentBudgetID
	}
	return u.repo.ListByBudgetID(ctx, budgetID)
}

func paymentStatusFromProvider(status string) entities.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved", "authorized":
		return entities.PaymentStatusApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return entities.PaymentStatusDenied
	}
	return entities.PaymentStatusPending
}

func mapGatewayError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "customer not found"), strings.Contains(msg, `"code":2002`):
		return ErrPaymentGatewayCustomerNotFound
	case strings.Contains(msg, "invalid users involved"), strings.Contains(msg, `"code":2034`):
		return ErrPaymentGatewayInvalidUsers
	case strings.Contains(msg, `"error":"unauthorized"`), strings.Contains(msg, `"status":401`):
		return ErrPaymentGatewayUnauthorized
	case strings.Contains(msg, `"error":"bad_request"`), strings.Contains(msg, `"status":400`):
		return ErrPaymentGatewayBadRequest
	}
	return err
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v)) != ""
}

func (u *BillingPaymentUseCase) ensurePayerDefaults(m map[string]any) {
	if m["payer"] == nil {
		m["payer"] = map[string]any{}
	}
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}

	// Sandbox accepts either payer.id or payer.email.
	if hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	switch {
	case u.settings.SandboxPayerEmail != "":
		payer["email"] = u.settings.SandboxPayerEmail
	case u.settings.sandbox():
		payer["email"] = "test_user_fr@testuser.com"
	}
}

// normalizeSandboxPayer swaps the configured sandbox user id for its email.
func (u *BillingPaymentUseCase) normalizeSandboxPayer(m map[string]any) {
	payer, ok := m["payer"].(map[string]any)
	if !ok || !hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	if !u.settings.sandbox() || u.settings.SandboxPayerUserID == "" || u.settings.SandboxPayerEmail == "" {
		return
	}
	if strings.TrimSpace(fmt.Sprintf("%v", payer["id"])) != u.settings.SandboxPayerUserID {
		return
	}

	payer["email"] = u.settings.SandboxPayerEmail
	delete(payer, "id")
	u.logger.WithField("module", "payment.usecase").Info("[payment][usecase] mapped sandbox payer user_id to payer.email")
}
