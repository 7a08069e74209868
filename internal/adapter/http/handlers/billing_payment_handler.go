package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	response "catering_admin/internal/adapter/http/dto/response"
	"catering_admin/internal/usecase"
	"catering_admin/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BillingPaymentHandler handles HTTP requests for budget payments.
type BillingPaymentHandler struct {
	usecase  usecase.IBillingPaymentUseCase
	mockMode bool
	logger   *logrus.Logger
}

func NewBillingPaymentHandler(uc usecase.IBillingPaymentUseCase, mockMode bool, logger *logrus.Logger) *BillingPaymentHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &BillingPaymentHandler{usecase: uc, mockMode: mockMode, logger: logger}
}

// CreatePaymentByBudgetID records a payment for the budget in the path.
//
// @Summary      Pay an approved budget
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        budget_id path string true "Budget ID"
// @Param        body body object true "Provider payload, raw or wrapped in provider_payload"
// @Success      200 {object} response.BillingPaymentResponse "OK"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      409 {object} pkg.HTTPError "Conflict"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /payments/{budget_id} [post]
func (h *BillingPaymentHandler) CreatePaymentByBudgetID(c *gin.Context) {
	budgetID := c.Param("budget_id")
	log := h.logger.WithFields(logrus.Fields{"module": "payment.handler", "budget_id": budgetID})
	log.Info("[payment][handler] create start")

	payload, err := readProviderPayload(c)
	if err != nil {
		if !h.mockMode {
			log.WithError(err).Warn("[payment][handler] invalid payload")
			appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		log.WithError(err).Info("[payment][handler] payload invalid in mock mode; fallback to empty payload")
		payload = json.RawMessage("{}")
	}

	created, err := h.usecase.CreateAndApprove(c.Request.Context(), budgetID, payload)
	if err != nil {
		log.WithError(err).Warn("[payment][handler] create failed")
		appErr := mapBillingPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.WithFields(logrus.Fields{"payment_id": created.ID, "status": created.Status}).Info("[payment][handler] create success")

	c.JSON(http.StatusOK, response.FromBillingPayment(created))
}

// GetPaymentByBudgetID returns the latest payment recorded for a budget.
//
// @Summary      Latest payment of a budget
// @Tags         payments
// @Produce      json
// @Param        budget_id path string true "Budget ID"
// @Success      200 {object} response.BillingPaymentResponse "OK"
// @Failure      400 {object} pkg.HTTPError "Bad Request"
// @Failure      404 {object} pkg.HTTPError "Not Found"
// @Failure      500 {object} pkg.HTTPError "Internal Server Error"
// @Router       /payments/{budget_id} [get]
func (h *BillingPaymentHandler) GetPaymentByBudgetID(c *gin.Context) {
	budgetID := c.Param("budget_id")
	log := h.logger.WithFields(logrus.Fields{"module": "payment.handler", "budget_id": budgetID})

	payments, err := h.usecase.ListByBudgetID(c.Request.Context(), budgetID)
	if err != nil {
		log.WithError(err).Warn("[payment][handler] get-by-budget failed")
		appErr := mapBillingPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	if len(payments) == 0 {
		appErr := pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	latest := payments[0]
	for _, p := range payments[1:] {
		if p.Date.After(latest.Date) {
			latest = p
		}
	}
	c.JSON(http.StatusOK, response.FromBillingPayment(latest))
}

// readProviderPayload accepts either the raw provider payload or a
// {"provider_payload": {...}} envelope. An empty body is an empty payload.
func readProviderPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if wrapped, ok := envelope["provider_payload"]; ok {
			if v := strings.TrimSpace(string(wrapped)); v == "" || v == "null" {
				return nil, errors.New("provider_payload cannot be empty")
			}
			return wrapped, nil
		}
	}

	return json.RawMessage(raw), nil
}

func mapBillingPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentBudgetID), errors.Is(err, usecase.ErrInvalidPaymentID), errors.Is(err, usecase.ErrInvalidProviderPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrBudgetNotFound):
		return pkg.NewDomainErrorSimple("BUDGET_NOT_FOUND", "Budget not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrBudgetNotPayable):
		return pkg.NewDomainErrorSimple("BUDGET_NOT_APPROVED", "Budget not approved", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentAlreadyRecorded):
		return pkg.NewDomainErrorSimple("PAYMENT_ALREADY_RECORDED", "Payment already recorded", http.StatusConflict)
	case errors.Is(err, usecase.ErrBillingPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
