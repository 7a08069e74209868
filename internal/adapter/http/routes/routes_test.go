package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"catering_admin/internal/adapter/http/handlers"
	"catering_admin/internal/adapter/http/handlers/mocks"
	"catering_admin/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockIBudgetUseCase, *mocks.MockIBillingPaymentUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctrl := gomock.NewController(t)
	budgetUC := mocks.NewMockIBudgetUseCase(ctrl)
	paymentUC := mocks.NewMockIBillingPaymentUseCase(ctrl)
	router := NewRouter(
		handlers.NewBudgetHandler(budgetUC, logger),
		handlers.NewBillingPaymentHandler(paymentUC, false, logger),
		logger,
	)
	return router, budgetUC, paymentUC
}

func TestNewRouter_Ping(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestNewRouter_RegistersBudgetAndPaymentRoutes(t *testing.T) {
	router, budgetUC, paymentUC := newTestRouter(t)
	budgetUC.EXPECT().List(gomock.Any()).Return([]entities.Budget{}, nil)
	budgetUC.EXPECT().SubmitForReview(gomock.Any(), "bud-1").Return(entities.Budget{ID: "bud-1", Status: entities.BudgetStatusPendingReview}, nil)
	paymentUC.EXPECT().ListByBudgetID(gomock.Any(), "bud-1").Return(nil, nil)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/v1/budgets", http.StatusOK},
		{http.MethodPost, "/v1/budgets/bud-1/submit", http.StatusOK},
		{http.MethodGet, "/v1/payments/bud-1", http.StatusNotFound},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.status, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestNewRouter_ServesSwaggerDocument(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/budgets/{id}/export"`)
	assert.Contains(t, w.Body.String(), `"/payments/{budget_id}"`)
}
