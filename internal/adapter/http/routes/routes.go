package routes

import (
	"context"
	"net/http"
	"strconv"
	"time"

	_ "catering_admin/docs" // swagger spec registration
	"catering_admin/internal/adapter/http/handlers"
	"catering_admin/internal/adapter/persistence/repository"
	"catering_admin/internal/config"
	"catering_admin/internal/infrastructure/database"
	"catering_admin/internal/infrastructure/export"
	"catering_admin/internal/infrastructure/payments"
	"catering_admin/internal/usecase"
	"catering_admin/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Run wires the application from the environment and starts the server.
func Run() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	budgetHandler, paymentHandler, err := buildHandlers(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to wire the application")
	}

	router := NewRouter(budgetHandler, paymentHandler, logger)
	logger.WithField("port", cfg.Port).Info("starting http server")
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		logger.WithError(err).Fatal("failed to startup the application")
	}
}

// NewRouter registers middlewares, swagger and the /v1 routes.
func NewRouter(budgetHandler *handlers.BudgetHandler, paymentHandler *handlers.BillingPaymentHandler, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, logger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addBudgetRoutes(v1, budgetHandler)
	addPaymentRoutes(v1, paymentHandler)
	return router
}

func buildHandlers(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*handlers.BudgetHandler, *handlers.BillingPaymentHandler, error) {
	ddb, err := database.ConnectDynamoDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	budgetRepo := repository.NewBudgetDynamoRepository(ddb, cfg.BudgetsTable)
	paymentRepo := repository.NewBillingPaymentDynamoRepository(ddb, cfg.PaymentsTable)

	var gateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.PaymentGatewayMock, logger)
	if err != nil {
		logger.WithError(err).Warn("mercado pago gateway not configured; payments are disabled")
	} else {
		gateway = mpGateway
	}

	budgetUseCase := usecase.NewBudgetUseCase(budgetRepo, export.NewBudgetXLSXExporter(), logger)
	paymentUseCase := usecase.NewBillingPaymentUseCase(paymentRepo, budgetRepo, gateway, usecase.PaymentSettings{
		MockMode:           cfg.PaymentGatewayMock,
		AccessToken:        cfg.MercadoPagoAccessToken,
		SandboxPayerEmail:  cfg.MercadoPagoTestPayerEmail,
		SandboxPayerUserID: cfg.MercadoPagoTestPayerUserID,
	}, logger)

	return handlers.NewBudgetHandler(budgetUseCase, logger),
		handlers.NewBillingPaymentHandler(paymentUseCase, cfg.PaymentGatewayMock, logger),
		nil
}

func setMiddlewares(router *gin.Engine, logger *logrus.Logger) {
	router.Use(requestLogger(logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithField("panic", recovered).Error("recovered from panic")
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"module":     "http",
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	}
}
