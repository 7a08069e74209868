package config

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "AWS_REGION", "DYNAMODB_ENDPOINT", "BUDGETS_TABLE", "PAYMENTS_TABLE", "PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK", "MERCADOPAGO_ACCESS_TOKEN"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8080 || cfg.LogLevel != "info" || cfg.AWSRegion != "us-east-1" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.BudgetsTable != "budgets" || cfg.PaymentsTable != "payments" {
		t.Fatalf("unexpected table defaults: %+v", cfg)
	}
	if cfg.PaymentGatewayMock {
		t.Fatalf("mock mode must be off by default")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BUDGETS_TABLE", "budgets-test")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")
	t.Setenv("MERCADOPAGO_MOCK", " Yes ")
	t.Setenv("MERCADOPAGO_ACCESS_TOKEN", " TEST-123 ")

	cfg := Load()

	if cfg.Port != 9090 || cfg.BudgetsTable != "budgets-test" || cfg.DynamoDBEndpoint != "http://localhost:8000" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.PaymentGatewayMock {
		t.Fatalf("expected mock mode from MERCADOPAGO_MOCK")
	}
	if cfg.MercadoPagoAccessToken != "TEST-123" {
		t.Fatalf("expected trimmed token, got %q", cfg.MercadoPagoAccessToken)
	}
}

func TestLoad_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "abc")
	if got := Load().Port; got != 8080 {
		t.Fatalf("expected 8080, got %d", got)
	}
}

func TestNewLogger(t *testing.T) {
	if got := NewLogger("debug").GetLevel(); got != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", got)
	}
	if got := NewLogger("nonsense").GetLevel(); got != logrus.InfoLevel {
		t.Fatalf("expected info fallback, got %s", got)
	}
}
