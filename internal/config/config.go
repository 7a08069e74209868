package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is the runtime configuration, read from the environment. A .env file
// is loaded beforehand by cmd/api through godotenv.
//
// Supported env vars (local-friendly defaults):
//   - PORT (default: 8080)
//   - LOG_LEVEL (default: info)
//   - AWS_REGION (default: us-east-1)
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY (default: local)
//   - DYNAMODB_ENDPOINT (optional; e.g. http://dynamodb:8000)
//   - BUDGETS_TABLE (default: budgets)
//   - PAYMENTS_TABLE (default: payments)
//   - MERCADOPAGO_ACCESS_TOKEN (optional)
//   - MERCADOPAGO_TEST_PAYER_EMAIL / MERCADOPAGO_TEST_PAYER_USER_ID (optional, sandbox only)
//   - PAYMENT_GATEWAY_MOCK / MERCADOPAGO_MOCK (optional)
type Config struct {
	Port     int
	LogLevel string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string
	BudgetsTable       string
	PaymentsTable      string

	MercadoPagoAccessToken     string
	MercadoPagoTestPayerEmail  string
	MercadoPagoTestPayerUserID string
	PaymentGatewayMock         bool
}

func Load() Config {
	return Config{
		Port:     getenvInt("PORT", 8080),
		LogLevel: getenvDefault("LOG_LEVEL", "info"),

		AWSRegion:          getenvDefault("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		AWSSecretAccessKey: getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		DynamoDBEndpoint:   os.Getenv("DYNAMODB_ENDPOINT"),
		BudgetsTable:       getenvDefault("BUDGETS_TABLE", "budgets"),
		PaymentsTable:      getenvDefault("PAYMENTS_TABLE", "payments"),

		MercadoPagoAccessToken:     strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")),
		MercadoPagoTestPayerEmail:  strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL")),
		MercadoPagoTestPayerUserID: strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_USER_ID")),
		PaymentGatewayMock:         isTruthy(os.Getenv("PAYMENT_GATEWAY_MOCK")) || isTruthy(os.Getenv("MERCADOPAGO_MOCK")),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}
