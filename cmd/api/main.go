package main

import (
	_ "catering_admin/docs"
	"catering_admin/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Catering Budget Admin API
// @version         1.0
// @description     Back-office for catering budgets (devis): editing, review workflow, export and payments. Backed by DynamoDB.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run()
}
