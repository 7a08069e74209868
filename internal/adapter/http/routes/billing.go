package routes

import (
	"catering_admin/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathBudgets  = "/budgets"
	PathPayments = "/payments"
)

func addBudgetRoutes(rg *gin.RouterGroup, h *handlers.BudgetHandler) {
	budgets := rg.Group(PathBudgets)
	{
		budgets.POST("", h.CreateBudget)
		budgets.GET("", h.ListBudgets)
		budgets.GET("/:id", h.GetBudget)
		budgets.GET("/:id/export", h.ExportBudget)

		// Editing. Each write answers with the recomputed budget.
		budgets.PATCH("/:id/fields", h.UpdateField)
		budgets.PUT("/:id/client", h.UpdateClientInfo)
		budgets.POST("/:id/sections/:section", h.AddSection)
		budgets.DELETE("/:id/sections/:section", h.RemoveSection)
		budgets.POST("/:id/material/items", h.AddMaterialItem)
		budgets.PATCH("/:id/material/items/:index", h.UpdateMaterialItem)
		budgets.DELETE("/:id/material/items/:index", h.RemoveMaterialItem)

		// Workflow.
		budgets.POST("/:id/submit", h.SubmitBudget)
		budgets.POST("/:id/approve", h.ApproveBudget)
		budgets.POST("/:id/reject", h.RejectBudget)
		budgets.POST("/:id/send", h.SendBudget)
	}
}

func addPaymentRoutes(rg *gin.RouterGroup, h *handlers.BillingPaymentHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("/:budget_id", h.CreatePaymentByBudgetID)
		payments.GET("/:budget_id", h.GetPaymentByBudgetID)
	}
}
