package handler

import (
	"github.com/daniel1743/finanza-suite-sub000/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, userMiddleware *middleware.UserMiddleware, rateLimiter *middleware.RateLimiter, statusHandler *StatusHandler, transactionHandler *TransactionHandler, budgetHandler *BudgetHandler, goalHandler *GoalHandler, recurringHandler *RecurringHandler, insightsHandler *InsightsHandler, wsHandler *WebSocketHandler) {
	api := e.Group("/api")

	// Status route (public)
	api.GET("/status", statusHandler.GetStatus)

	// Everything else requires an identified user
	identified := []echo.MiddlewareFunc{
		userMiddleware.Identify(),
		middleware.RateLimitMiddleware(rateLimiter),
	}

	// Transaction routes
	transactions := api.Group("/transactions", identified...)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := api.Group("/budgets", identified...)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Goal routes
	goals := api.Group("/goals", identified...)
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contributions", goalHandler.Contribute)
	goals.GET("/:id/contributions", goalHandler.GetContributions)
	goals.GET("/:id/projection", insightsHandler.GetGoalProjection)
	goals.GET("/:id/scenarios", insightsHandler.GetGoalScenarios)

	// Recurring expense routes
	recurring := api.Group("/recurring", identified...)
	recurring.POST("", recurringHandler.CreateRecurringExpense)
	recurring.GET("", recurringHandler.GetRecurringExpenses)
	recurring.PUT("/:id", recurringHandler.UpdateRecurringExpense)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurringExpense)

	// Insight routes
	insights := api.Group("/insights", identified...)
	insights.GET("/alerts", insightsHandler.GetAlerts)
	insights.GET("/alerts/adjustments", insightsHandler.GetAdjustments)
	insights.GET("/health", insightsHandler.GetHealth)
	insights.GET("/recurring/impact", insightsHandler.GetRecurringImpact)
	insights.GET("/recurring/reminders", insightsHandler.GetReminders)
	insights.POST("/recurring/reminders/:key/dismiss", insightsHandler.DismissReminder)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.HandleWS)
}
