package routes

import (
	"database/sql"

	"github.com/cadizmarco/MoneyTracker/handlers"
	"github.com/cadizmarco/MoneyTracker/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/register", authHandler.Register)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
}

// SetupProtectedRoutes sets up everything behind the auth middleware.
func SetupProtectedRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	authHandler := &handlers.AuthHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	accountHandler := &handlers.AccountHandler{Service: services.NewAccountService(db), WS: ws}
	transactionHandler := &handlers.TransactionHandler{Service: services.NewTransactionService(db), WS: ws}
	budgetHandler := &handlers.BudgetHandler{Service: services.NewBudgetService(db), WS: ws}
	statsHandler := &handlers.StatsHandler{Service: services.NewStatsService(db)}

	rg.GET("/auth/me", authHandler.Me)

	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.PUT("/user/password", userHandler.ChangePassword)
	rg.DELETE("/user", userHandler.DeleteAccount)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)

	rg.GET("/accounts", accountHandler.GetAccounts)
	rg.GET("/accounts/:id", accountHandler.GetAccount)
	rg.POST("/accounts", accountHandler.CreateAccount)
	rg.PUT("/accounts/:id", accountHandler.UpdateAccount)
	rg.DELETE("/accounts/:id", accountHandler.DeleteAccount)

	rg.GET("/transactions", transactionHandler.GetTransactions)
	rg.GET("/transactions/export", transactionHandler.ExportTransactions)
	rg.GET("/transactions/:id", transactionHandler.GetTransaction)
	rg.POST("/transactions", transactionHandler.CreateTransaction)
	rg.PUT("/transactions/:id", transactionHandler.UpdateTransaction)
	rg.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

	rg.GET("/budgets", budgetHandler.GetBudgets)
	rg.GET("/budgets/:id", budgetHandler.GetBudget)
	rg.POST("/budgets", budgetHandler.CreateBudget)
	rg.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	rg.DELETE("/budgets/:id", budgetHandler.DeleteBudget)
	rg.PUT("/budgets/:id/spent", budgetHandler.RecomputeSpent)

	rg.GET("/stats/overview", statsHandler.GetOverview)

	rg.GET("/ws", ws.HandleWS)
}
