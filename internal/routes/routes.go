// Package routes собирает все HTTP маршруты приложения.
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/finance-ledger/internal/handlers"
	"github.com/valeriaulyamaeva/finance-ledger/internal/logger"
)

// SetupRouter регистрирует маршруты и возвращает готовый gin-роутер.
func SetupRouter(pool *pgxpool.Pool, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	users := r.Group("/api/users/:user_id")

	accounts := users.Group("/accounts")
	accounts.POST("", handlers.CreateAccountHandler(pool))
	accounts.GET("", handlers.GetAllAccountsHandler(pool))
	accounts.GET("/:id", handlers.GetAccountHandler(pool))
	accounts.PUT("/:id", handlers.UpdateAccountHandler(pool))
	accounts.DELETE("/:id", handlers.DeleteAccountHandler(pool))

	categories := users.Group("/categories")
	categories.POST("", handlers.CreateCategoryHandler(pool))
	categories.GET("", handlers.GetAllCategoriesHandler(pool))
	categories.PUT("/:id", handlers.UpdateCategoryHandler(pool))
	categories.DELETE("/:id", handlers.DeleteCategoryHandler(pool))

	transactions := users.Group("/transactions")
	transactions.POST("", handlers.CreateTransactionHandler(pool))
	transactions.GET("", handlers.GetAllTransactionsHandler(pool))
	transactions.GET("/:id", handlers.GetTransactionHandler(pool))
	transactions.PUT("/:id", handlers.UpdateTransactionHandler(pool))
	transactions.DELETE("/:id", handlers.DeleteTransactionHandler(pool))

	budgets := users.Group("/budgets")
	budgets.POST("", handlers.CreateBudgetHandler(pool))
	budgets.GET("", handlers.GetBudgetsHandler(pool))
	budgets.PUT("/:id", handlers.UpdateBudgetHandler(pool))
	budgets.DELETE("/:id", handlers.DeleteBudgetHandler(pool))

	goals := users.Group("/goals")
	goals.POST("", handlers.CreateGoalHandler(pool))
	goals.GET("", handlers.GetAllGoalsHandler(pool))
	goals.GET("/:id", handlers.GetGoalHandler(pool))
	goals.POST("/:id/contribute", handlers.ContributeToGoalHandler(pool))
	goals.POST("/:id/complete", handlers.CompleteGoalHandler(pool))
	goals.DELETE("/:id", handlers.DeleteGoalHandler(pool))

	recurring := users.Group("/recurring")
	recurring.POST("", handlers.CreateRecurringRuleHandler(pool))
	recurring.GET("", handlers.GetAllRecurringRulesHandler(pool))
	recurring.POST("/:id/execute", handlers.ExecuteRecurringRuleHandler(pool))
	recurring.POST("/:id/skip", handlers.SkipRecurringRuleHandler(pool))
	recurring.POST("/:id/toggle", handlers.ToggleRecurringRuleHandler(pool))
	recurring.PUT("/:id", handlers.UpdateRecurringRuleHandler(pool))
	recurring.DELETE("/:id", handlers.DeleteRecurringRuleHandler(pool))

	shortcuts := users.Group("/shortcuts")
	shortcuts.POST("", handlers.CreateShortcutHandler(pool))
	shortcuts.GET("", handlers.GetAllShortcutsHandler(pool))
	shortcuts.POST("/:id/run", handlers.RunShortcutHandler(pool))
	shortcuts.PUT("/:id", handlers.UpdateShortcutHandler(pool))
	shortcuts.DELETE("/:id", handlers.DeleteShortcutHandler(pool))

	users.GET("/settings", handlers.GetUserSettingsHandler(pool))
	users.PUT("/settings", handlers.UpdateUserSettingsHandler(pool))

	users.GET("/backup", handlers.ExportBackupHandler(pool))
	users.POST("/backup/restore", handlers.RestoreBackupHandler(pool))

	return r
}

// requestLogger кладет логгер в контекст запроса и пишет итоговую строку.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logger.WithContext(c.Request.Context(), log)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("запрос обработан")
	}
}
