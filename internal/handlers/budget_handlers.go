package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func CreateBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		var budget models.Budget
		if err := c.ShouldBindJSON(&budget); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат бюджета"})
			return
		}
		budget.UserID = uid
		if err := database.CreateBudget(c.Request.Context(), pool, &budget); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, budget)
	}
}

// GetBudgetsHandler возвращает бюджеты с вычисленными spent/remaining/progress
// за текущий календарный месяц.
func GetBudgetsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		summaries, err := database.GetBudgetSummaries(c.Request.Context(), pool, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

func UpdateBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var budget models.Budget
		if err := c.ShouldBindJSON(&budget); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат бюджета"})
			return
		}
		budget.ID = id
		budget.UserID = uid
		if err := database.UpdateBudget(c.Request.Context(), pool, &budget); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "бюджет обновлен"})
	}
}

func DeleteBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := database.DeleteBudget(c.Request.Context(), pool, id, uid); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "бюджет удален"})
	}
}
