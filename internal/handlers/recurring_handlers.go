package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func CreateRecurringRuleHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		var rule models.RecurringRule
		if err := c.ShouldBindJSON(&rule); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат правила"})
			return
		}
		rule.UserID = uid
		if err := database.CreateRecurringRule(c.Request.Context(), pool, &rule); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rule)
	}
}

func GetAllRecurringRulesHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		rules, err := database.GetAllRecurringRules(c.Request.Context(), pool, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rules)
	}
}

// ExecuteRecurringRuleHandler выполняет правило немедленно по запросу
// пользователя: создает проводку и продвигает расписание.
func ExecuteRecurringRuleHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		txnID, err := database.ExecuteRecurringRule(c.Request.Context(), pool, id, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction_id": txnID})
	}
}

// SkipRecurringRuleHandler откладывает ближайший запуск без проводки.
func SkipRecurringRuleHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := database.SkipRecurringRule(c.Request.Context(), pool, id, uid); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "запуск правила отложен"})
	}
}

func ToggleRecurringRuleHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := database.ToggleRecurringRule(c.Request.Context(), pool, id, uid); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "активность правила переключена"})
	}
}

func UpdateRecurringRuleHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var rule models.RecurringRule
		if err := c.ShouldBindJSON(&rule); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат правила"})
			return
		}
		rule.ID = id
		rule.UserID = uid
		if err := database.UpdateRecurringRule(c.Request.Context(), pool, &rule); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "правило обновлено"})
	}
}

func DeleteRecurringRuleHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := database.DeleteRecurringRule(c.Request.Context(), pool, id, uid); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "правило удалено"})
	}
}
