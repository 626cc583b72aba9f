package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

type goalRequest struct {
	Name         string `json:"name"`
	TargetAmount int64  `json:"target_amount"`
	Currency     string `json:"currency"`
}

// CreateGoalHandler создает цель вместе с ее накопительным счетом.
func CreateGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		var req goalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат цели"})
			return
		}
		goal := &models.Goal{UserID: uid, Name: req.Name, TargetAmount: req.TargetAmount}
		if err := database.CreateGoal(c.Request.Context(), pool, goal, req.Currency); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, goal)
	}
}

func GetGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		goal, err := database.GetGoalByID(c.Request.Context(), pool, id, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, goal)
	}
}

func GetAllGoalsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		goals, err := database.GetAllGoals(c.Request.Context(), pool, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, goals)
	}
}

type contributeRequest struct {
	FromAccountID int   `json:"from_account_id"`
	Amount        int64 `json:"amount"`
}

// ContributeToGoalHandler переводит средства на накопительный счет цели.
func ContributeToGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req contributeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат пополнения"})
			return
		}
		txnID, err := database.ContributeToGoal(c.Request.Context(), pool, id, uid, req.FromAccountID, req.Amount)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction_id": txnID})
	}
}

type completeGoalRequest struct {
	ToAccountID int `json:"to_account_id"`
}

// CompleteGoalHandler выводит накопленное и закрывает цель.
func CompleteGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req completeGoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат запроса"})
			return
		}
		txnID, err := database.CompleteGoal(c.Request.Context(), pool, id, uid, req.ToAccountID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction_id": txnID})
	}
}

func DeleteGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := database.DeleteGoal(c.Request.Context(), pool, id, uid); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "цель удалена"})
	}
}
