package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
)

// transactionRequest — проверенный внешним слоем ввод проводки.
type transactionRequest struct {
	Date          time.Time `json:"date"`
	Description   string    `json:"description"`
	Amount        int64     `json:"amount"`
	CategoryID    *int      `json:"category_id"`
	Kind          string    `json:"kind"`
	FromAccountID int       `json:"from_account_id"`
	ToAccountID   int       `json:"to_account_id"`
}

func (r transactionRequest) posting(uid int) database.PostingInput {
	date := r.Date
	if date.IsZero() {
		date = time.Now()
	}
	return database.PostingInput{
		UserID:        uid,
		Date:          date,
		Description:   r.Description,
		Amount:        r.Amount,
		CategoryID:    r.CategoryID,
		Kind:          r.Kind,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
	}
}

func CreateTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		var req transactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат транзакции"})
			return
		}
		id, err := database.CreateTransaction(c.Request.Context(), pool, req.posting(uid))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

func GetTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		txn, err := database.GetTransactionByID(c.Request.Context(), pool, id, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, txn)
	}
}

func GetAllTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		txns, err := database.GetAllTransactions(c.Request.Context(), pool, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, txns)
	}
}

func UpdateTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req transactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат транзакции"})
			return
		}
		if err := database.UpdateTransaction(c.Request.Context(), pool, id, req.posting(uid)); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "транзакция обновлена"})
	}
}

func DeleteTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := database.DeleteTransaction(c.Request.Context(), pool, id, uid); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "транзакция удалена"})
	}
}
