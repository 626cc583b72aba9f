package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func CreateAccountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		var acc models.Account
		if err := c.ShouldBindJSON(&acc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат счета"})
			return
		}
		acc.UserID = uid
		if err := database.CreateAccount(c.Request.Context(), pool, &acc); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, acc)
	}
}

func GetAccountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		acc, err := database.GetAccountByID(c.Request.Context(), pool, id, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, acc)
	}
}

func GetAllAccountsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		accounts, err := database.GetAllAccounts(c.Request.Context(), pool, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, accounts)
	}
}

func UpdateAccountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var acc models.Account
		if err := c.ShouldBindJSON(&acc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат счета"})
			return
		}
		acc.ID = id
		acc.UserID = uid
		if err := database.UpdateAccount(c.Request.Context(), pool, &acc); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "счет обновлен"})
	}
}

func DeleteAccountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := database.DeleteAccount(c.Request.Context(), pool, id, uid); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "счет удален"})
	}
}
