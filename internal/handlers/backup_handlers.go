package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

// ExportBackupHandler выгружает полный снимок данных пользователя в JSON.
func ExportBackupHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		backup, err := database.ExportBackup(c.Request.Context(), pool, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, backup)
	}
}

// RestoreBackupHandler замещает все данные пользователя содержимым снимка.
// Операция атомарна: при любой ошибке текущие данные остаются нетронутыми.
func RestoreBackupHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		var backup models.Backup
		if err := c.ShouldBindJSON(&backup); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат резервной копии"})
			return
		}
		if err := database.RestoreBackup(c.Request.Context(), pool, uid, &backup); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "данные восстановлены из резервной копии"})
	}
}
