package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/finance-ledger/internal/database"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

func CreateCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат категории"})
			return
		}
		category.UserID = uid
		if err := database.CreateCategory(c.Request.Context(), pool, &category); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func GetAllCategoriesHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		categories, err := database.GetAllCategories(c.Request.Context(), pool, uid)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func UpdateCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный формат категории"})
			return
		}
		category.ID = id
		category.UserID = uid
		if err := database.UpdateCategory(c.Request.Context(), pool, &category); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "категория обновлена"})
	}
}

func DeleteCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := database.DeleteCategory(c.Request.Context(), pool, id, uid); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "категория удалена"})
	}
}
