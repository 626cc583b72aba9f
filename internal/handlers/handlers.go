// Package handlers — HTTP-обертки над движком. Идентификатор пользователя
// приходит уже аутентифицированным из внешнего слоя, суммы — целые в
// минорных единицах валюты.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/finance-ledger/internal/logger"
	"github.com/valeriaulyamaeva/finance-ledger/models"
)

// userID извлекает идентификатор пользователя из пути.
func userID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор пользователя"})
		return 0, false
	}
	return id, true
}

// pathID извлекает идентификатор сущности из пути.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор"})
		return 0, false
	}
	return id, true
}

// writeError переводит типизированную ошибку движка в HTTP-статус.
func writeError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())

	var (
		validation   *models.ValidationError
		notFound     *models.NotFoundError
		invalidState *models.InvalidStateError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &invalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("ошибка хранилища")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка, данные не изменены"})
	}
}
