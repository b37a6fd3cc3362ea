package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/errs"
)

// getClientID extracts the authenticated client id from gin context.
func getClientID(c *gin.Context) string {
	val, exists := c.Get("clientID")
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}

// respondServiceError maps service error kinds to HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrUpload):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrPartialFailure):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "partial_failure": true})
	case errors.Is(err, errs.ErrTransient):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pageFromQuery reads offset/limit query parameters.
func pageFromQuery(c *gin.Context) (offset, limit int) {
	offset = intQuery(c, "offset", 0)
	limit = intQuery(c, "limit", 50)
	return offset, limit
}

// intQuery parses an integer query parameter with a fallback.
func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, errParse := strconv.Atoi(raw)
	if errParse != nil {
		return fallback
	}
	return value
}
