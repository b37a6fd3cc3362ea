package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/errs"
)

// readAdminIDFromContext returns the admin ID from request context.
func readAdminIDFromContext(c *gin.Context) (uint64, bool) {
	value, ok := c.Get("adminID")
	if !ok {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
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

// uintParam parses a numeric path parameter.
func uintParam(c *gin.Context, key string) (uint64, bool) {
	value, errParse := strconv.ParseUint(c.Param(key), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return value, true
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
