package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"airwise/internal/service"
)

const (
	defaultPageSize = 20
	defaultPage     = 0
)

// writeError maps the service error classes onto HTTP statuses. Anything
// unclassified is a 500 with a generic body; the detail stays in the log.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnsupportedCommand):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrExternalAPI):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// actingUser pulls the invoker identity from the query string. Validation
// of the values happens in the services.
func actingUser(c *gin.Context) (string, string) {
	return c.Query("userSystemID"), c.Query("userEmail")
}

// pagination parses size/page with the API defaults.
func pagination(c *gin.Context) (int, int) {
	size := defaultPageSize
	page := defaultPage
	if raw := c.Query("size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			size = v
		}
	}
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			page = v
		}
	}
	return size, page
}
