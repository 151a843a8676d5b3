package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/service"
)

// respondServiceError maps service sentinel errors onto HTTP responses.
// Configuration problems get a hint so a misconfigured deploy is obvious
// from the client side instead of a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermission):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConfiguration):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": err.Error(),
			"hint":  "verifique a configuração do banco de dados",
		})
	case errors.Is(err, service.ErrTransient):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
