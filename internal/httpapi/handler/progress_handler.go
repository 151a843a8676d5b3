package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/dto"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/service"
)

type ProgressHandler struct {
	recorderService service.RecorderService
}

func NewProgressHandler(recorderService service.RecorderService) *ProgressHandler {
	return &ProgressHandler{recorderService: recorderService}
}

// RegisterRoutes registers the progress-related routes
func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.RecordProgress)
}

func (h *ProgressHandler) RecordProgress(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "usuário não autenticado"})
		return
	}

	var req dto.RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.recorderService.RecordProgress(ctx, userID.(string), req.PagesRead, req.IdempotencyKey)
	if errors.Is(err, service.ErrDuplicateSubmission) {
		// already applied by an earlier request with the same key
		c.JSON(http.StatusOK, gin.H{"message": err.Error(), "duplicate": true})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
