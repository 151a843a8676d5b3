package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ilucaslima/clubidulivro/internal/search"
	"go.uber.org/zap"
)

type SearchHandler struct {
	client *search.Client
	logger *zap.Logger
}

func NewSearchHandler(client *search.Client, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{client: client, logger: logger}
}

// RegisterRoutes registers the book search routes
func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len([]rune(query)) < search.MinQueryLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a busca precisa de pelo menos 3 caracteres"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 || limit > 20 {
		limit = 5
	}

	books, err := h.client.Search(c.Request.Context(), query, limit)
	if err != nil {
		h.logger.Warn("book search failed", zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "busca de livros indisponível no momento"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": books})
}
