package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/service"
)

type BoardHandler struct {
	boardService service.BoardService
}

func NewBoardHandler(boardService service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// RegisterRoutes registers the board and ranking routes
func (h *BoardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/board", h.Board)
	rg.GET("/ranking", h.Ranking)
}

func (h *BoardHandler) Board(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	view, err := h.boardService.Board(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Ranking serves the leaderboard. ?period=monthly restricts the totals
// to the current calendar month, anything else means all time.
func (h *BoardHandler) Ranking(c *gin.Context) {
	monthly := c.Query("period") == "monthly"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	entries, err := h.boardService.Ranking(ctx, monthly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": c.DefaultQuery("period", "general"), "entries": entries})
}
