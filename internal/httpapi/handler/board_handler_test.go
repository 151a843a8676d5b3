package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ilucaslima/clubidulivro/internal/leaderboard"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/service"
)

func TestBoard_ReturnsView(t *testing.T) {
	mockBoard := new(MockBoardService)
	h := NewBoardHandler(mockBoard)
	router := setupRouter()
	router.GET("/group/board", h.Board)

	view := &service.BoardView{
		StartDate:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		TotalDays:   368,
		WeeksToShow: 53,
		Members: []service.MemberBoard{
			{ID: "a", Name: "Ana", Book: "Dom Casmurro", DailyGoal: 9},
		},
	}
	mockBoard.On("Board", mock.Anything).Return(view, nil)

	req := httptest.NewRequest(http.MethodGet, "/group/board", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp service.BoardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 53, resp.WeeksToShow)
	require.Len(t, resp.Members, 1)
	assert.Equal(t, "Ana", resp.Members[0].Name)
}

func TestRanking_DefaultsToAllTime(t *testing.T) {
	mockBoard := new(MockBoardService)
	h := NewBoardHandler(mockBoard)
	router := setupRouter()
	router.GET("/group/ranking", h.Ranking)

	entries := []leaderboard.Entry{
		{Member: leaderboard.Member{ID: "a", Name: "Ana"}, DaysActive: 12, TotalPages: 340},
	}
	mockBoard.On("Ranking", mock.Anything, false).Return(entries, nil)

	req := httptest.NewRequest(http.MethodGet, "/group/ranking", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockBoard.AssertExpectations(t)

	var resp struct {
		Period  string              `json:"period"`
		Entries []leaderboard.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "general", resp.Period)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 12, resp.Entries[0].DaysActive)
}

func TestRanking_MonthlyPeriod(t *testing.T) {
	mockBoard := new(MockBoardService)
	h := NewBoardHandler(mockBoard)
	router := setupRouter()
	router.GET("/group/ranking", h.Ranking)

	mockBoard.On("Ranking", mock.Anything, true).Return([]leaderboard.Entry{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/group/ranking?period=monthly", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockBoard.AssertExpectations(t)
}

func TestBoard_TransientFailure(t *testing.T) {
	mockBoard := new(MockBoardService)
	h := NewBoardHandler(mockBoard)
	router := setupRouter()
	router.GET("/group/board", h.Board)

	mockBoard.On("Board", mock.Anything).Return(nil, service.ErrTransient)

	req := httptest.NewRequest(http.MethodGet, "/group/board", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
