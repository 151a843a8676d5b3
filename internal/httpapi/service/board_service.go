package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ilucaslima/clubidulivro/internal/cache"
	"github.com/ilucaslima/clubidulivro/internal/clock"
	"github.com/ilucaslima/clubidulivro/internal/heatmap"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/repository"
	"github.com/ilucaslima/clubidulivro/internal/leaderboard"
)

const boardCacheKey = cache.BoardKey

// MemberBoard is one member's row on the group heatmap.
type MemberBoard struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Book          string                    `json:"book"`
	DailyGoal     int                       `json:"daily_goal"`
	Contributions []heatmap.DayContribution `json:"contributions"`
}

// BoardView is the whole group heatmap: every member's contribution grid
// over the trailing one-year window, plus the layout hints the UI needs.
type BoardView struct {
	StartDate      time.Time               `json:"start_date"`
	TotalDays      int                     `json:"total_days"`
	WeeksToShow    int                     `json:"weeks_to_show"`
	MonthPositions []heatmap.MonthPosition `json:"month_positions"`
	Members        []MemberBoard           `json:"members"`
}

// BoardCache is the slice of the cache the board reads through.
type BoardCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}

type BoardService interface {
	Board(ctx context.Context) (*BoardView, error)
	Ranking(ctx context.Context, monthly bool) ([]leaderboard.Entry, error)
}

type boardService struct {
	userRepo     repository.UserRepository
	progressRepo repository.ProgressRepository
	cache        BoardCache
	clk          clock.Clock
	logger       *zap.Logger
}

func NewBoardService(
	userRepo repository.UserRepository,
	progressRepo repository.ProgressRepository,
	boardCache BoardCache,
	clk clock.Clock,
	logger *zap.Logger,
) BoardService {
	return &boardService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		cache:        boardCache,
		clk:          clk,
		logger:       logger,
	}
}

// Board assembles the group heatmap. The aggregation is memoized in the
// cache and recomputed whenever a progress write invalidates it; a cache
// outage just means recomputing every call.
func (s *boardService) Board(ctx context.Context) (*BoardView, error) {
	var cached BoardView
	hit, err := s.cache.GetJSON(ctx, boardCacheKey, &cached)
	if err != nil {
		s.logger.Warn("board cache read failed", zap.Error(err))
	} else if hit && s.boardIsFresh(&cached) {
		return &cached, nil
	}

	view, err := s.buildBoard(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, boardCacheKey, view); err != nil {
		s.logger.Warn("board cache write failed", zap.Error(err))
	}

	return view, nil
}

// boardIsFresh reports whether a cached view still covers today. The
// window start only shifts weekly, so the check keys on the last day of
// the grid, which moves at every midnight.
func (s *boardService) boardIsFresh(view *BoardView) bool {
	if view.TotalDays <= 0 {
		return false
	}
	last := view.StartDate.AddDate(0, 0, view.TotalDays-1)
	return heatmap.DateKey(last) == heatmap.DateKey(s.clk.Now())
}

func (s *boardService) buildBoard(ctx context.Context) (*BoardView, error) {
	today := s.clk.Now()
	start := heatmap.WindowStart(today)
	totalDays := heatmap.DaysBetween(start, today)
	weeks := heatmap.WeeksToShow(totalDays)

	members, err := s.userRepo.ListMembers(ctx)
	if err != nil {
		return nil, classifyStoreErr(err)
	}

	records, err := s.progressRepo.ListSince(ctx, heatmap.DateKey(start))
	if err != nil {
		return nil, classifyStoreErr(err)
	}

	recordsByUser := make(map[string][]heatmap.Record, len(members))
	for _, rec := range records {
		recordsByUser[rec.UserID] = append(recordsByUser[rec.UserID], heatmap.Record{
			Date:      rec.Date,
			PagesRead: rec.PagesRead,
			Level:     rec.Intensity,
		})
	}

	view := &BoardView{
		StartDate:      start,
		TotalDays:      totalDays,
		WeeksToShow:    weeks,
		MonthPositions: heatmap.MonthPositions(start, weeks),
		Members:        make([]MemberBoard, 0, len(members)),
	}

	for _, m := range members {
		view.Members = append(view.Members, MemberBoard{
			ID:            m.ID,
			Name:          m.Name,
			Book:          m.Book,
			DailyGoal:     m.DailyGoal,
			Contributions: heatmap.BuildGrid(recordsByUser[m.ID], today),
		})
	}

	return view, nil
}

// Ranking reduces the board's contributions into a leaderboard, all-time or
// filtered to the current calendar month.
func (s *boardService) Ranking(ctx context.Context, monthly bool) ([]leaderboard.Entry, error) {
	view, err := s.Board(ctx)
	if err != nil {
		return nil, err
	}

	members := make([]leaderboard.Member, 0, len(view.Members))
	contributions := make(map[string][]heatmap.DayContribution, len(view.Members))
	for _, m := range view.Members {
		members = append(members, leaderboard.Member{ID: m.ID, Name: m.Name, Book: m.Book})
		contributions[m.ID] = m.Contributions
	}

	if monthly {
		return leaderboard.CurrentMonth(members, contributions, s.clk.Now()), nil
	}
	return leaderboard.AllTime(members, contributions), nil
}
