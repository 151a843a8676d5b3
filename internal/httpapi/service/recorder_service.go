package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ilucaslima/clubidulivro/internal/clock"
	"github.com/ilucaslima/clubidulivro/internal/heatmap"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/models"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/repository"
	"github.com/ilucaslima/clubidulivro/internal/monitoring"
)

// maxRecordAttempts bounds the optimistic retry loop. Conflicts only happen
// when the same member submits twice in quick succession, so a small bound
// is enough before surfacing a transient failure.
const maxRecordAttempts = 3

// RecordResult is what a committed progress submission produced.
type RecordResult struct {
	Date            string                `json:"date"`
	PagesToday      int                   `json:"pages_today"`
	Intensity       int                   `json:"intensity"`
	CumulativePages int                   `json:"cumulative_pages"`
	BookCompleted   bool                  `json:"book_completed"`
	CompletedBook   *models.CompletedBook `json:"completed_book,omitempty"`
}

// RecorderCache is the slice of the cache the recorder needs: idempotency
// dedupe, board invalidation, and the profile change stream.
type RecorderCache interface {
	AcquireOnce(ctx context.Context, key string) (bool, error)
	ReleaseKey(ctx context.Context, key string) error
	Invalidate(ctx context.Context, keys ...string) error
	PublishProfile(ctx context.Context, userID string, profile any) error
}

type RecorderService interface {
	RecordProgress(ctx context.Context, userID string, pagesRead int, idempotencyKey string) (*RecordResult, error)
}

type recorderService struct {
	progressRepo repository.ProgressRepository
	userRepo     repository.UserRepository
	cache        RecorderCache
	clk          clock.Clock
	logger       *zap.Logger
}

func NewRecorderService(
	progressRepo repository.ProgressRepository,
	userRepo repository.UserRepository,
	cache RecorderCache,
	clk clock.Clock,
	logger *zap.Logger,
) RecorderService {
	return &recorderService{
		progressRepo: progressRepo,
		userRepo:     userRepo,
		cache:        cache,
		clk:          clk,
		logger:       logger,
	}
}

// RecordProgress merges an incremental page count into today's record and
// the member's running book total, all inside one transaction. When the
// running total reaches the book's page count the book is archived and the
// profile reset to "between books" in the same commit.
//
// Intensity is always computed against the goal that was in effect before
// the update, so the day a book completes is still scored against that
// book's goal.
func (s *recorderService) RecordProgress(ctx context.Context, userID string, pagesRead int, idempotencyKey string) (*RecordResult, error) {
	if pagesRead < 0 {
		return nil, fmt.Errorf("%w: quantidade de páginas não pode ser negativa", ErrValidation)
	}

	// A replayed submission (client retry of an already-committed write)
	// must not double-count. The key is claimed before the transaction and
	// released again if the write fails.
	if idempotencyKey != "" {
		first, err := s.cache.AcquireOnce(ctx, userID+":"+idempotencyKey)
		if err != nil {
			s.logger.Warn("idempotency check unavailable", zap.Error(err))
		} else if !first {
			monitoring.ProgressWrites.WithLabelValues("duplicate").Inc()
			return nil, ErrDuplicateSubmission
		}
	}

	dateKey := heatmap.DateKey(s.clk.Now())

	result, err := s.recordWithRetry(ctx, userID, dateKey, pagesRead)
	if err != nil {
		if idempotencyKey != "" {
			if relErr := s.cache.ReleaseKey(ctx, userID+":"+idempotencyKey); relErr != nil {
				s.logger.Warn("failed to release idempotency key", zap.Error(relErr))
			}
		}
		monitoring.ProgressWrites.WithLabelValues("failed").Inc()
		return nil, err
	}

	monitoring.ProgressWrites.WithLabelValues("committed").Inc()
	s.notify(ctx, userID)
	return result, nil
}

func (s *recorderService) recordWithRetry(ctx context.Context, userID, dateKey string, pagesRead int) (*RecordResult, error) {
	var result *RecordResult

	for attempt := 1; attempt <= maxRecordAttempts; attempt++ {
		err := s.progressRepo.RunRecordTx(ctx, userID, dateKey, func(snap repository.RecordSnapshot) (repository.RecordMutation, error) {
			priorPagesToday := 0
			if snap.Day != nil {
				priorPagesToday = snap.Day.PagesRead
			}

			newPagesToday := priorPagesToday + pagesRead
			newCumulative := snap.Profile.CurrentBookPagesRead + pagesRead
			intensity := heatmap.Classify(newPagesToday, snap.Profile.DailyGoal)

			mut := repository.RecordMutation{
				Day: models.DailyProgress{
					UserID:    userID,
					Date:      dateKey,
					PagesRead: newPagesToday,
					Intensity: intensity,
				},
			}

			result = &RecordResult{
				Date:            dateKey,
				PagesToday:      newPagesToday,
				Intensity:       intensity,
				CumulativePages: newCumulative,
			}

			if snap.Profile.TotalPages > 0 && newCumulative >= snap.Profile.TotalPages {
				completed := &models.CompletedBook{
					UserID:     userID,
					Title:      snap.Profile.Book,
					TotalPages: snap.Profile.TotalPages,
					FinishedAt: s.clk.Now(),
				}
				mut.CompletedBook = completed
				mut.ProfileUpdates = map[string]any{
					"book":                    "",
					"total_pages":             0,
					"daily_goal":              0,
					"current_book_pages_read": 0,
				}
				result.BookCompleted = true
				result.CompletedBook = completed
				result.CumulativePages = 0
			} else {
				mut.ProfileUpdates = map[string]any{
					"current_book_pages_read": newCumulative,
				}
			}

			return mut, nil
		})

		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, repository.ErrVersionConflict):
			s.logger.Debug("progress write conflict, retrying",
				zap.String("user_id", userID),
				zap.Int("attempt", attempt),
			)
			continue
		default:
			return nil, classifyStoreErr(err)
		}
	}

	return nil, fmt.Errorf("%w: conflito de escrita persistente", ErrTransient)
}

// notify refreshes dependents after a commit: the board cache is dropped and
// the member's new profile snapshot is pushed on the change stream. Both are
// best-effort; the write already committed.
func (s *recorderService) notify(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, boardCacheKey); err != nil {
		s.logger.Warn("board cache invalidation failed", zap.Error(err))
	}

	profile, err := s.userRepo.FindByID(userID)
	if err != nil {
		s.logger.Warn("profile reload for change stream failed", zap.Error(err))
		return
	}
	if err := s.cache.PublishProfile(ctx, userID, profile); err != nil {
		s.logger.Warn("profile publish failed", zap.Error(err))
	}
}
