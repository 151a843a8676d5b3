package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ilucaslima/clubidulivro/internal/httpapi/models"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/repository"
)

type ProfileService interface {
	Me(ctx context.Context, userID string) (*models.User, error)
	StartBook(ctx context.Context, userID, title string, totalPages int) (*models.User, error)
}

type profileService struct {
	userRepo repository.UserRepository
	cache    RecorderCache
	logger   *zap.Logger
}

func NewProfileService(userRepo repository.UserRepository, cache RecorderCache, logger *zap.Logger) ProfileService {
	return &profileService{userRepo: userRepo, cache: cache, logger: logger}
}

func (s *profileService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	return user, nil
}

// StartBook declares the member's next book. Only allowed while between
// books; finishing the current one is what clears the slot.
func (s *profileService) StartBook(ctx context.Context, userID, title string, totalPages int) (*models.User, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: informe o título do livro", ErrValidation)
	}
	if totalPages < 1 {
		return nil, fmt.Errorf("%w: o livro deve ter pelo menos 1 página", ErrValidation)
	}

	current, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	if current.TotalPages > 0 {
		return nil, fmt.Errorf("%w: termine o livro atual antes de começar outro", ErrValidation)
	}

	if err := s.userRepo.StartBook(ctx, userID, title, totalPages, DailyGoalFor(totalPages)); err != nil {
		return nil, classifyStoreErr(err)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, classifyStoreErr(err)
	}

	if err := s.cache.Invalidate(ctx, boardCacheKey); err != nil {
		s.logger.Warn("board cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.PublishProfile(ctx, userID, user); err != nil {
		s.logger.Warn("profile publish failed", zap.Error(err))
	}

	return user, nil
}
