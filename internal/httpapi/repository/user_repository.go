package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ilucaslima/clubidulivro/internal/httpapi/models"
)

// UserRepository defines the interface for member profile reads and writes.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	ListMembers(ctx context.Context) ([]models.User, error)
	StartBook(ctx context.Context, userID, title string, totalPages, dailyGoal int) error
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	// return nil on error so a zero-value struct is never mistaken for a hit
	if err := r.db.Preload("CompletedBooks").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListMembers bulk-loads every profile for the group board, oldest members
// first so ranking tie order is stable across calls.
func (r *userRepository) ListMembers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// StartBook sets the member's current book. Only valid while between books;
// the caller checks that before writing.
func (r *userRepository) StartBook(ctx context.Context, userID, title string, totalPages, dailyGoal int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"book":                    title,
		"total_pages":             totalPages,
		"daily_goal":              dailyGoal,
		"current_book_pages_read": 0,
		"version":                 gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
