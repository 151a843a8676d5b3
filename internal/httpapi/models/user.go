package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is one club member's profile. The book fields describe the book
// currently being read; an empty Book with TotalPages 0 means the member is
// between books. CurrentBookPagesRead only carries meaning while
// TotalPages > 0.
type User struct {
	ID                   string          `gorm:"primaryKey;type:uuid" json:"id"`
	Name                 string          `gorm:"not null" json:"name"`
	Email                string          `gorm:"uniqueIndex;not null" json:"email"`
	Password             string          `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Book                 string          `json:"book"`
	TotalPages           int             `gorm:"default:0" json:"total_pages"`
	DailyGoal            int             `gorm:"default:0" json:"daily_goal"`
	CurrentBookPagesRead int             `gorm:"default:0" json:"current_book_pages_read"`
	Version              int64           `gorm:"default:0" json:"-"` // optimistic concurrency counter
	CompletedBooks       []CompletedBook `gorm:"foreignKey:UserID" json:"completed_books"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// CompletedBook is an archived finished book. Rows are append-only: they are
// created by the progress recorder's completion branch and never edited or
// removed.
type CompletedBook struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"-"`
	Title      string    `gorm:"not null" json:"title"`
	TotalPages int       `gorm:"not null" json:"total_pages"`
	FinishedAt time.Time `gorm:"not null" json:"finished_at"`
}

func (CompletedBook) TableName() string {
	return "completed_books"
}
