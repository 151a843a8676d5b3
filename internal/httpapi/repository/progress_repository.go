package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/ilucaslima/clubidulivro/internal/httpapi/models"
)

// ErrVersionConflict is returned by RunRecordTx when the profile changed
// between the snapshot read and the conditional write. Callers retry.
var ErrVersionConflict = errors.New("profile version conflict")

// RecordSnapshot is the consistent view read at the start of a progress
// transaction: the member's profile and that day's record, if one exists.
type RecordSnapshot struct {
	Profile models.User
	Day     *models.DailyProgress
}

// RecordMutation is what a progress transaction writes back: the upserted
// day record, the profile fields to update, and an optional finished book to
// archive. All three commit atomically.
type RecordMutation struct {
	Day            models.DailyProgress
	ProfileUpdates map[string]any
	CompletedBook  *models.CompletedBook
}

type ProgressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.DailyProgress, error)
	ListSince(ctx context.Context, fromDate string) ([]models.DailyProgress, error)
	RunRecordTx(ctx context.Context, userID, dateKey string, fn func(snap RecordSnapshot) (RecordMutation, error)) error
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) ListByUser(ctx context.Context, userID string) ([]models.DailyProgress, error) {
	var list []models.DailyProgress
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListSince bulk-loads every member's records from fromDate on, ordered by
// write timestamp ascending so that grid building is last-write-wins.
func (r *progressRepository) ListSince(ctx context.Context, fromDate string) ([]models.DailyProgress, error) {
	var list []models.DailyProgress
	if err := r.db.WithContext(ctx).Where("date >= ?", fromDate).Order("timestamp ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// duplicateDayInsert reports whether err is the unique violation raised when
// a concurrent transaction created the same (user_id, date) row first.
func duplicateDayInsert(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// RunRecordTx runs one read-snapshot -> compute -> conditional-write cycle
// for a member's daily record. The profile write is conditioned on the
// version observed in the snapshot; an intervening write makes the whole
// transaction roll back with ErrVersionConflict so nothing partially
// applies.
func (r *progressRepository) RunRecordTx(ctx context.Context, userID, dateKey string, fn func(snap RecordSnapshot) (RecordMutation, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var snap RecordSnapshot

		if err := tx.First(&snap.Profile, "id = ?", userID).Error; err != nil {
			return err
		}

		var day models.DailyProgress
		err := tx.Where("user_id = ? AND date = ?", userID, dateKey).First(&day).Error
		switch {
		case err == nil:
			snap.Day = &day
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first submission of the day
		default:
			return err
		}

		mut, err := fn(snap)
		if err != nil {
			return err
		}

		mut.Day.Timestamp = time.Now()
		if snap.Day == nil {
			if err := tx.Create(&mut.Day).Error; err != nil {
				// two first submissions of the same day race on the
				// composite primary key; the loser retries and merges
				if duplicateDayInsert(err) {
					return ErrVersionConflict
				}
				return err
			}
		} else {
			err := tx.Model(&models.DailyProgress{}).
				Where("user_id = ? AND date = ?", userID, dateKey).
				Updates(map[string]any{
					"pages_read": mut.Day.PagesRead,
					"intensity":  mut.Day.Intensity,
					"timestamp":  mut.Day.Timestamp,
				}).Error
			if err != nil {
				return err
			}
		}

		if mut.CompletedBook != nil {
			if err := tx.Create(mut.CompletedBook).Error; err != nil {
				return err
			}
		}

		updates := make(map[string]any, len(mut.ProfileUpdates)+1)
		for k, v := range mut.ProfileUpdates {
			updates[k] = v
		}
		updates["version"] = snap.Profile.Version + 1

		res := tx.Model(&models.User{}).
			Where("id = ? AND version = ?", userID, snap.Profile.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}

		return nil
	})
}
