package models

import "time"

// DailyProgress is the cumulative pages a member logged on one local
// calendar day. The composite primary key (user_id, date) is what enforces
// "at most one record per member per day": repeated submissions merge into
// the same row instead of creating duplicates.
type DailyProgress struct {
	UserID    string    `gorm:"type:uuid;not null;primaryKey" json:"user_id"`
	Date      string    `gorm:"type:varchar(10);not null;primaryKey" json:"date"` // yyyy-mm-dd, local calendar day
	PagesRead int       `gorm:"not null;default:0" json:"pages_read"`
	Intensity int       `gorm:"not null;default:0" json:"intensity"` // 0..4, derived at write time
	Timestamp time.Time `gorm:"not null" json:"timestamp"`           // server-assigned write time, audit/ordering only
}

// TableName overrides the table name used by DailyProgress to `progress`
func (DailyProgress) TableName() string {
	return "progress"
}
