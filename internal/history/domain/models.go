// Package domain contains the append-only processing history models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// EntryStatus is the outcome of one recorded action.
type EntryStatus string

const (
	EntryStatusProcessing EntryStatus = "processing"
	EntryStatusSuccess    EntryStatus = "success"
	EntryStatusFailed     EntryStatus = "failed"
)

// HistoryEntry captures what happened to a record. An entry is created at
// action start and sealed when the action resolves; sealed entries never
// mutate again.
type HistoryEntry struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	RecordID snowflake.ID `gorm:"not null;index:ix_history_record_started,priority:1"`
	SourceID string       `gorm:"type:text;not null;index"`
	Provider string       `gorm:"type:text;not null"`
	Action   string       `gorm:"type:text;not null"`
	Status   EntryStatus  `gorm:"type:text;not null"`

	RequestData  datatypes.JSONMap `gorm:"type:jsonb"`
	ResponseData datatypes.JSONMap `gorm:"type:jsonb"`
	ErrorMessage string            `gorm:"type:text"`

	StartedAt   time.Time  `gorm:"not null;index:ix_history_record_started,priority:2"`
	CompletedAt *time.Time `gorm:""`
	DurationMs  int64      `gorm:"column:duration_ms;not null;default:0"`

	InitiatedBy string `gorm:"type:text;not null;default:'system'"`
	IPAddress   string `gorm:"type:text"`
	UserAgent   string `gorm:"type:text"`
}

// TableName sets the database table name.
func (HistoryEntry) TableName() string { return "processing_history" }
