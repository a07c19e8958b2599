// Package domain contains the persisted retry queue models.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var ErrEntryNotFound = errors.New("retry_entry_not_found")

// DefaultMaxRetries bounds scheduled re-submissions per record.
const DefaultMaxRetries = 3

// RetryEntry is the durable schedule for one failed record. At most one
// active entry exists per record; the entry is deactivated permanently on
// success or exhaustion. RetryCount is a scheduling counter and is distinct
// from the record's attempt counter, which drives backoff math.
type RetryEntry struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	RecordID snowflake.ID `gorm:"not null;index:ix_retry_record_active,priority:1"`
	SourceID string       `gorm:"type:text;not null"`
	Provider string       `gorm:"type:text;not null;index"`

	RetryCount int       `gorm:"not null;default:0"`
	MaxRetries int       `gorm:"not null;default:3"`
	RetryAfter time.Time `gorm:"not null;index:ix_retry_active_after,priority:2"`

	LastError string `gorm:"type:text"`
	ErrorCode string `gorm:"type:text"`

	// No column default on Active: gorm drops zero-valued fields that carry
	// a default tag on insert, which would silently flip false to true.
	Active    bool `gorm:"not null;index:ix_retry_active_after,priority:1;index:ix_retry_record_active,priority:2"`
	Completed bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (RetryEntry) TableName() string { return "retry_queue" }
