package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists retry schedule entries.
type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, entry *RetryEntry) error
	Update(ctx context.Context, tx *gorm.DB, entry *RetryEntry) error
	FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*RetryEntry, error)
	// ActiveByRecord returns the single active entry for a record, or nil.
	ActiveByRecord(ctx context.Context, tx *gorm.DB, recordID snowflake.ID) (*RetryEntry, error)
	// Due returns active, not-completed entries whose retry_after has passed
	// and whose scheduling budget remains, oldest due first.
	Due(ctx context.Context, tx *gorm.DB, provider string, now time.Time) ([]*RetryEntry, error)
}
