package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository appends and reads history entries.
type Repository interface {
	Start(ctx context.Context, tx *gorm.DB, entry *HistoryEntry) error
	Complete(ctx context.Context, tx *gorm.DB, entry *HistoryEntry) error
	ListByRecord(ctx context.Context, tx *gorm.DB, recordID snowflake.ID) ([]*HistoryEntry, error)
}
