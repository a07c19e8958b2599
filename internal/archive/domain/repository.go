package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists generated documents.
type Repository interface {
	// Store inserts the document unless one already exists for its
	// (record, type, provider) key. It reports whether a write happened.
	Store(ctx context.Context, tx *gorm.DB, doc *Document) (bool, error)
	Get(ctx context.Context, tx *gorm.DB, recordID snowflake.ID, documentType, provider string) (*Document, error)
	ListByRecord(ctx context.Context, tx *gorm.DB, recordID snowflake.ID) ([]*Document, error)
}
