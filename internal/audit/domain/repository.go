package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows audit queries for compliance review.
type ListFilter struct {
	EventType    string
	ResourceType string
	ResourceID   string
	Action       string
	ActorID      string
	StartAt      *time.Time
	EndAt        *time.Time
	Limit        int
}

// Repository appends and reads audit entries.
type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*AuditLog, error)
}
