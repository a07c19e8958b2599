package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound    = errors.New("record_not_found")
	ErrInvalidTransition = errors.New("invalid_status_transition")
)

// StatsFilter narrows aggregate queries by provider and creation window.
type StatsFilter struct {
	Provider string
	StartAt  *time.Time
	EndAt    *time.Time
}

// StatusAggregate is one group-by row of the stats query.
type StatusAggregate struct {
	Status        Status
	Count         int64
	TotalAttempts int64
}

// Repository persists invoice records. Methods receive the transaction
// handle so multi-entity writes share one unit of work.
type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, rec *InvoiceRecord) error
	Update(ctx context.Context, tx *gorm.DB, rec *InvoiceRecord) error
	FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*InvoiceRecord, error)
	FindBySource(ctx context.Context, tx *gorm.DB, sourceID, provider string) (*InvoiceRecord, error)
	ListBySource(ctx context.Context, tx *gorm.DB, sourceID, provider string) ([]*InvoiceRecord, error)
	Aggregate(ctx context.Context, tx *gorm.DB, filter StatsFilter) ([]StatusAggregate, error)
}
