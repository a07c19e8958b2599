// Package domain contains persistence models for invoice submission records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Status represents the submission lifecycle states of a record.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusRetry      Status = "RETRY"
	StatusCancelled  Status = "CANCELLED"
)

// transitions is the closed set of allowed status moves. FAILED keeps an
// outgoing edge to itself so a retry attempt can fail again; exhaustion is
// enforced by the attempt counter, not the state graph.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed, StatusCancelled},
	StatusFailed:     {StatusFailed, StatusCompleted, StatusRetry, StatusCancelled},
	StatusRetry:      {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Terminal reports whether no further automatic transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo validates a move against the closed transition set.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// SourceKind classifies the upstream billing event.
type SourceKind string

const (
	SourceKindInvoice SourceKind = "invoice"
	SourceKindCharge  SourceKind = "charge"
)

// InvoiceRecord tracks one (source event, provider) submission sequence.
// The financial fields are a snapshot of intent taken at creation and never
// re-read from the source feed afterwards.
type InvoiceRecord struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	SourceID   string       `gorm:"type:text;not null;uniqueIndex:ux_record_source_provider;index"`
	Provider   string       `gorm:"type:text;not null;uniqueIndex:ux_record_source_provider;index:ix_record_provider_status,priority:1"`
	SourceKind SourceKind   `gorm:"type:text;not null"`
	Status     Status       `gorm:"type:text;not null;default:'PENDING';index:ix_record_status_created,priority:1;index:ix_record_provider_status,priority:2"`

	ProviderReferenceID string `gorm:"type:text"`
	LastError           string `gorm:"type:text"`
	Attempts            int    `gorm:"not null;default:0"`

	CustomerID    string            `gorm:"type:text;index"`
	CustomerEmail string            `gorm:"type:text"`
	CustomerTaxID string            `gorm:"type:text"`
	Amount        decimal.Decimal   `gorm:"type:numeric;not null"`
	Currency      string            `gorm:"type:text;not null"`
	InvoiceDate   time.Time         `gorm:"not null"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb"`

	ProcessedAt *time.Time `gorm:""`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_record_status_created,priority:2"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceRecord) TableName() string { return "invoice_records" }
