// Package domain defines the invoice submission orchestration contract.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	historydomain "github.com/smallbiznis/fiscalgate/internal/history/domain"
	providerdomain "github.com/smallbiznis/fiscalgate/internal/provider/domain"
	recorddomain "github.com/smallbiznis/fiscalgate/internal/record/domain"
	retrydomain "github.com/smallbiznis/fiscalgate/internal/retryqueue/domain"
)

var (
	ErrRecordNotFound     = recorddomain.ErrRecordNotFound
	ErrInvalidTransition  = recorddomain.ErrInvalidTransition
	ErrRetryEntryNotFound = retrydomain.ErrEntryNotFound
)

// ValidationError reports caller-supplied data insufficient for intake.
// Nothing is persisted when intake fails validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation_failed: %s", strings.Join(e.Fields, ", "))
}

// Actor identifies who initiated an operation for the audit trail.
type Actor struct {
	ID        string
	IPAddress string
	UserAgent string
}

// IntakeRequest carries the source feed snapshot for one submission.
type IntakeRequest struct {
	SourceID   string
	Provider   string
	SourceKind recorddomain.SourceKind

	CustomerID    string
	CustomerEmail string
	CustomerTaxID string
	Amount        decimal.Decimal
	Currency      string
	InvoiceDate   time.Time
	Metadata      map[string]any

	Actor Actor
}

// IntakeResult is the outcome of duplicate-checked intake. A duplicate is a
// recognized outcome, not an error: the existing record is returned as-is.
type IntakeResult struct {
	Record    *recorddomain.InvoiceRecord
	Duplicate bool
}

// RetryCandidate is one due entry surfaced by the sweep. The caller is
// responsible for invoking the provider and routing the outcome back through
// ResolveRetry; the sweep never executes the retry itself.
type RetryCandidate struct {
	EntryID    snowflake.ID
	RecordID   snowflake.ID
	SourceID   string
	Provider   string
	RetryCount int
	Attempts   int
}

// DocumentSummary is the archive view joined into the full history.
type DocumentSummary struct {
	DocumentType string
	Checksum     string
	SizeBytes    int64
	CreatedAt    time.Time
}

// RetryStatus is the active schedule view joined into the full history.
type RetryStatus struct {
	RetryCount int
	MaxRetries int
	RetryAfter time.Time
	LastError  string
}

// RecordStory is the composite answer to "what is the full story of this
// invoice": the record, everything that happened to it, its artifacts and
// its pending retry, if any.
type RecordStory struct {
	Record    *recorddomain.InvoiceRecord
	History   []*historydomain.HistoryEntry
	Documents []DocumentSummary
	Retry     *RetryStatus
}

// FullHistoryResponse groups stories per provider for one source event.
type FullHistoryResponse struct {
	Stories []RecordStory
}

// StatsRequest narrows processing statistics.
type StatsRequest struct {
	Provider string
	StartAt  *time.Time
	EndAt    *time.Time
}

// StatsResponse summarizes pipeline health for dashboards.
type StatsResponse struct {
	Total           int64
	Pending         int64
	Processing      int64
	Completed       int64
	Failed          int64
	Retry           int64
	Cancelled       int64
	SuccessRate     float64
	AverageAttempts float64
}

// Service orchestrates invoice submissions: duplicate suppression, the
// status state machine, retry scheduling and the audit/history trail.
type Service interface {
	Intake(ctx context.Context, req IntakeRequest) (IntakeResult, error)
	ApplyResult(ctx context.Context, recordID snowflake.ID, result providerdomain.Result, action string) (*recorddomain.InvoiceRecord, error)
	Cancel(ctx context.Context, recordID snowflake.ID, reason string, actor Actor) (*recorddomain.InvoiceRecord, error)
	SweepDueRetries(ctx context.Context, provider string) ([]RetryCandidate, error)
	ResolveRetry(ctx context.Context, entryID snowflake.ID, result providerdomain.Result) (*recorddomain.InvoiceRecord, error)
	FullHistory(ctx context.Context, sourceID, provider string) (FullHistoryResponse, error)
	Stats(ctx context.Context, req StatsRequest) (StatsResponse, error)
}
