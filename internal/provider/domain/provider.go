// Package domain defines the outward contract with fiscal providers.
// Concrete adapters (OAuth flows, UBL generation, authority REST calls) live
// outside the orchestration core; the core only consumes this interface.
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Payload is the immutable invoice snapshot handed to a provider per attempt.
type Payload struct {
	SourceID      string
	SourceKind    string
	CustomerID    string
	CustomerEmail string
	CustomerTaxID string
	Amount        decimal.Decimal
	Currency      string
	InvoiceDate   time.Time
	Metadata      map[string]any
}

// GeneratedDocument is an artifact produced during submission.
type GeneratedDocument struct {
	Type    string
	Content string
}

// Result is the outcome of one submission attempt as reported by a provider.
// A timeout signalled by the caller arrives here as a failure; the core does
// not time out provider calls itself.
type Result struct {
	Success      bool
	ExternalID   string
	ErrorKind    string
	ErrorMessage string
	Document     *GeneratedDocument
	Response     map[string]any
}

// Provider is a destination fiscal system capable of accepting a submission.
// Implementations form a fixed set selected by configuration at startup.
type Provider interface {
	Name() string
	Submit(ctx context.Context, payload Payload) (Result, error)
}
