// Package domain contains the append-only audit trail models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	EventTypeInvoiceProcessing = "invoice_processing"

	ResourceTypeInvoice = "invoice"

	ActorSystem = "system"
)

// AuditLog is one immutable system-wide event. It is keyed by resource type
// and id rather than a foreign key so compliance queries stay decoupled from
// any single record's lifecycle.
type AuditLog struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	EventType    string       `gorm:"type:text;not null;index:ix_audit_event_created,priority:1"`
	ResourceType string       `gorm:"type:text;not null;index:ix_audit_resource,priority:1"`
	ResourceID   string       `gorm:"type:text;index:ix_audit_resource,priority:2"`
	Action       string       `gorm:"type:text;not null"`
	Description  string       `gorm:"type:text"`

	Changes  datatypes.JSONMap `gorm:"type:jsonb"`
	Metadata datatypes.JSONMap `gorm:"type:jsonb"`

	ActorID   string `gorm:"type:text;not null;default:'system'"`
	IPAddress string `gorm:"type:text"`
	UserAgent string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_audit_event_created,priority:2"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }
