// Package domain contains the content-addressed document archive models.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Document is one generated artifact (XML, PDF) produced by a provider for a
// record. Write-once per (record, type, provider); content is assumed
// immutable once generated.
type Document struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	RecordID     snowflake.ID `gorm:"not null;uniqueIndex:ux_document_record_type_provider,priority:1;index"`
	SourceID     string       `gorm:"type:text;not null"`
	Provider     string       `gorm:"type:text;not null;uniqueIndex:ux_document_record_type_provider,priority:3"`
	DocumentType string       `gorm:"type:text;not null;uniqueIndex:ux_document_record_type_provider,priority:2"`

	Content   string `gorm:"type:text"`
	Checksum  string `gorm:"type:text;not null"`
	SizeBytes int64  `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "invoice_documents" }

// NewDocument builds an artifact with its content checksum precomputed.
func NewDocument(id snowflake.ID, recordID snowflake.ID, sourceID, provider, documentType, content string, now time.Time) *Document {
	sum := sha256.Sum256([]byte(content))
	return &Document{
		ID:           id,
		RecordID:     recordID,
		SourceID:     sourceID,
		Provider:     provider,
		DocumentType: documentType,
		Content:      content,
		Checksum:     hex.EncodeToString(sum[:]),
		SizeBytes:    int64(len(content)),
		CreatedAt:    now.UTC(),
	}
}
