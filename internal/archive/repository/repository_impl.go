package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fiscalgate/internal/archive/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Store(ctx context.Context, tx *gorm.DB, doc *domain.Document) (bool, error) {
	existing, err := r.Get(ctx, tx, doc.RecordID, doc.DocumentType, doc.Provider)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if err := tx.WithContext(ctx).Create(doc).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *repo) Get(ctx context.Context, tx *gorm.DB, recordID snowflake.ID, documentType, provider string) (*domain.Document, error) {
	var doc domain.Document
	err := tx.WithContext(ctx).
		Where("record_id = ? AND document_type = ? AND provider = ?", recordID, documentType, provider).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *repo) ListByRecord(ctx context.Context, tx *gorm.DB, recordID snowflake.ID) ([]*domain.Document, error) {
	var docs []*domain.Document
	err := tx.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("created_at asc, id asc").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}
