package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fiscalgate/internal/retryqueue/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, tx *gorm.DB, entry *domain.RetryEntry) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *repo) Update(ctx context.Context, tx *gorm.DB, entry *domain.RetryEntry) error {
	return tx.WithContext(ctx).Save(entry).Error
}

func (r *repo) FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.RetryEntry, error) {
	var entry domain.RetryEntry
	err := tx.WithContext(ctx).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repo) ActiveByRecord(ctx context.Context, tx *gorm.DB, recordID snowflake.ID) (*domain.RetryEntry, error) {
	var entry domain.RetryEntry
	err := tx.WithContext(ctx).
		Where("record_id = ? AND active = ?", recordID, true).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repo) Due(ctx context.Context, tx *gorm.DB, provider string, now time.Time) ([]*domain.RetryEntry, error) {
	var entries []*domain.RetryEntry
	stmt := tx.WithContext(ctx).
		Where("active = ? AND completed = ?", true, false).
		Where("retry_after <= ?", now.UTC()).
		Where("retry_count < max_retries")

	if p := strings.TrimSpace(provider); p != "" {
		stmt = stmt.Where("provider = ?", p)
	}

	if err := stmt.Order("retry_after asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
