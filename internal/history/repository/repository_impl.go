package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fiscalgate/internal/history/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Start(ctx context.Context, tx *gorm.DB, entry *domain.HistoryEntry) error {
	return tx.WithContext(ctx).Create(entry).Error
}

// Complete seals an entry. Only the resolution columns are written so a
// sealed entry's request snapshot stays untouched.
func (r *repo) Complete(ctx context.Context, tx *gorm.DB, entry *domain.HistoryEntry) error {
	return tx.WithContext(ctx).Model(&domain.HistoryEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"status":        entry.Status,
			"response_data": entry.ResponseData,
			"error_message": entry.ErrorMessage,
			"completed_at":  entry.CompletedAt,
			"duration_ms":   entry.DurationMs,
		}).Error
}

func (r *repo) ListByRecord(ctx context.Context, tx *gorm.DB, recordID snowflake.ID) ([]*domain.HistoryEntry, error) {
	var entries []*domain.HistoryEntry
	err := tx.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("started_at asc, id asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
