package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fiscalgate/internal/record/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, tx *gorm.DB, rec *domain.InvoiceRecord) error {
	return tx.WithContext(ctx).Create(rec).Error
}

func (r *repo) Update(ctx context.Context, tx *gorm.DB, rec *domain.InvoiceRecord) error {
	return tx.WithContext(ctx).Save(rec).Error
}

func (r *repo) FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.InvoiceRecord, error) {
	var rec domain.InvoiceRecord
	err := tx.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo) FindBySource(ctx context.Context, tx *gorm.DB, sourceID, provider string) (*domain.InvoiceRecord, error) {
	var rec domain.InvoiceRecord
	err := tx.WithContext(ctx).
		Where("source_id = ? AND provider = ?", sourceID, provider).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo) ListBySource(ctx context.Context, tx *gorm.DB, sourceID, provider string) ([]*domain.InvoiceRecord, error) {
	var recs []*domain.InvoiceRecord
	stmt := tx.WithContext(ctx).Where("source_id = ?", sourceID)
	if p := strings.TrimSpace(provider); p != "" {
		stmt = stmt.Where("provider = ?", p)
	}
	if err := stmt.Order("created_at asc, id asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *repo) Aggregate(ctx context.Context, tx *gorm.DB, filter domain.StatsFilter) ([]domain.StatusAggregate, error) {
	var rows []domain.StatusAggregate
	stmt := tx.WithContext(ctx).Model(&domain.InvoiceRecord{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(attempts), 0) AS total_attempts")

	if p := strings.TrimSpace(filter.Provider); p != "" {
		stmt = stmt.Where("provider = ?", p)
	}
	if filter.StartAt != nil {
		stmt = stmt.Where("created_at >= ?", filter.StartAt.UTC())
	}
	if filter.EndAt != nil {
		stmt = stmt.Where("created_at <= ?", filter.EndAt.UTC())
	}

	if err := stmt.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
