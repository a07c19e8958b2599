package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/fiscalgate/internal/archive/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStoreIsIdempotentPerKey(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Document{}))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := Provide()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	recordID := node.Generate()

	first := domain.NewDocument(node.Generate(), recordID, "ch_1", "anaf", "xml", "<Invoice/>", now)
	stored, err := repo.Store(ctx, db, first)
	require.NoError(t, err)
	assert.True(t, stored)

	// Regenerating the same document for the same key is a no-op.
	second := domain.NewDocument(node.Generate(), recordID, "ch_1", "anaf", "xml", "<Invoice/>", now.Add(time.Hour))
	stored, err = repo.Store(ctx, db, second)
	require.NoError(t, err)
	assert.False(t, stored)

	var count int64
	db.Model(&domain.Document{}).Where("record_id = ?", recordID).Count(&count)
	assert.Equal(t, int64(1), count)

	// A different document type for the same record is its own artifact.
	pdf := domain.NewDocument(node.Generate(), recordID, "ch_1", "anaf", "pdf", "%PDF-1.7", now)
	stored, err = repo.Store(ctx, db, pdf)
	require.NoError(t, err)
	assert.True(t, stored)

	docs, err := repo.ListByRecord(ctx, db, recordID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestChecksumAndSize(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	doc := domain.NewDocument(node.Generate(), node.Generate(), "ch_1", "anaf", "xml", "<Invoice/>", now)
	same := domain.NewDocument(node.Generate(), node.Generate(), "ch_2", "smartbill", "xml", "<Invoice/>", now)
	other := domain.NewDocument(node.Generate(), node.Generate(), "ch_3", "anaf", "xml", "<CreditNote/>", now)

	assert.Equal(t, doc.Checksum, same.Checksum)
	assert.NotEqual(t, doc.Checksum, other.Checksum)
	assert.Equal(t, int64(len("<Invoice/>")), doc.SizeBytes)
}
