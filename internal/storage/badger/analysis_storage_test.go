package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/interfaces"
	"github.com/ternarybob/argentum/internal/models"
)

func newTestStorage(t *testing.T) *AnalysisStorage {
	t.Helper()

	db, err := NewBadgerDB(arbor.NewLogger(), &common.BadgerConfig{
		Path: t.TempDir() + "/badger",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAnalysisStorage(db, arbor.NewLogger())
}

func testRecord(id string, createdAt time.Time) *models.AnalysisRecord {
	return &models.AnalysisRecord{
		ID:       id,
		Query:    "Analyze this financial document for investment insights",
		FileName: "report.pdf",
		Result: &models.AnalysisResult{
			Verification: &models.ValidationResult{
				IsValidFinancialDocument: true,
				DocumentType:             "Annual Report",
				DetectedSections:         []string{"Income Statement"},
				Summary:                  "Annual results",
			},
			DocumentAnalysis: "analysis text",
			InvestmentAdvice: "advice text",
			RiskReport:       "risk text",
		},
		LLMProvider: "claude",
		CreatedAt:   createdAt,
	}
}

func TestAnalysisStorageSaveAndGet(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	record := testRecord("analysis_1", time.Now())
	require.NoError(t, storage.Save(ctx, record))

	got, err := storage.Get(ctx, "analysis_1")
	require.NoError(t, err)
	assert.Equal(t, record.Query, got.Query)
	assert.Equal(t, "Annual Report", got.Result.Verification.DocumentType)
	assert.Equal(t, "claude", got.LLMProvider)
}

func TestAnalysisStorageGetNotFound(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, interfaces.ErrRecordNotFound)
}

func TestAnalysisStorageSaveRequiresID(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.Save(context.Background(), &models.AnalysisRecord{})
	require.Error(t, err)
}

func TestAnalysisStorageListOrdering(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, storage.Save(ctx, testRecord("a", now.Add(-2*time.Hour))))
	require.NoError(t, storage.Save(ctx, testRecord("b", now.Add(-1*time.Hour))))
	require.NoError(t, storage.Save(ctx, testRecord("c", now)))

	records, err := storage.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "a", records[2].ID)

	limited, err := storage.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAnalysisStorageDeleteOlderThan(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, storage.Save(ctx, testRecord("old", now.Add(-200*time.Hour))))
	require.NoError(t, storage.Save(ctx, testRecord("recent", now)))

	deleted, err := storage.DeleteOlderThan(ctx, now.Add(-168*time.Hour))
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, "old", deleted[0].ID)

	_, err = storage.Get(ctx, "old")
	assert.ErrorIs(t, err, interfaces.ErrRecordNotFound)

	_, err = storage.Get(ctx, "recent")
	assert.NoError(t, err)
}
