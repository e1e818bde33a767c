package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"kdsgroup.co.in/hms/config"
	"kdsgroup.co.in/hms/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrations(db))
	return db
}

func TestGormRecorder(t *testing.T) {
	ctx := context.Background()
	rec := NewGormRecorder(testDB(t))

	first, err := NewLog(models.SubmissionVisit, 42, map[string]int{"requisitionId": 1}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, rec.Record(ctx, first))

	second, err := NewLog(models.SubmissionRequisition, 42, map[string]int{"handpumpId": 5}, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, errors.New("db error"))
	require.NoError(t, err)
	require.NoError(t, rec.Record(ctx, second))

	other, err := NewLog(models.SubmissionVisit, 7, map[string]int{}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, rec.Record(ctx, other))

	logs, err := rec.List(ctx, 42, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, second.Reference, logs[0].Reference, "newest first")
	assert.Equal(t, first.Reference, logs[1].Reference)

	assert.False(t, logs[0].Succeeded)
	assert.Equal(t, "db error", logs[0].Error)
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, []string(logs[0].PhotoURLs))
	assert.JSONEq(t, `{"handpumpId":5}`, string(logs[0].Payload))
	assert.True(t, logs[1].Succeeded)

	logs, err = rec.List(ctx, 42, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, second.Reference, logs[0].Reference)
}
