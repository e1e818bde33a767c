package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"kdsgroup.co.in/hms/models"
)

// GormStore persists snapshots in the search_snapshots table. Rows older
// than ttl are treated as missing.
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
	log *zap.Logger
}

func NewGormStore(db *gorm.DB, ttl time.Duration, log *zap.Logger) *GormStore {
	return &GormStore{db: db, ttl: ttl, log: log}
}

func (g *GormStore) Load(ctx context.Context, userID int) (Snapshot, bool) {
	var rec models.SearchSnapshotRecord
	err := g.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			g.log.Warn("snapshot load failed", zap.Int("userId", userID), zap.Error(err))
		}
		return Snapshot{}, false
	}
	if g.ttl > 0 && time.Since(rec.UpdatedAt) > g.ttl {
		return Snapshot{}, false
	}
	var s Snapshot
	if err := json.Unmarshal(rec.Payload, &s); err != nil {
		g.log.Warn("snapshot decode failed", zap.Int("userId", userID), zap.Error(err))
		return Snapshot{}, false
	}
	return s, true
}

func (g *GormStore) Save(ctx context.Context, userID int, s Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	rec := models.SearchSnapshotRecord{
		UserID:    userID,
		Payload:   datatypes.JSON(payload),
		FetchedAt: s.FetchedAt(),
	}
	err = g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (g *GormStore) Invalidate(ctx context.Context, userID int) error {
	return g.db.WithContext(ctx).Delete(&models.SearchSnapshotRecord{}, "user_id = ?", userID).Error
}
