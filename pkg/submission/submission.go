// Package submission records every form the gateway forwards to the
// backend, successful or not.
package submission

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"kdsgroup.co.in/hms/models"
)

// Recorder stores submission logs.
type Recorder interface {
	Record(ctx context.Context, log *models.SubmissionLog) error
	List(ctx context.Context, userID, limit int) ([]models.SubmissionLog, error)
}

var entropy = struct {
	sync.Mutex
	r *ulid.MonotonicEntropy
}{r: ulid.Monotonic(rand.Reader, 0)}

// NewReference returns a ULID for t. References sort by time.
func NewReference(t time.Time) string {
	entropy.Lock()
	defer entropy.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy.r).String()
}

// NewLog builds a log entry for a forwarded payload. err is the upstream
// failure, if any.
func NewLog(kind string, userID int, payload any, photos []string, err error) (*models.SubmissionLog, error) {
	b, mErr := json.Marshal(payload)
	if mErr != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, mErr)
	}
	now := time.Now()
	l := &models.SubmissionLog{
		Reference:   NewReference(now),
		Kind:        kind,
		UserID:      userID,
		Payload:     datatypes.JSON(b),
		PhotoURLs:   photos,
		Succeeded:   err == nil,
		SubmittedAt: now,
	}
	if err != nil {
		l.Error = err.Error()
	}
	return l, nil
}

type GormRecorder struct {
	db *gorm.DB
}

func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{db: db}
}

func (g *GormRecorder) Record(ctx context.Context, l *models.SubmissionLog) error {
	return g.db.WithContext(ctx).Create(l).Error
}

func (g *GormRecorder) List(ctx context.Context, userID, limit int) ([]models.SubmissionLog, error) {
	var out []models.SubmissionLog
	q := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("reference DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MemoryRecorder keeps logs in process, newest last.
type MemoryRecorder struct {
	mu   sync.Mutex
	logs []models.SubmissionLog
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (m *MemoryRecorder) Record(_ context.Context, l *models.SubmissionLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *l)
	return nil
}

// List returns the user's logs, newest first.
func (m *MemoryRecorder) List(_ context.Context, userID, limit int) ([]models.SubmissionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SubmissionLog{}
	for _, l := range slices.Backward(m.logs) {
		if l.UserID != userID {
			continue
		}
		out = append(out, l)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
