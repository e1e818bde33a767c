package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
	"kdsgroup.co.in/hms/models"
)

var ErrNotFound = errors.New("session not found")

// Store persists sessions. Get returns ErrNotFound for missing or expired
// sessions.
type Store interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (m *MemoryStore) Create(_ context.Context, s *models.Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	cp := *s
	m.c.Set(s.ID.String(), &cp, time.Until(s.ExpiresAt))
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*models.Session, error) {
	v, ok := m.c.Get(id.String())
	if !ok {
		return nil, ErrNotFound
	}
	s := *v.(*models.Session)
	if s.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.c.Delete(id.String())
	return nil
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Create(ctx context.Context, s *models.Session) error {
	if err := g.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (g *GormStore) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var s models.Session
	err := g.db.WithContext(ctx).Where("id = ? AND expires_at > ?", id, time.Now()).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

func (g *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	return g.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
}

// PurgeExpired removes sessions past their deadline.
func (g *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := g.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
