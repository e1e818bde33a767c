package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session binds a gateway JWT to the upstream bearer token, which is kept
// sealed at rest.
type Session struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      int       `gorm:"index;not null" json:"userId"`
	UserName    string    `gorm:"size:100" json:"userName"`
	Role        string    `gorm:"size:100" json:"role"`
	SealedToken []byte    `gorm:"type:bytea;not null" json:"-"`
	ExpiresAt   time.Time `gorm:"index;not null" json:"expiresAt"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// Expired reports whether the session is past its deadline at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
