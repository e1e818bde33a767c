package models

import (
	"time"

	"gorm.io/datatypes"
)

// SearchSnapshotRecord persists a user's search snapshot as JSONB so a
// restarted gateway does not refetch every dataset.
type SearchSnapshotRecord struct {
	UserID    int            `gorm:"primaryKey;autoIncrement:false"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	FetchedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (SearchSnapshotRecord) TableName() string {
	return "search_snapshots"
}
