package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"kdsgroup.co.in/hms/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "19102026_create_sessions",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Session{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.Session{})
			},
		},
		{
			ID: "19102026_create_search_snapshots",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.SearchSnapshotRecord{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.SearchSnapshotRecord{})
			},
		},
		{
			ID: "19102026_create_submission_logs",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&models.SubmissionLog{}); err != nil {
					return err
				}
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_submission_logs_user_kind ON submission_logs (user_id, kind)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.SubmissionLog{})
			},
		},
	})

	return m.Migrate()
}
