package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: Core tables.
		{
			ID: "001_core_tables",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&User{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&EscalatedQuestion{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&Notification{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&SoilReport{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"notifications", "escalated_questions", "soil_reports", "users")
			},
		},

		// Migration 002: Full-text search index over question titles
		// and details, used by the assistant's expert-answer lookup.
		{
			ID: "002_question_search",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(
					`CREATE INDEX IF NOT EXISTS idx_questions_fts
					 ON escalated_questions
					 USING GIN (to_tsvector('simple', title || ' ' || details))`,
				).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_questions_fts").Error
			},
		},

		// Migration 003: Server-side chat history.
		{
			ID: "003_chat_history",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&ChatSession{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&ChatMessage{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("chat_messages", "chat_sessions")
			},
		},
	})

	return m.Migrate()
}
